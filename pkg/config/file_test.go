package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestFileDefaults(t *testing.T) {
	f, err := NewFile(filepath.Join(t.TempDir(), "missing.json"))
	if err != nil {
		t.Fatalf("NewFile: %v", err)
	}
	if f.AllowNonRootAccess() {
		t.Errorf("AllowNonRootAccess() = true, want false")
	}
	if got := f.SessionStore(); got != StoreMemory {
		t.Errorf("SessionStore() = %q, want %q", got, StoreMemory)
	}
	if got := f.SessionTTL(); got != 0 {
		t.Errorf("SessionTTL() = %v, want 0", got)
	}
	if !f.EnableMetrics() {
		t.Errorf("EnableMetrics() = false, want true")
	}
	if err := f.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}

func TestFileLoadFormats(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{
			name:    "json",
			file:    "calc.json",
			content: `{"sessionStore":"redis","redisAddr":"redis:6379","redisDB":2,"sessionTTL":"30m","enableMetrics":false}`,
		},
		{
			name: "yaml",
			file: "calc.yaml",
			content: `sessionStore: redis
redisAddr: redis:6379
redisDB: 2
sessionTTL: 30m
enableMetrics: false
`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), tt.file)
			if err := os.WriteFile(path, []byte(tt.content), 0600); err != nil {
				t.Fatal(err)
			}
			f, err := NewFile(path)
			if err != nil {
				t.Fatalf("NewFile: %v", err)
			}
			if got := f.SessionStore(); got != StoreRedis {
				t.Errorf("SessionStore() = %q", got)
			}
			if got := f.RedisAddr(); got != "redis:6379" {
				t.Errorf("RedisAddr() = %q", got)
			}
			if got := f.RedisDB(); got != 2 {
				t.Errorf("RedisDB() = %d", got)
			}
			if got := f.RedisPrefix(); got != "calc:session:" {
				t.Errorf("RedisPrefix() = %q", got)
			}
			if got := f.SessionTTL(); got != 30*time.Minute {
				t.Errorf("SessionTTL() = %v", got)
			}
			if f.EnableMetrics() {
				t.Errorf("EnableMetrics() = true")
			}
		})
	}
}

func TestFileEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "calc.json")
	if err := os.WriteFile(path, []byte("  \n"), 0600); err != nil {
		t.Fatal(err)
	}
	f, err := NewFile(path)
	if err != nil {
		t.Fatalf("NewFile: %v", err)
	}
	if got := f.SessionStore(); got != StoreMemory {
		t.Errorf("SessionStore() = %q", got)
	}
}

func TestFileMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "calc.json")
	if err := os.WriteFile(path, []byte("{"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := NewFile(path); err == nil {
		t.Fatal("expected error for malformed config")
	}
}

func TestFileSaveReload(t *testing.T) {
	for _, name := range []string{"calc.json", "calc.yml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			f := NewFileFromConfig(nil, path)
			f.SetAllowNonRootAccess(true)
			f.SetSessionStore(StoreRedis)
			f.SetEnableMetrics(false)
			if err := f.Save(); err != nil {
				t.Fatalf("Save: %v", err)
			}

			g, err := NewFile(path)
			if err != nil {
				t.Fatalf("NewFile: %v", err)
			}
			if !g.AllowNonRootAccess() || g.SessionStore() != StoreRedis || g.EnableMetrics() {
				t.Fatalf("reloaded config differs: %+v", g.LogrusFields())
			}
		})
	}
}

func TestFileValidate(t *testing.T) {
	bad := []*RawFileConfig{
		{SessionStore: strPtr("etcd")},
		{SessionTTL: strPtr("soon")},
		{SessionTTL: strPtr("-1m")},
	}
	for _, c := range bad {
		if err := NewFileFromConfig(c, "").Validate(); err == nil {
			t.Errorf("Validate() accepted %+v", c)
		}
	}
}

func TestRawFileConfigFromConfig(t *testing.T) {
	f := NewFileFromConfig(&RawFileConfig{RedisPassword: strPtr("secret"), SessionTTL: strPtr("1h")}, "")
	raw, err := NewRawFileConfigFromConfig(f)
	if err != nil {
		t.Fatal(err)
	}
	if raw.RedisPassword != nil {
		t.Errorf("password leaked into effective config")
	}
	if raw.SessionTTL == nil || *raw.SessionTTL != "1h0m0s" {
		t.Errorf("SessionTTL = %v", raw.SessionTTL)
	}
	if raw.SessionStore == nil || *raw.SessionStore != StoreMemory {
		t.Errorf("SessionStore = %v", raw.SessionStore)
	}
}

func strPtr(s string) *string { return &s }
