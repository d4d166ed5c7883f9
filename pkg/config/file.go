package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/charlie0129/calc/pkg/utils/ptr"
)

var (
	defaultFileConfig = &RawFileConfig{
		AllowNonRootAccess: ptr.To(false),
		SessionStore:       ptr.To(StoreMemory),
		RedisAddr:          ptr.To("127.0.0.1:6379"),
		RedisPassword:      ptr.To(""),
		RedisDB:            ptr.To(0),
		RedisPrefix:        ptr.To("calc:session:"),
		// Sessions live until deleted unless a TTL is configured.
		SessionTTL:    ptr.To("0"),
		EnableMetrics: ptr.To(true),
	}
)

var _ Config = &File{}

// File is a Config backed by a JSON file, or a YAML file when the path ends
// in .yaml or .yml.
type File struct {
	c        *RawFileConfig
	mu       *sync.RWMutex
	filepath string
}

func NewFile(configPath string) (*File, error) {
	f := &File{
		filepath: configPath,
		mu:       &sync.RWMutex{},
	}
	err := f.Load()
	if err != nil {
		return nil, err
	}

	return f, nil
}

func NewFileFromConfig(c *RawFileConfig, configPath string) *File {
	if c == nil {
		c = &RawFileConfig{}
	}

	f := &File{
		c:        c,
		mu:       &sync.RWMutex{},
		filepath: configPath,
	}

	return f
}

type RawFileConfig struct {
	AllowNonRootAccess *bool   `json:"allowNonRootAccess,omitempty" yaml:"allowNonRootAccess,omitempty"`
	SessionStore       *string `json:"sessionStore,omitempty" yaml:"sessionStore,omitempty"`
	RedisAddr          *string `json:"redisAddr,omitempty" yaml:"redisAddr,omitempty"`
	RedisPassword      *string `json:"redisPassword,omitempty" yaml:"redisPassword,omitempty"`
	RedisDB            *int    `json:"redisDB,omitempty" yaml:"redisDB,omitempty"`
	RedisPrefix        *string `json:"redisPrefix,omitempty" yaml:"redisPrefix,omitempty"`
	SessionTTL         *string `json:"sessionTTL,omitempty" yaml:"sessionTTL,omitempty"`
	EnableMetrics      *bool   `json:"enableMetrics,omitempty" yaml:"enableMetrics,omitempty"`
}

// NewRawFileConfigFromConfig returns the effective configuration with every
// default filled in. The redis password is never included.
func NewRawFileConfigFromConfig(c Config) (*RawFileConfig, error) {
	if c == nil {
		return nil, pkgerrors.New("config is nil")
	}

	rawConfig := &RawFileConfig{
		AllowNonRootAccess: ptr.To(c.AllowNonRootAccess()),
		SessionStore:       ptr.To(c.SessionStore()),
		RedisAddr:          ptr.To(c.RedisAddr()),
		RedisDB:            ptr.To(c.RedisDB()),
		RedisPrefix:        ptr.To(c.RedisPrefix()),
		SessionTTL:         ptr.To(c.SessionTTL().String()),
		EnableMetrics:      ptr.To(c.EnableMetrics()),
	}

	return rawConfig, nil
}

func (f *File) AllowNonRootAccess() bool {
	if f.c == nil {
		panic("config is nil")
	}

	f.mu.RLock()
	defer f.mu.RUnlock()

	return ptr.Deref(f.c.AllowNonRootAccess, *defaultFileConfig.AllowNonRootAccess)
}

func (f *File) SessionStore() string {
	if f.c == nil {
		panic("config is nil")
	}

	f.mu.RLock()
	defer f.mu.RUnlock()

	return ptr.Deref(f.c.SessionStore, *defaultFileConfig.SessionStore)
}

func (f *File) RedisAddr() string {
	if f.c == nil {
		panic("config is nil")
	}

	f.mu.RLock()
	defer f.mu.RUnlock()

	return ptr.Deref(f.c.RedisAddr, *defaultFileConfig.RedisAddr)
}

func (f *File) RedisPassword() string {
	if f.c == nil {
		panic("config is nil")
	}

	f.mu.RLock()
	defer f.mu.RUnlock()

	return ptr.Deref(f.c.RedisPassword, *defaultFileConfig.RedisPassword)
}

func (f *File) RedisDB() int {
	if f.c == nil {
		panic("config is nil")
	}

	f.mu.RLock()
	defer f.mu.RUnlock()

	return ptr.Deref(f.c.RedisDB, *defaultFileConfig.RedisDB)
}

func (f *File) RedisPrefix() string {
	if f.c == nil {
		panic("config is nil")
	}

	f.mu.RLock()
	defer f.mu.RUnlock()

	return ptr.Deref(f.c.RedisPrefix, *defaultFileConfig.RedisPrefix)
}

// SessionTTL returns 0 when the configured value cannot be parsed; Validate
// reports that case.
func (f *File) SessionTTL() time.Duration {
	if f.c == nil {
		panic("config is nil")
	}

	f.mu.RLock()
	defer f.mu.RUnlock()

	ttl, err := parseTTL(ptr.Deref(f.c.SessionTTL, *defaultFileConfig.SessionTTL))
	if err != nil {
		return 0
	}
	return ttl
}

func (f *File) EnableMetrics() bool {
	if f.c == nil {
		panic("config is nil")
	}

	f.mu.RLock()
	defer f.mu.RUnlock()

	return ptr.Deref(f.c.EnableMetrics, *defaultFileConfig.EnableMetrics)
}

func (f *File) SetAllowNonRootAccess(b bool) {
	if f.c == nil {
		panic("config is nil")
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	f.c.AllowNonRootAccess = &b
}

func (f *File) SetSessionStore(s string) {
	if f.c == nil {
		panic("config is nil")
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	f.c.SessionStore = &s
}

func (f *File) SetEnableMetrics(b bool) {
	if f.c == nil {
		panic("config is nil")
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	f.c.EnableMetrics = &b
}

func (f *File) Validate() error {
	if f.c == nil {
		return pkgerrors.New("config is nil")
	}

	switch s := f.SessionStore(); s {
	case StoreMemory, StoreRedis:
	default:
		return pkgerrors.Errorf("unknown session store %q, must be %q or %q", s, StoreMemory, StoreRedis)
	}

	f.mu.RLock()
	defer f.mu.RUnlock()

	if f.c.SessionTTL != nil {
		ttl, err := parseTTL(*f.c.SessionTTL)
		if err != nil {
			return pkgerrors.Wrapf(err, "invalid session TTL %q", *f.c.SessionTTL)
		}
		if ttl < 0 {
			return pkgerrors.Errorf("session TTL must not be negative, got %s", ttl)
		}
	}

	return nil
}

func parseTTL(s string) (time.Duration, error) {
	if s == "" || s == "0" {
		return 0, nil
	}
	return time.ParseDuration(s)
}

func (f *File) isYAML() bool {
	switch strings.ToLower(filepath.Ext(f.filepath)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

func (f *File) Load() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	b, err := os.ReadFile(f.filepath)
	if err != nil {
		if os.IsNotExist(err) {
			// If the file does not exist, return the empty config.
			// Do not make f.c a nil.
			f.c = &RawFileConfig{}
			return nil
		}
		return pkgerrors.Wrapf(err, "failed to read file %s", f.filepath)
	}

	if strings.TrimSpace(string(b)) == "" {
		// If the file is empty, return the empty config.
		// Do not make f.c a nil.
		f.c = &RawFileConfig{}
		return nil
	}

	conf := RawFileConfig{}
	if f.isYAML() {
		err = yaml.Unmarshal(b, &conf)
	} else {
		err = json.Unmarshal(b, &conf)
	}
	if err != nil {
		return pkgerrors.Wrapf(err, "failed to unmarshal config from file %s", f.filepath)
	}
	f.c = &conf

	return nil
}

func (f *File) Save() error {
	f.mu.RLock()
	defer f.mu.RUnlock()

	if f.c == nil {
		return pkgerrors.New("config is nil")
	}

	fp, err := os.OpenFile(f.filepath, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return pkgerrors.Wrapf(err, "failed to open file %s", f.filepath)
	}
	defer func(fp *os.File) {
		err := fp.Close()
		if err != nil {
			logrus.Warnf("failed to close file %s", f.filepath)
		}
	}(fp)

	if f.isYAML() {
		enc := yaml.NewEncoder(fp)
		enc.SetIndent(2)
		err = enc.Encode(f.c)
		if err == nil {
			err = enc.Close()
		}
	} else {
		enc := json.NewEncoder(fp)
		enc.SetIndent("", "  ")
		err = enc.Encode(f.c)
	}
	if err != nil {
		return pkgerrors.Wrapf(err, "failed to encode config to file %s", f.filepath)
	}

	return nil
}

func (f *File) LogrusFields() logrus.Fields {
	if f.c == nil {
		panic("config is nil")
	}

	return logrus.Fields{
		"allowNonRootAccess": f.AllowNonRootAccess(),
		"sessionStore":       f.SessionStore(),
		"redisAddr":          f.RedisAddr(),
		"redisDB":            f.RedisDB(),
		"redisPrefix":        f.RedisPrefix(),
		"sessionTTL":         f.SessionTTL().String(),
		"enableMetrics":      f.EnableMetrics(),
	}
}
