package daemon

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/charlie0129/calc/pkg/config"
	"github.com/charlie0129/calc/pkg/events"
	"github.com/charlie0129/calc/pkg/metrics"
	"github.com/charlie0129/calc/pkg/session"
)

// Daemon serves calculator sessions over HTTP.
type Daemon struct {
	conf    config.Config
	manager *session.Manager
	hub     *events.EventHub
	metrics *metrics.Metrics

	done      chan struct{}
	closeOnce sync.Once
}

// New builds a daemon around store. Metrics are collected only when the
// config enables them.
func New(conf config.Config, store session.Store) *Daemon {
	d := &Daemon{
		conf: conf,
		hub:  events.NewEventHub(),
		done: make(chan struct{}),
	}

	opts := []session.Option{session.WithEventHub(d.hub)}
	if conf.EnableMetrics() {
		d.metrics = metrics.New()
		opts = append(opts, session.WithMetrics(d.metrics))
	}
	d.manager = session.NewManager(store, opts...)
	d.metrics.TrackSessions(d.manager.Count)

	return d
}

// Manager returns the session manager the daemon serves.
func (d *Daemon) Manager() *session.Manager {
	return d.manager
}

// Hub returns the hub events are published to.
func (d *Daemon) Hub() *events.EventHub {
	return d.hub
}

// Close ends all event streams.
func (d *Daemon) Close() {
	d.closeOnce.Do(func() {
		close(d.done)
	})
}

func (d *Daemon) setupRoutes() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(ginLogger(logrus.StandardLogger()))
	router.GET("/version", d.getVersion)
	router.GET("/config", d.getConfig)
	router.GET("/events", d.streamEvents)
	router.GET("/sessions", d.listSessions)

	s := router.Group("/sessions/:id")
	s.GET("", d.getSession)
	s.GET("/display", d.getDisplay)
	s.DELETE("", d.deleteSession)
	s.POST("/keys", d.pressKeys)
	s.POST("/digit", d.pressDigit)
	s.POST("/operator", d.pressOperator)
	s.POST("/equals", d.pressEquals)
	s.POST("/clear", d.pressClear)

	if d.metrics != nil {
		router.GET("/metrics", gin.WrapH(d.metrics.Handler()))
	}

	return router
}

// Handler returns the HTTP handler of the daemon API.
func (d *Daemon) Handler() http.Handler {
	return d.setupRoutes()
}

// NewStore opens the session store selected by conf. The returned function
// closes it.
func NewStore(conf config.Config) (session.Store, func() error, error) {
	switch conf.SessionStore() {
	case config.StoreMemory:
		return session.NewMemoryStore(), func() error { return nil }, nil
	case config.StoreRedis:
		s := session.NewRedisStore(conf.RedisAddr(), conf.RedisPassword(), conf.RedisDB(),
			session.WithPrefix(conf.RedisPrefix()),
			session.WithTTL(conf.SessionTTL()),
		)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.Ping(ctx); err != nil {
			_ = s.Close()
			return nil, nil, err
		}
		return s, s.Close, nil
	}
	return nil, nil, pkgerrors.Errorf("unknown session store %q", conf.SessionStore())
}

// startupSettings are the config values only read when the daemon starts.
type startupSettings struct {
	AllowNonRootAccess bool
	SessionStore       string
	RedisAddr          string
	RedisPassword      string
	RedisDB            int
	RedisPrefix        string
	SessionTTL         time.Duration
	EnableMetrics      bool
}

func startupSettingsOf(conf config.Config) startupSettings {
	return startupSettings{
		AllowNonRootAccess: conf.AllowNonRootAccess(),
		SessionStore:       conf.SessionStore(),
		RedisAddr:          conf.RedisAddr(),
		RedisPassword:      conf.RedisPassword(),
		RedisDB:            conf.RedisDB(),
		RedisPrefix:        conf.RedisPrefix(),
		SessionTTL:         conf.SessionTTL(),
		EnableMetrics:      conf.EnableMetrics(),
	}
}

// changed returns the config keys whose values differ in next.
func (s startupSettings) changed(next startupSettings) []string {
	var names []string
	if s.AllowNonRootAccess != next.AllowNonRootAccess {
		names = append(names, "allowNonRootAccess")
	}
	if s.SessionStore != next.SessionStore {
		names = append(names, "sessionStore")
	}
	if s.RedisAddr != next.RedisAddr {
		names = append(names, "redisAddr")
	}
	if s.RedisPassword != next.RedisPassword {
		names = append(names, "redisPassword")
	}
	if s.RedisDB != next.RedisDB {
		names = append(names, "redisDB")
	}
	if s.RedisPrefix != next.RedisPrefix {
		names = append(names, "redisPrefix")
	}
	if s.SessionTTL != next.SessionTTL {
		names = append(names, "sessionTTL")
	}
	if s.EnableMetrics != next.EnableMetrics {
		names = append(names, "enableMetrics")
	}
	return names
}

// listen removes a stale socket left behind by a daemon that did not shut
// down cleanly, then listens on unixSocketPath.
func listen(unixSocketPath string) (net.Listener, error) {
	if _, err := os.Stat(unixSocketPath); err == nil {
		if conn, err := net.Dial("unix", unixSocketPath); err == nil {
			_ = conn.Close()
			return nil, pkgerrors.Errorf("another daemon is already listening on %s", unixSocketPath)
		}
		logrus.Warnf("removing stale socket %s", unixSocketPath)
		if err := os.Remove(unixSocketPath); err != nil {
			return nil, pkgerrors.Wrapf(err, "failed to remove stale socket %s", unixSocketPath)
		}
	}

	l, err := net.Listen("unix", unixSocketPath)
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to listen on %s", unixSocketPath)
	}
	return l, nil
}

func Run(configPath string, unixSocketPath string, allowNonRoot bool) error {
	conf, err := config.NewFile(configPath)
	if err != nil {
		return pkgerrors.Wrapf(err, "failed to parse config during startup")
	}
	if err := conf.Validate(); err != nil {
		return pkgerrors.Wrapf(err, "invalid config %s", configPath)
	}
	logrus.WithFields(conf.LogrusFields()).Infof("config loaded")

	store, closeStore, err := NewStore(conf)
	if err != nil {
		return pkgerrors.Wrapf(err, "failed to open %s session store", conf.SessionStore())
	}

	d := New(conf, store)

	// Receive SIGHUP to reload config
	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)
	go func() {
		for range hup {
			before := startupSettingsOf(conf)
			err := conf.Load()
			if err == nil {
				err = conf.Validate()
			}
			if err != nil {
				logrus.Errorf("failed to reload config: %v", err)
				continue
			}
			for _, name := range before.changed(startupSettingsOf(conf)) {
				logrus.Warnf("%s changed, restart the daemon to apply", name)
			}
			logrus.WithFields(conf.LogrusFields()).Infof("config reloaded")
		}
	}()

	srv := &http.Server{
		Handler:           d.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Create the socket to listen on:
	l, err := listen(unixSocketPath)
	if err != nil {
		_ = closeStore()
		return err
	}

	if conf.AllowNonRootAccess() || allowNonRoot {
		logrus.Infof("non-root access is allowed, changing permissions of %s to 0777", unixSocketPath)
		err = os.Chmod(unixSocketPath, 0777)
		if err != nil {
			_ = l.Close()
			_ = closeStore()
			return pkgerrors.Wrapf(err, "failed to chmod %s", unixSocketPath)
		}
	}

	serveErr := make(chan error, 1)
	// Serve HTTP on unix socket
	go func() {
		logrus.Infof("http server listening on %s", l.Addr().String())
		if err := srv.Serve(l); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	// Handle common process-killing signals, so we can gracefully shut down:
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigc)

	// Wait for a SIGINT or SIGTERM, or for the server to fail:
	select {
	case sig := <-sigc:
		logrus.Infof("caught signal \"%s\": shutting down.", sig)
	case err = <-serveErr:
		logrus.Errorf("http server failed: %v", err)
	}

	// Event streams never go idle on their own.
	d.Close()

	logrus.Info("shutting down http server")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := srv.Shutdown(ctx); err != nil {
		logrus.Errorf("failed to shutdown http server: %v", err)
	}
	cancel()

	logrus.Info("closing session store")
	if err := closeStore(); err != nil {
		logrus.Errorf("failed to close session store: %v", err)
	}

	logrus.Info("exiting")
	return err
}
