package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/ustclug/revlines/pkg/cron"
	"github.com/ustclug/revlines/pkg/model"
)

const jobReapCursors = "reap-cursors"

type Server struct {
	e       *echo.Echo
	config  *Config
	cron    *cron.Cron
	db      *gorm.DB
	logger  *slog.Logger
	cursors *cursorStore
}

func New(configPath string) (*Server, error) {
	cfg, err := LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	return NewWithConfig(cfg)
}

func newSlogger(writer io.Writer, addSource bool, level slog.Leveler) *slog.Logger {
	return slog.New(slog.NewTextHandler(writer, &slog.HandlerOptions{
		AddSource: addSource,
		Level:     level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.SourceKey {
				source, _ := a.Value.Any().(*slog.Source)
				if source != nil {
					_, after, _ := strings.Cut(source.File, "revlines")
					source.File = after
				}
			}
			return a
		},
	}))
}

func openDB(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		QueryFields:            true,
		SkipDefaultTransaction: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	// To resolve the "database is locked" error and to keep ":memory:"
	// databases on a single connection.
	sqlDB.SetMaxOpenConns(1)
	if err := model.AutoMigrate(db); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

func NewWithConfig(cfg *Config) (*Server, error) {
	if info, err := os.Stat(cfg.LogDir); err != nil {
		return nil, err
	} else if !info.IsDir() {
		return nil, fmt.Errorf("not a directory: %s", cfg.LogDir)
	}
	db, err := openDB(cfg.DbURL)
	if err != nil {
		return nil, err
	}

	slogger := newSlogger(os.Stderr, cfg.Debug, cfg.LogLevel)
	s := Server{
		e:       echo.New(),
		cron:    cron.New(),
		db:      db,
		logger:  slogger,
		config:  cfg,
		cursors: newCursorStore(cfg.CursorTTL),
	}

	s.e.Validator = newEchoValidator()
	s.e.Debug = cfg.Debug
	s.e.HideBanner = true
	s.e.HidePort = true
	s.e.Logger.SetOutput(io.Discard)

	// Middlewares.
	// The order matters.
	s.e.Use(middleware.Recover())
	s.e.Use(middleware.RequestID())
	s.e.Use(setLogger(slogger))
	s.e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:    true,
		LogMethod:    true,
		LogURI:       true,
		LogLatency:   true,
		LogUserAgent: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			attrs := []slog.Attr{
				slog.Int("status", v.Status),
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.String("user_agent", v.UserAgent),
				slog.Duration("latency", v.Latency),
			}
			l := getLogger(c)
			l.LogAttrs(context.Background(), slog.LevelInfo, "REQUEST", attrs...)
			return nil
		},
	}))

	s.registerAPIs(s.e)

	return &s, nil
}

// Start serves HTTP until ctx is cancelled or the listener fails.
func (s *Server) Start(rootCtx context.Context) error {
	l := s.logger
	err := s.cron.AddJob(jobReapCursors, s.config.ReapInterval, s.reapCursors)
	if err != nil {
		return fmt.Errorf("schedule cursor reaper: %w", err)
	}

	eg, ctx := errgroup.WithContext(rootCtx)
	eg.Go(func() error {
		l.Info("Running HTTP server", slog.String("addr", s.config.ListenAddr))
		if err := s.e.Start(s.config.ListenAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			l.Error("Fail to run HTTP server", slogErrAttr(err))
			return err
		}
		return nil
	})
	eg.Go(func() error {
		<-ctx.Done()
		l.Info("Shutting down HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.e.Shutdown(shutdownCtx)
	})
	err = eg.Wait()
	if closeErr := s.Close(); closeErr != nil {
		l.Warn("Fail to close server", slogErrAttr(closeErr))
	}
	return err
}

// Handler returns the HTTP handler serving the API.
func (s *Server) Handler() http.Handler {
	return s.e
}

// Close stops background jobs, releases every parked cursor and closes the
// database. It does not stop a running HTTP listener.
func (s *Server) Close() error {
	s.cron.Stop()
	n := s.cursors.closeAll()
	s.logger.Debug("Closed open cursors", slog.Int("count", n))
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (s *Server) reapCursors() {
	n := s.cursors.reap()
	if n > 0 {
		s.logger.Info("Reaped idle cursors", slog.Int("count", n))
	}
}
