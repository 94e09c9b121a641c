package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/aretw0/canvas"
	"github.com/aretw0/canvas/internal/config"
	"github.com/aretw0/canvas/pkg/adapters/file"
	"github.com/aretw0/canvas/pkg/adapters/gemini"
	"github.com/aretw0/canvas/pkg/adapters/memory"
	"github.com/aretw0/canvas/pkg/adapters/openai"
	"github.com/aretw0/canvas/pkg/adapters/redis"
	"github.com/aretw0/canvas/pkg/adapters/retry"
	"github.com/aretw0/canvas/pkg/adapters/scripted"
	"github.com/aretw0/canvas/pkg/observability"
	"github.com/aretw0/canvas/pkg/persistence/middleware"
	"github.com/aretw0/canvas/pkg/ports"
	"github.com/aretw0/canvas/pkg/session"
)

// Stack is everything a host needs, built from one Config.
type Stack struct {
	Config   config.Config
	Logger   *slog.Logger
	Engine   *canvas.Engine
	Sessions *session.Manager
	Metrics  *observability.Metrics

	closers []func() error
}

// BuildOption adjusts how Build wires the stack.
type BuildOption func(*buildOptions)

type buildOptions struct {
	model ports.ModelInvoker
}

// WithModel bypasses the configured provider.
func WithModel(m ports.ModelInvoker) BuildOption {
	return func(o *buildOptions) {
		o.model = m
	}
}

// Build wires model, store, locker, metrics and engine from cfg.
func Build(ctx context.Context, cfg config.Config, logger *slog.Logger, opts ...BuildOption) (*Stack, error) {
	var bo buildOptions
	for _, opt := range opts {
		opt(&bo)
	}

	st := &Stack{Config: cfg, Logger: logger}

	model := bo.model
	if model == nil {
		var err error
		model, err = NewModel(ctx, cfg.Model, logger)
		if err != nil {
			return nil, err
		}
	}

	store, locker, closer, err := NewStore(ctx, cfg.Store)
	if err != nil {
		return nil, err
	}
	if closer != nil {
		st.closers = append(st.closers, closer)
	}
	store, err = protect(store, cfg.Store)
	if err != nil {
		_ = st.Close()
		return nil, err
	}

	sessionOpts := []session.Option{session.WithLogger(logger)}
	if locker != nil {
		sessionOpts = append(sessionOpts, session.WithLocker(locker))
	}
	st.Sessions = session.NewManager(store, sessionOpts...)

	st.Metrics = observability.NewMetrics(prometheus.NewRegistry())

	engine, err := canvas.New(model, engineOptions(cfg, logger, st.Metrics)...)
	if err != nil {
		_ = st.Close()
		return nil, err
	}
	st.Engine = engine

	logger.Debug("stack ready",
		"model", model.Name(), "store", cfg.Store.Kind, "distributed_lock", locker != nil)
	return st, nil
}

// Close releases store connections.
func (s *Stack) Close() error {
	var errs []error
	for _, c := range s.closers {
		errs = append(errs, c())
	}
	s.closers = nil
	return errors.Join(errs...)
}

func engineOptions(cfg config.Config, logger *slog.Logger, metrics *observability.Metrics) []canvas.Option {
	opts := []canvas.Option{
		canvas.WithLogger(logger),
		canvas.WithLifecycleHooks(metrics.Hooks()),
		canvas.WithLifecycleHooks(observability.LogHooks(logger)),
		canvas.WithInvokeOptions(ports.InvokeOptions{
			Temperature: cfg.Model.Temperature,
			MaxTokens:   cfg.Model.MaxTokens,
		}),
	}
	if cfg.Engine.ThemeApproval {
		opts = append(opts, canvas.WithThemeApproval())
	}
	if cfg.Engine.StrictRouting {
		opts = append(opts, canvas.WithStrictRouting())
	}
	if cfg.Engine.RejectPendingOverwrite {
		opts = append(opts, canvas.WithRejectPendingOverwrite())
	}
	return opts
}

// NewModel builds the configured provider, wrapped with backoff when Retries > 1.
func NewModel(ctx context.Context, cfg config.ModelConfig, logger *slog.Logger) (ports.ModelInvoker, error) {
	var (
		model ports.ModelInvoker
		err   error
	)
	switch cfg.Provider {
	case "scripted":
		model = scripted.NewEcho(cfg.Name)
	case "openai":
		model, err = openai.New(openai.Config{
			APIKey:  cfg.APIKey,
			BaseURL: cfg.BaseURL,
			Model:   cfg.Name,
		})
	case "gemini":
		model, err = gemini.New(ctx, gemini.Config{
			APIKey:  cfg.APIKey,
			BaseURL: cfg.BaseURL,
			Model:   cfg.Name,
		})
	default:
		return nil, fmt.Errorf("unknown model provider %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create %s model: %w", cfg.Provider, err)
	}

	if cfg.Retries > 1 {
		model = retry.Wrap(model, cfg.Retries, retry.WithLogger(logger))
	}
	return model, nil
}

// protect seals sessions at rest and redacts persisted messages when configured.
// Redaction runs first so the masked conversation is what gets encrypted.
func protect(store ports.StateStore, cfg config.StoreConfig) (ports.StateStore, error) {
	var mws []middleware.Middleware
	if len(cfg.Redact) > 0 {
		mw, err := middleware.NewRedactMiddleware(cfg.Redact)
		if err != nil {
			return nil, err
		}
		mws = append(mws, mw)
	}
	if cfg.EncryptionKey != "" {
		active, fallback, err := cfg.Keys()
		if err != nil {
			return nil, err
		}
		mw, err := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: active, FallbackKeys: fallback})
		if err != nil {
			return nil, err
		}
		mws = append(mws, mw)
	}
	return middleware.Chain(store, mws...), nil
}

// NewStore builds the configured state store. Redis also yields a distributed
// locker sharing the client, and a closer for it.
func NewStore(ctx context.Context, cfg config.StoreConfig) (ports.StateStore, ports.DistributedLocker, func() error, error) {
	switch cfg.Kind {
	case "memory":
		return memory.NewStore(memory.WithCapacity(cfg.Capacity)), nil, nil, nil
	case "file":
		return file.New(cfg.Path), nil, nil, nil
	case "redis":
		store := redis.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB,
			redis.WithPrefix(cfg.Prefix),
			redis.WithTTL(cfg.SessionTTL),
		)
		if err := store.Ping(ctx); err != nil {
			_ = store.Close()
			return nil, nil, nil, fmt.Errorf("failed to reach redis at %s: %w", cfg.RedisAddr, err)
		}
		return store, redis.NewLocker(store.Client(), store.Prefix()), store.Close, nil
	default:
		return nil, nil, nil, fmt.Errorf("unknown store kind %q", cfg.Kind)
	}
}
