// Package core exposes the tracker service: validated record CRUD over the
// in-memory store, persisted through the slot adapter, with derived reports
// and bundle import/export.
package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"trackcore/internal/config"
	"trackcore/internal/infra/persistence/memory"
	"trackcore/internal/kv"
	"trackcore/internal/persist"
	"trackcore/internal/platform/logger"
	"trackcore/internal/seed"
	"trackcore/internal/validation"
	"trackcore/pkg/domain"
)

// ErrNotFound is returned when an operation names a record that does not
// exist.
type ErrNotFound struct {
	Collection domain.Collection
	ID         string
}

func (e ErrNotFound) Error() string {
	return fmt.Sprintf("%s %s not found", e.Collection, e.ID)
}

// IsNotFound reports whether err carries an ErrNotFound.
func IsNotFound(err error) bool {
	var nf ErrNotFound
	return errors.As(err, &nf)
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the service logger.
func WithLogger(log *logger.Logger) Option {
	return func(s *Service) { s.log = logger.OrNop(log) }
}

// WithMetricsRecorder sets the operation recorder. When it also implements
// persist.Recorder, Open wires it into the persistence adapter.
func WithMetricsRecorder(m MetricsRecorder) Option {
	return func(s *Service) {
		if m != nil {
			s.metrics = m
		}
	}
}

// WithTracer sets the span tracer.
func WithTracer(t Tracer) Option {
	return func(s *Service) {
		if t != nil {
			s.tracer = t
		}
	}
}

// WithValidator replaces the shared record validator.
func WithValidator(v *validation.Validator) Option {
	return func(s *Service) {
		if v != nil {
			s.validator = v
		}
	}
}

// Service is the single consumer of the record store.
type Service struct {
	store     *memory.Store
	adapter   *persist.Adapter
	slots     kv.Store
	detach    func()
	log       *logger.Logger
	metrics   MetricsRecorder
	tracer    Tracer
	validator *validation.Validator
	sorters   sorters
}

// NewService wraps store without persistence.
func NewService(store *memory.Store, opts ...Option) *Service {
	s := &Service{
		store:     store,
		log:       logger.NewNop(),
		metrics:   noopMetricsRecorder{},
		tracer:    noopTracer{},
		validator: validation.Default(),
		sorters:   newSorters(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewInMemoryService creates a service over a fresh empty store.
func NewInMemoryService(opts ...Option) *Service {
	return NewService(memory.NewStore(), opts...)
}

// Open builds the configured slot store, hydrates a record store from it
// (seeding absent or malformed slots when enabled) and subscribes the
// persistence adapter to every later mutation.
func Open(ctx context.Context, cfg config.Config, opts ...Option) (*Service, error) {
	slots, err := kv.Open(ctx, cfg.KVOptions())
	if err != nil {
		return nil, fmt.Errorf("open slot store: %w", err)
	}
	svc := NewService(memory.NewStore(), opts...)

	adapterOpts := []persist.Option{persist.WithPrefix(cfg.AppPrefix), persist.WithLogger(svc.log)}
	if rec, ok := svc.metrics.(persist.Recorder); ok {
		adapterOpts = append(adapterOpts, persist.WithRecorder(rec))
	}
	svc.slots = slots
	svc.adapter = persist.New(slots, svc.store, adapterOpts...)

	var sample memory.Snapshot
	if cfg.SeedEnabled {
		sample = seed.Snapshot()
	}
	report, err := svc.adapter.Hydrate(ctx, sample)
	if err != nil {
		_ = slots.Close()
		return nil, fmt.Errorf("hydrate: %w", err)
	}
	svc.detach = svc.adapter.Attach()
	svc.log.Info("service ready",
		"driver", string(slots.Driver()),
		"prefix", cfg.AppPrefix,
		"loaded", len(report.Loaded),
		"seeded", len(report.Seeded),
		"corrupt", len(report.Corrupt),
	)
	return svc, nil
}

// Close detaches persistence and releases the slot store.
func (s *Service) Close() error {
	if s.detach != nil {
		s.detach()
		s.detach = nil
	}
	if s.slots != nil {
		err := s.slots.Close()
		s.slots = nil
		return err
	}
	return nil
}

// Store returns the underlying record store.
func (s *Service) Store() *memory.Store { return s.store }

// Snapshot returns a copy of every collection.
func (s *Service) Snapshot() memory.Snapshot { return s.store.ExportState() }

// SaveAll rewrites every slot. It is a no-op without persistence.
func (s *Service) SaveAll(ctx context.Context) error {
	if s.adapter == nil {
		return nil
	}
	return s.run(ctx, "save_all", func(ctx context.Context) error {
		return s.adapter.SaveAll(ctx)
	})
}

// Reset deletes every persisted slot and replaces the in-memory state with
// the sample dataset, or empty collections when seed is false.
func (s *Service) Reset(ctx context.Context, withSeed bool) (int, error) {
	var removed int
	err := s.run(ctx, "reset", func(ctx context.Context) error {
		if s.adapter != nil {
			n, err := s.adapter.Clear(ctx)
			removed = n
			if err != nil {
				return err
			}
		}
		next := memory.Snapshot{}
		if withSeed {
			next = seed.Snapshot()
		}
		s.store.ImportState(next)
		if s.adapter != nil {
			return s.adapter.SaveAll(ctx)
		}
		return nil
	})
	return removed, err
}

// run times fn and reports it to the tracer, metrics and log.
func (s *Service) run(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	start := time.Now()
	ctx, span := s.tracer.Start(ctx, op)
	err := fn(ctx)
	span.End(err)
	elapsed := time.Since(start)
	s.metrics.Observe(ctx, op, err == nil, elapsed)
	if err != nil {
		s.log.Warn("operation failed", "operation", op, "error", err)
		return err
	}
	s.log.Debug("operation completed", "operation", op, "duration", elapsed)
	return nil
}

func (s *Service) validate(c domain.Collection, v any) error {
	if err := s.validator.Struct(v); err != nil {
		return fmt.Errorf("invalid %s: %w", c, err)
	}
	return nil
}
