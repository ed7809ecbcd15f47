// Package persist synchronises the in-memory record store with a slot store:
// one slot per collection, each holding the JSON array of its records.
package persist

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"trackcore/internal/infra/persistence/memory"
	"trackcore/internal/kv"
	"trackcore/internal/platform/logger"
	"trackcore/pkg/domain"
)

// DefaultPrefix namespaces slot keys when no prefix is configured.
const DefaultPrefix = "tracker"

const writeTimeout = 10 * time.Second

var errNotArray = errors.New("slot does not hold a JSON array")

// Recorder receives slot-level outcomes.
type Recorder interface {
	SlotCorrupt(collection string)
	SlotWrite(collection string, err error)
}

type nopRecorder struct{}

func (nopRecorder) SlotCorrupt(string) {}
func (nopRecorder) SlotWrite(string, error) {}

// Adapter loads the store at startup and rewrites the slot of every
// collection touched by a mutation. Writes are best effort: failures are
// logged and counted, the store is never rolled back.
type Adapter struct {
	slots  kv.Store
	store  *memory.Store
	prefix string
	log    *logger.Logger
	rec    Recorder

	mu sync.Mutex
}

// Option configures an Adapter.
type Option func(*Adapter)

// WithPrefix sets the slot key namespace.
func WithPrefix(prefix string) Option {
	return func(a *Adapter) {
		if prefix != "" {
			a.prefix = prefix
		}
	}
}

// WithLogger sets the logger used for corrupt slots and write failures.
func WithLogger(log *logger.Logger) Option {
	return func(a *Adapter) { a.log = logger.OrNop(log) }
}

// WithRecorder sets the metrics sink.
func WithRecorder(rec Recorder) Option {
	return func(a *Adapter) {
		if rec != nil {
			a.rec = rec
		}
	}
}

// New constructs an adapter. It does not subscribe to the store; call Attach.
func New(slots kv.Store, store *memory.Store, opts ...Option) *Adapter {
	a := &Adapter{
		slots:  slots,
		store:  store,
		prefix: DefaultPrefix,
		log:    logger.NewNop(),
		rec:    nopRecorder{},
	}
	for _, opt := range opts {
		opt(a)
	}
	a.log = a.log.With("component", "persist", "driver", string(slots.Driver()))
	return a
}

// Key returns the slot name for a collection.
func (a *Adapter) Key(c domain.Collection) string {
	return a.prefix + ":" + string(c)
}

// Attach subscribes the adapter to store mutations and returns the
// unsubscribe function.
func (a *Adapter) Attach() func() {
	return a.store.Subscribe(a)
}

// HydrateReport lists what Hydrate did per collection.
type HydrateReport struct {
	Loaded  []domain.Collection
	Seeded  []domain.Collection
	Corrupt []domain.Collection
}

// Hydrate replaces the store contents with the persisted slots. Absent or
// malformed slots fall back to the matching seed collection, which is
// written back immediately. Only backend read errors are returned.
func (a *Adapter) Hydrate(ctx context.Context, seed memory.Snapshot) (HydrateReport, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	seed = seed.Normalize()
	snap := memory.Snapshot{}.Normalize()
	var report HydrateReport
	for _, c := range domain.Collections {
		key := a.Key(c)
		raw, err := a.slots.Get(ctx, key)
		switch {
		case err == nil:
			stored, decodeErr := decodeCollection(c, raw)
			if decodeErr == nil {
				snap.Take(c, stored)
				report.Loaded = append(report.Loaded, c)
				continue
			}
			a.log.Warn("slot malformed, falling back to seed", "key", key, "error", decodeErr)
			a.rec.SlotCorrupt(string(c))
			report.Corrupt = append(report.Corrupt, c)
		case errors.Is(err, kv.ErrNotFound):
		default:
			return report, fmt.Errorf("read slot %s: %w", key, err)
		}

		payload, err := json.Marshal(seed.Collection(c))
		if err != nil {
			return report, fmt.Errorf("encode seed %s: %w", c, err)
		}
		seeded, err := decodeCollection(c, payload)
		if err != nil {
			return report, fmt.Errorf("decode seed %s: %w", c, err)
		}
		snap.Take(c, seeded)
		_ = a.write(ctx, c, payload)
		report.Seeded = append(report.Seeded, c)
	}
	a.store.ImportState(snap)
	if dups := a.store.DuplicateIDs(); len(dups) > 0 {
		a.log.Warn("duplicate ids in hydrated state; later records shadow earlier ones", "duplicates", dups)
	}
	a.log.Debug("hydrated", "loaded", len(report.Loaded), "seeded", len(report.Seeded), "corrupt", len(report.Corrupt))
	return report, nil
}

// decodeCollection decodes one slot into a fresh snapshot. Anything other
// than a JSON array of records is malformed, including null.
func decodeCollection(c domain.Collection, raw []byte) (memory.Snapshot, error) {
	var part memory.Snapshot
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return part, errNotArray
	}
	if err := json.Unmarshal(trimmed, part.Target(c)); err != nil {
		return memory.Snapshot{}, err
	}
	return part, nil
}

// OnChange implements domain.ChangeObserver by rewriting each touched slot.
func (a *Adapter) OnChange(changes []domain.Change) {
	touched := domain.TouchedCollections(changes)
	if len(touched) == 0 {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()
	_ = a.save(ctx, touched)
}

// SaveAll writes every collection slot.
func (a *Adapter) SaveAll(ctx context.Context) error {
	return a.save(ctx, domain.Collections)
}

func (a *Adapter) save(ctx context.Context, collections []domain.Collection) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	snap := a.store.ExportState()
	var errs []error
	for _, c := range collections {
		payload, err := json.Marshal(snap.Collection(c))
		if err != nil {
			errs = append(errs, fmt.Errorf("encode %s: %w", c, err))
			continue
		}
		if err := a.write(ctx, c, payload); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (a *Adapter) write(ctx context.Context, c domain.Collection, payload []byte) error {
	key := a.Key(c)
	err := a.slots.Set(ctx, key, payload)
	a.rec.SlotWrite(string(c), err)
	if err != nil {
		a.log.Error("slot write failed", "key", key, "error", err)
		return fmt.Errorf("write slot %s: %w", key, err)
	}
	return nil
}

// Clear deletes every slot under the adapter prefix and returns how many
// were removed. The in-memory store is left untouched.
func (a *Adapter) Clear(ctx context.Context) (int, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	keys, err := a.slots.Keys(ctx, a.prefix+":")
	if err != nil {
		return 0, fmt.Errorf("list slots: %w", err)
	}
	removed := 0
	for _, key := range keys {
		ok, err := a.slots.Delete(ctx, key)
		if err != nil {
			return removed, fmt.Errorf("delete slot %s: %w", key, err)
		}
		if ok {
			removed++
		}
	}
	return removed, nil
}
