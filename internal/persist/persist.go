// Package persist keeps a typed value in memory and mirrors every change to a
// key-value backend as JSON.
package persist

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
)

// Backend is the key-value storage a Value is mirrored to.
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Put(ctx context.Context, key string, value []byte) error
}

type Config[T any] struct {
	Logger *slog.Logger
	// Valid rejects decoded values that should be treated as undecodable.
	Valid func(T) bool
	// Clone copies values handed to callers and subscribers. Nil means values
	// are returned as-is.
	Clone func(T) T
}

type Value[T any] struct {
	mu      sync.Mutex
	backend Backend
	key     string
	def     T
	cur     T
	cfg     Config[T]
	logger  *slog.Logger

	subs    map[int]func(T)
	nextSub int
}

// Load reads key from backend. It never fails: a missing, unreadable, or
// undecodable value yields def.
func Load[T any](ctx context.Context, backend Backend, key string, def T, cfg Config[T]) *Value[T] {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	v := &Value[T]{
		backend: backend,
		key:     key,
		def:     def,
		cfg:     cfg,
		logger:  logger.With("component", "persist", "key", key),
		subs:    map[int]func(T){},
	}
	v.cur = v.read(ctx)
	return v
}

func (v *Value[T]) read(ctx context.Context) T {
	raw, ok, err := v.backend.Get(ctx, v.key)
	if err != nil {
		v.logger.Warn("read failed; using default", "error", err)
		return v.clone(v.def)
	}
	if !ok {
		return v.clone(v.def)
	}
	var out T
	if err := json.Unmarshal(raw, &out); err != nil {
		v.logger.Warn("decode failed; using default", "error", err)
		return v.clone(v.def)
	}
	if v.cfg.Valid != nil && !v.cfg.Valid(out) {
		v.logger.Warn("stored value rejected; using default")
		return v.clone(v.def)
	}
	return out
}

func (v *Value[T]) clone(x T) T {
	if v.cfg.Clone == nil {
		return x
	}
	return v.cfg.Clone(x)
}

func (v *Value[T]) Key() string { return v.key }

func (v *Value[T]) Get() T {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.clone(v.cur)
}

// Set replaces the value.
func (v *Value[T]) Set(next T) {
	v.Update(func(T) T { return next })
}

// Update applies fn to the current value and stores the result. The in-memory
// value changes and subscribers are notified even if the backend write fails.
func (v *Value[T]) Update(fn func(prev T) T) T {
	v.mu.Lock()
	next := fn(v.clone(v.cur))
	v.cur = next
	v.write(next)
	out, subs := v.snapshotLocked()
	v.mu.Unlock()

	v.notify(subs, out)
	return v.clone(out)
}

func (v *Value[T]) write(x T) {
	b, err := json.Marshal(x)
	if err != nil {
		v.logger.Warn("encode failed; value kept in memory only", "error", err)
		return
	}
	if err := v.backend.Put(context.Background(), v.key, b); err != nil {
		v.logger.Warn("write failed; value kept in memory only", "error", err)
	}
}

// Reload re-reads the backend, for when another process changed it.
func (v *Value[T]) Reload(ctx context.Context) T {
	next := v.read(ctx)

	v.mu.Lock()
	v.cur = next
	out, subs := v.snapshotLocked()
	v.mu.Unlock()

	v.notify(subs, out)
	return v.clone(out)
}

// Subscribe registers fn to run after every change. The returned func removes it.
func (v *Value[T]) Subscribe(fn func(T)) func() {
	v.mu.Lock()
	id := v.nextSub
	v.nextSub++
	v.subs[id] = fn
	v.mu.Unlock()

	return func() {
		v.mu.Lock()
		delete(v.subs, id)
		v.mu.Unlock()
	}
}

func (v *Value[T]) snapshotLocked() (T, []func(T)) {
	subs := make([]func(T), 0, len(v.subs))
	for i := 0; i < v.nextSub; i++ {
		if fn, ok := v.subs[i]; ok {
			subs = append(subs, fn)
		}
	}
	return v.cur, subs
}

func (v *Value[T]) notify(subs []func(T), x T) {
	for _, fn := range subs {
		fn(v.clone(x))
	}
}
