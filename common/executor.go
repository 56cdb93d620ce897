package common

import (
	"fmt"
	"sync"

	"github.com/benbjohnson/clock"
	"github.com/google/uuid"
	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/core/storage"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"go.uber.org/zap"
)

// Receipt describes a committed invocation.
type Receipt struct {
	// ID is a unique identifier of the invocation.
	ID uuid.UUID
	// Contract is the address of the invoked resolver.
	Contract util.Uint160
	// Method is the name of the invoked method.
	Method string
	// Caller is the account the invocation was made by.
	Caller util.Uint160
	// Time is the invocation time in unix seconds.
	Time uint64
	// Notifications emitted by the invocation in emission order.
	Notifications []state.NotificationEvent
}

// Executor runs invocations of a single resolver one at a time. Every
// invocation works on its own cache over the backing store: changes are
// flushed to the store only if the invocation returns no error, otherwise
// they are dropped along with emitted notifications. A failed flush drops
// them too, nothing is kept in memory between invocations.
type Executor struct {
	hash  util.Uint160
	clock clock.Clock
	log   *zap.Logger

	mtx      sync.Mutex
	store    storage.Store
	handlers []func(Receipt)
}

// NewExecutor constructs Executor of the resolver with the given address
// working on top of the store. Keys written by the resolver are prefixed
// with its address, so one store may be shared by several resolvers.
func NewExecutor(hash util.Uint160, store storage.Store, clk clock.Clock, log *zap.Logger) *Executor {
	if store == nil {
		store = storage.NewMemoryStore()
	}
	if clk == nil {
		clk = clock.New()
	}
	if log == nil {
		log = zap.NewNop()
	}

	return &Executor{
		hash:  hash,
		clock: clk,
		log:   log,
		store: store,
	}
}

// Hash returns the address of the resolver.
func (e *Executor) Hash() util.Uint160 {
	return e.hash
}

// OnNotification registers a handler receiving receipts of committed
// invocations. Handlers are called synchronously after the commit and
// outside of the invocation lock, so they may call the resolver.
func (e *Executor) OnNotification(h func(Receipt)) {
	e.mtx.Lock()
	e.handlers = append(e.handlers, h)
	e.mtx.Unlock()
}

// Invoke runs a state-changing method on behalf of the caller. f must
// perform all checks before the first write it makes; anyway, nothing is
// applied if f fails or panics.
func (e *Executor) Invoke(caller util.Uint160, method string, f func(*Context) error) error {
	id := uuid.New()
	log := e.log.With(
		zap.Stringer("invocation", id),
		zap.String("method", method),
		zap.String("caller", caller.StringBE()),
	)

	ctx, handlers, err := e.invoke(caller, f)
	if err != nil {
		log.Debug("invocation failed", zap.Error(err))
		return err
	}

	log.Debug("invocation committed", zap.Int("notifications", len(ctx.events)))

	if len(handlers) == 0 {
		return nil
	}

	r := Receipt{
		ID:            id,
		Contract:      e.hash,
		Method:        method,
		Caller:        caller,
		Time:          ctx.time,
		Notifications: ctx.events,
	}
	for _, h := range handlers {
		h(r)
	}
	return nil
}

// invoke runs f and commits its changes under the lock. It returns a copy of
// the handlers to call once the lock is released.
func (e *Executor) invoke(caller util.Uint160, f func(*Context) error) (*Context, []func(Receipt), error) {
	e.mtx.Lock()
	defer e.mtx.Unlock()

	ctx := e.newContext(caller)
	if err := f(ctx); err != nil {
		return nil, nil, err
	}
	if err := e.commit(ctx); err != nil {
		return nil, nil, err
	}

	handlers := make([]func(Receipt), len(e.handlers))
	copy(handlers, e.handlers)
	return ctx, handlers, nil
}

// Read runs a read-only method. Writes made by f are discarded.
func (e *Executor) Read(f func(*Context) error) error {
	e.mtx.Lock()
	defer e.mtx.Unlock()

	return f(e.newContext(util.Uint160{}))
}

func (e *Executor) newContext(caller util.Uint160) *Context {
	return &Context{
		hash:   e.hash,
		caller: caller,
		time:   uint64(e.clock.Now().Unix()),
		prefix: e.hash.BytesBE(),
		store:  storage.NewMemCachedStore(e.store),
	}
}

func (e *Executor) commit(ctx *Context) error {
	if _, err := ctx.store.Persist(); err != nil {
		return fmt.Errorf("persist invocation changes: %w", err)
	}
	return nil
}
