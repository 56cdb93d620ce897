package common

import (
	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/core/storage"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
)

// Context is the state of a single resolver invocation: who called, when,
// the resolver storage seen through a private cache and notifications
// emitted so far. Nothing written through the Context is visible outside of
// the invocation until it is committed by the Executor.
type Context struct {
	hash   util.Uint160
	caller util.Uint160
	time   uint64
	prefix []byte
	store  *storage.MemCachedStore
	events []state.NotificationEvent
}

// Caller returns the account the invocation is made by.
func (c *Context) Caller() util.Uint160 {
	return c.caller
}

// ExecutingScriptHash returns the address of the invoked resolver.
func (c *Context) ExecutingScriptHash() util.Uint160 {
	return c.hash
}

// Time returns the invocation time in unix seconds.
func (c *Context) Time() uint64 {
	return c.time
}

// Get returns the value stored by key or nil.
func (c *Context) Get(key []byte) []byte {
	v, err := c.store.Get(c.storageKey(key))
	if err != nil {
		return nil
	}
	return v
}

// Put stores value by key.
func (c *Context) Put(key, value []byte) {
	c.store.Put(c.storageKey(key), value)
}

// Delete removes the value stored by key.
func (c *Context) Delete(key []byte) {
	c.store.Delete(c.storageKey(key))
}

// Notify emits a notification with the given name. Arguments are converted
// to stack items with stackitem.Make.
func (c *Context) Notify(name string, args ...any) {
	items := make([]stackitem.Item, len(args))
	for i := range args {
		items[i] = stackitem.Make(args[i])
	}

	c.events = append(c.events, state.NotificationEvent{
		ScriptHash: c.hash,
		Name:       name,
		Item:       stackitem.NewArray(items),
	})
}

// storageKey makes keys of different resolvers sharing one store distinct.
func (c *Context) storageKey(key []byte) []byte {
	k := make([]byte, 0, len(c.prefix)+len(key))
	k = append(k, c.prefix...)
	return append(k, key...)
}
