package common

import (
	"time"

	"github.com/nspcc-dev/neo-go/pkg/util"
)

// Resolver implements methods shared by all resolvers. It is embedded into
// resolver contracts.
type Resolver struct {
	exec *Executor
}

// NewResolver returns Resolver working through exec.
func NewResolver(exec *Executor) Resolver {
	return Resolver{exec: exec}
}

// Hash returns the resolver address.
func (r Resolver) Hash() util.Uint160 {
	return r.exec.Hash()
}

// OnNotification subscribes h to receipts of committed invocations.
func (r Resolver) OnNotification(h func(Receipt)) {
	r.exec.OnNotification(h)
}

// SignatureTimeout returns the validity period of delegated mandates.
func (r Resolver) SignatureTimeout() time.Duration {
	var res uint64
	_ = r.exec.Read(func(ctx *Context) error {
		res = SignatureTimeout(ctx)
		return nil
	})
	return time.Duration(res) * time.Second
}

// SetSignatureTimeout changes the validity period of delegated mandates.
// Only the resolver owner may call it.
func (r Resolver) SetSignatureTimeout(caller util.Uint160, d time.Duration) error {
	return r.exec.Invoke(caller, "setSignatureTimeout", func(ctx *Context) error {
		err := Check(OwnerWitness(ctx))
		if err != nil {
			return err
		}
		return SetSignatureTimeout(ctx, d)
	})
}

// Owner returns the account allowed to reconfigure the resolver.
func (r Resolver) Owner() util.Uint160 {
	var res util.Uint160
	_ = r.exec.Read(func(ctx *Context) error {
		res = Owner(ctx)
		return nil
	})
	return res
}

// Version returns the version of the resolver.
func (r Resolver) Version() int {
	return Version
}
