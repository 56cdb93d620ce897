package common

import (
	"fmt"

	"github.com/nspcc-dev/neo-go/pkg/util"
)

// Guard is a precondition of a resolver method.
type Guard func() error

// Check runs guards in order and returns the first failure.
func Check(guards ...Guard) error {
	for _, g := range guards {
		if err := g(); err != nil {
			return err
		}
	}
	return nil
}

// ResolverFor requires the identity to have the resolver set.
func ResolverFor(reg IdentityRegistry, ein uint64, resolver util.Uint160) Guard {
	return func() error {
		if ein == NoIdentity || !reg.IsResolverFor(ein, resolver) {
			return fmt.Errorf("%w: the calling identity does not have this resolver set", ErrAuthorization)
		}
		return nil
	}
}

// ProviderFor requires the account to be a provider of the identity.
func ProviderFor(reg IdentityRegistry, ein uint64, provider util.Uint160) Guard {
	return func() error {
		if ein == NoIdentity || !reg.IsProviderFor(ein, provider) {
			return fmt.Errorf("%w: the caller is not a provider for the passed EIN", ErrAuthorization)
		}
		return nil
	}
}

// IdentityExists requires the identity to be created in the registry.
func IdentityExists(reg IdentityRegistry, ein uint64) Guard {
	return func() error {
		if ein == NoIdentity || !reg.IdentityExists(ein) {
			return fmt.Errorf("%w: identity %d does not exist", ErrNotFound, ein)
		}
		return nil
	}
}

// OwnerWitness requires the invocation to be made by the resolver owner.
func OwnerWitness(ctx *Context) Guard {
	return func() error {
		if !ctx.Caller().Equals(Owner(ctx)) {
			return fmt.Errorf("%w: owner witness check failed", ErrAuthorization)
		}
		return nil
	}
}
