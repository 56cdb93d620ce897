package common

import "github.com/nspcc-dev/neo-go/pkg/util"

// NoIdentity is the reserved EIN meaning that an address has no identity.
const NoIdentity uint64 = 0

// IdentityRegistry is the read-only view of the identity registry resolvers
// work against. The registry owns identities, their associated addresses,
// providers and resolvers; resolvers never modify it.
type IdentityRegistry interface {
	// IdentityExists checks whether the identity with the given EIN has been
	// created.
	IdentityExists(ein uint64) bool

	// GetEIN returns the EIN of the identity the address is associated with,
	// or NoIdentity.
	GetEIN(account util.Uint160) uint64

	// IsProviderFor checks whether the account may act on behalf of the
	// identity.
	IsProviderFor(ein uint64, provider util.Uint160) bool

	// IsResolverFor checks whether the identity has set the resolver.
	IsResolverFor(ein uint64, resolver util.Uint160) bool
}
