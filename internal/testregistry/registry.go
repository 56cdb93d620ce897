// Package testregistry provides an in-memory identity registry for tests and
// local setups.
package testregistry

import (
	"sync"

	"github.com/METADIUM/MetaResolvers/common"
	"github.com/nspcc-dev/neo-go/pkg/util"
)

type identity struct {
	associated map[util.Uint160]struct{}
	providers  map[util.Uint160]struct{}
	resolvers  map[util.Uint160]struct{}
}

// Registry is a mutable identity registry. It is safe for concurrent use.
type Registry struct {
	mtx        sync.RWMutex
	lastEIN    uint64
	identities map[uint64]*identity
	eins       map[util.Uint160]uint64
}

var _ common.IdentityRegistry = (*Registry)(nil)

// New returns an empty Registry.
func New() *Registry {
	return &Registry{
		identities: make(map[uint64]*identity),
		eins:       make(map[util.Uint160]uint64),
	}
}

func toSet(list []util.Uint160) map[util.Uint160]struct{} {
	m := make(map[util.Uint160]struct{}, len(list))
	for i := range list {
		m[list[i]] = struct{}{}
	}
	return m
}

// CreateIdentity creates an identity with a single associated address and
// returns its EIN. It panics if the address already has an identity.
func (r *Registry) CreateIdentity(associated util.Uint160, providers, resolvers []util.Uint160) uint64 {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	if _, ok := r.eins[associated]; ok {
		panic("address already has an identity")
	}

	r.lastEIN++
	r.identities[r.lastEIN] = &identity{
		associated: toSet([]util.Uint160{associated}),
		providers:  toSet(providers),
		resolvers:  toSet(resolvers),
	}
	r.eins[associated] = r.lastEIN
	return r.lastEIN
}

// AddAssociatedAddress associates one more address with the identity.
func (r *Registry) AddAssociatedAddress(ein uint64, addr util.Uint160) {
	r.update(ein, func(id *identity) {
		if _, ok := r.eins[addr]; ok {
			panic("address already has an identity")
		}
		id.associated[addr] = struct{}{}
		r.eins[addr] = ein
	})
}

// RemoveAssociatedAddress dissociates the address from the identity.
func (r *Registry) RemoveAssociatedAddress(ein uint64, addr util.Uint160) {
	r.update(ein, func(id *identity) {
		delete(id.associated, addr)
		delete(r.eins, addr)
	})
}

// AddProviders authorizes providers to act for the identity.
func (r *Registry) AddProviders(ein uint64, providers ...util.Uint160) {
	r.update(ein, func(id *identity) {
		for i := range providers {
			id.providers[providers[i]] = struct{}{}
		}
	})
}

// RemoveProviders revokes providers of the identity.
func (r *Registry) RemoveProviders(ein uint64, providers ...util.Uint160) {
	r.update(ein, func(id *identity) {
		for i := range providers {
			delete(id.providers, providers[i])
		}
	})
}

// AddResolvers sets resolvers for the identity.
func (r *Registry) AddResolvers(ein uint64, resolvers ...util.Uint160) {
	r.update(ein, func(id *identity) {
		for i := range resolvers {
			id.resolvers[resolvers[i]] = struct{}{}
		}
	})
}

// RemoveResolvers unsets resolvers of the identity.
func (r *Registry) RemoveResolvers(ein uint64, resolvers ...util.Uint160) {
	r.update(ein, func(id *identity) {
		for i := range resolvers {
			delete(id.resolvers, resolvers[i])
		}
	})
}

func (r *Registry) update(ein uint64, f func(*identity)) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	id, ok := r.identities[ein]
	if !ok {
		panic("identity does not exist")
	}
	f(id)
}

// IdentityExists implements common.IdentityRegistry.
func (r *Registry) IdentityExists(ein uint64) bool {
	r.mtx.RLock()
	defer r.mtx.RUnlock()

	_, ok := r.identities[ein]
	return ok
}

// GetEIN implements common.IdentityRegistry.
func (r *Registry) GetEIN(account util.Uint160) uint64 {
	r.mtx.RLock()
	defer r.mtx.RUnlock()

	return r.eins[account]
}

// IsProviderFor implements common.IdentityRegistry.
func (r *Registry) IsProviderFor(ein uint64, provider util.Uint160) bool {
	return r.has(ein, provider, func(id *identity) map[util.Uint160]struct{} { return id.providers })
}

// IsResolverFor implements common.IdentityRegistry.
func (r *Registry) IsResolverFor(ein uint64, resolver util.Uint160) bool {
	return r.has(ein, resolver, func(id *identity) map[util.Uint160]struct{} { return id.resolvers })
}

func (r *Registry) has(ein uint64, u util.Uint160, list func(*identity) map[util.Uint160]struct{}) bool {
	r.mtx.RLock()
	defer r.mtx.RUnlock()

	id, ok := r.identities[ein]
	if !ok {
		return false
	}
	_, ok = list(id)[u]
	return ok
}
