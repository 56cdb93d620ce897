package publickey

import (
	"fmt"
	"math/big"
	"slices"

	"github.com/METADIUM/MetaResolvers/common"
	"github.com/METADIUM/MetaResolvers/delegation"
	"github.com/METADIUM/MetaResolvers/signature"
	"github.com/nspcc-dev/neo-go/pkg/util"
)

const (
	// Name is the resolver name used for address derivation and configs.
	Name = "PublicKeyResolver"

	publicKeyPrefix = 'k'

	addedEvent   = "PublicKeyAdded"
	removedEvent = "PublicKeyRemoved"
)

// Contract is an instance of the public key resolver.
type Contract struct {
	common.Resolver

	exec     *common.Executor
	registry common.IdentityRegistry
}

// New deploys the resolver over prm.Store or opens its existing state.
func New(prm common.ContractPrm) (*Contract, error) {
	exec, err := common.Deploy(prm)
	if err != nil {
		return nil, fmt.Errorf("deploy public key resolver: %w", err)
	}

	return &Contract{
		Resolver: common.NewResolver(exec),
		exec:     exec,
		registry: prm.Registry,
	}, nil
}

// AddPublicKey stores the public key of the caller. The identity of the
// caller must have the resolver set, the key must derive the caller address
// and no key may be stored for the caller yet.
func (c *Contract) AddPublicKey(caller util.Uint160, publicKey []byte) error {
	return c.exec.Invoke(caller, "addPublicKey", func(ctx *common.Context) error {
		return c.addPublicKey(ctx, ctx.Caller(), publicKey, false)
	})
}

// AddPublicKeyDelegated is AddPublicKey made by a provider for the
// mandate's associated address.
func (c *Contract) AddPublicKeyDelegated(provider util.Uint160, m delegation.Mandate, publicKey []byte) error {
	return c.exec.Invoke(provider, "addPublicKeyDelegated", func(ctx *common.Context) error {
		msg := delegation.NewMessage(ctx.ExecutingScriptHash(), delegation.ActionAddPublicKey).
			AppendBytes(publicKey)

		err := delegation.Authorize(ctx, c.registry, m, msg)
		if err != nil {
			return err
		}

		return c.addPublicKey(ctx, m.Associated, publicKey, true)
	})
}

// RemovePublicKey clears the public key of the caller. It succeeds even if
// no key is stored.
func (c *Contract) RemovePublicKey(caller util.Uint160) error {
	return c.exec.Invoke(caller, "removePublicKey", func(ctx *common.Context) error {
		return c.removePublicKey(ctx, ctx.Caller(), false)
	})
}

// RemovePublicKeyDelegated is RemovePublicKey made by a provider for the
// mandate's associated address.
func (c *Contract) RemovePublicKeyDelegated(provider util.Uint160, m delegation.Mandate) error {
	return c.exec.Invoke(provider, "removePublicKeyDelegated", func(ctx *common.Context) error {
		msg := delegation.NewMessage(ctx.ExecutingScriptHash(), delegation.ActionRemovePublicKey)

		err := delegation.Authorize(ctx, c.registry, m, msg)
		if err != nil {
			return err
		}

		return c.removePublicKey(ctx, m.Associated, true)
	})
}

// GetPublicKey returns the public key stored for the account or nil.
func (c *Contract) GetPublicKey(account util.Uint160) []byte {
	var res []byte
	_ = c.exec.Read(func(ctx *common.Context) error {
		res = slices.Clone(ctx.Get(publicKeyKey(account)))
		return nil
	})
	return res
}

// CalculateAddress returns the account address the public key derives.
func (c *Contract) CalculateAddress(publicKey []byte) util.Uint160 {
	return signature.PublicKeyToAddress(publicKey)
}

func (c *Contract) addPublicKey(ctx *common.Context, account util.Uint160, publicKey []byte, delegated bool) error {
	ein := c.registry.GetEIN(account)

	err := common.Check(common.ResolverFor(c.registry, ein, ctx.ExecutingScriptHash()))
	if err != nil {
		return err
	}

	key := publicKeyKey(account)
	if len(ctx.Get(key)) != 0 {
		return fmt.Errorf("%w: public key has already been set for this address", common.ErrConflict)
	}

	if len(publicKey) == 0 || !signature.PublicKeyToAddress(publicKey).Equals(account) {
		return fmt.Errorf("%w: public key does not derive the address %s", common.ErrValidation, account.StringBE())
	}

	ctx.Put(key, slices.Clone(publicKey))
	ctx.Notify(addedEvent, account.BytesBE(), new(big.Int).SetUint64(ein), slices.Clone(publicKey), delegated)
	return nil
}

func (c *Contract) removePublicKey(ctx *common.Context, account util.Uint160, delegated bool) error {
	ein := c.registry.GetEIN(account)

	err := common.Check(common.ResolverFor(c.registry, ein, ctx.ExecutingScriptHash()))
	if err != nil {
		return err
	}

	ctx.Delete(publicKeyKey(account))
	ctx.Notify(removedEvent, account.BytesBE(), new(big.Int).SetUint64(ein), delegated)
	return nil
}

func publicKeyKey(account util.Uint160) []byte {
	return append([]byte{publicKeyPrefix}, account.BytesBE()...)
}
