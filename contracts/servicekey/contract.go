package servicekey

import (
	"encoding/binary"
	"fmt"
	"math/big"

	"github.com/METADIUM/MetaResolvers/addrset"
	"github.com/METADIUM/MetaResolvers/common"
	"github.com/METADIUM/MetaResolvers/delegation"
	"github.com/nspcc-dev/neo-go/pkg/io"
	"github.com/nspcc-dev/neo-go/pkg/util"
)

type (
	// keyRecord is the claim of a service key by an identity.
	keyRecord struct {
		EIN    uint64
		Symbol string
	}
)

const (
	// Name is the resolver name used for address derivation and configs.
	Name = "ServiceKeyResolver"

	keyPrefix = 'k'
	setPrefix = 's'

	addedEvent   = "KeyAdded"
	removedEvent = "KeyRemoved"
)

// EncodeBinary implements io.Serializable.
func (r *keyRecord) EncodeBinary(w *io.BinWriter) {
	w.WriteU64LE(r.EIN)
	w.WriteString(r.Symbol)
}

// DecodeBinary implements io.Serializable.
func (r *keyRecord) DecodeBinary(rd *io.BinReader) {
	r.EIN = rd.ReadU64LE()
	r.Symbol = rd.ReadString()
}

// Contract is an instance of the service key resolver.
type Contract struct {
	common.Resolver

	exec     *common.Executor
	registry common.IdentityRegistry
}

// New deploys the resolver over prm.Store or opens its existing state.
func New(prm common.ContractPrm) (*Contract, error) {
	exec, err := common.Deploy(prm)
	if err != nil {
		return nil, fmt.Errorf("deploy service key resolver: %w", err)
	}

	return &Contract{
		Resolver: common.NewResolver(exec),
		exec:     exec,
		registry: prm.Registry,
	}, nil
}

// AddKey claims the service key for the identity of the caller and labels it
// with the symbol. A key may be claimed by a single identity at a time.
func (c *Contract) AddKey(caller util.Uint160, key util.Uint160, symbol string) error {
	return c.exec.Invoke(caller, "addKey", func(ctx *common.Context) error {
		return c.addKey(ctx, ctx.Caller(), key, symbol)
	})
}

// AddKeyDelegated is AddKey made by a provider for the mandate's associated
// address.
func (c *Contract) AddKeyDelegated(provider util.Uint160, m delegation.Mandate, key util.Uint160, symbol string) error {
	return c.exec.Invoke(provider, "addKeyDelegated", func(ctx *common.Context) error {
		msg := delegation.NewMessage(ctx.ExecutingScriptHash(), delegation.ActionAddServiceKey).
			AppendAddress(key).
			AppendString(symbol)

		err := delegation.Authorize(ctx, c.registry, m, msg)
		if err != nil {
			return err
		}

		return c.addKey(ctx, m.Associated, key, symbol)
	})
}

// RemoveKey releases the service key claimed by the identity of the caller
// and produces KeyRemoved. Keys claimed by other identities or not claimed
// at all are left untouched and no notification is produced.
func (c *Contract) RemoveKey(caller util.Uint160, key util.Uint160) error {
	return c.exec.Invoke(caller, "removeKey", func(ctx *common.Context) error {
		return c.removeKey(ctx, ctx.Caller(), key)
	})
}

// RemoveKeyDelegated is RemoveKey made by a provider for the mandate's
// associated address.
func (c *Contract) RemoveKeyDelegated(provider util.Uint160, m delegation.Mandate, key util.Uint160) error {
	return c.exec.Invoke(provider, "removeKeyDelegated", func(ctx *common.Context) error {
		msg := delegation.NewMessage(ctx.ExecutingScriptHash(), delegation.ActionRemoveServiceKey).
			AppendAddress(key)

		err := delegation.Authorize(ctx, c.registry, m, msg)
		if err != nil {
			return err
		}

		return c.removeKey(ctx, m.Associated, key)
	})
}

// RemoveKeys releases all service keys of the identity of the caller.
func (c *Contract) RemoveKeys(caller util.Uint160) error {
	return c.exec.Invoke(caller, "removeKeys", func(ctx *common.Context) error {
		return c.removeKeys(ctx, ctx.Caller())
	})
}

// RemoveKeysDelegated is RemoveKeys made by a provider for the mandate's
// associated address.
func (c *Contract) RemoveKeysDelegated(provider util.Uint160, m delegation.Mandate) error {
	return c.exec.Invoke(provider, "removeKeysDelegated", func(ctx *common.Context) error {
		msg := delegation.NewMessage(ctx.ExecutingScriptHash(), delegation.ActionRemoveAllKeys)

		err := delegation.Authorize(ctx, c.registry, m, msg)
		if err != nil {
			return err
		}

		return c.removeKeys(ctx, m.Associated)
	})
}

// IsKeyFor checks whether the key is claimed by the identity. The identity
// must exist.
func (c *Contract) IsKeyFor(key util.Uint160, ein uint64) (bool, error) {
	var res bool
	err := c.exec.Read(func(ctx *common.Context) error {
		err := common.Check(common.IdentityExists(c.registry, ein))
		if err != nil {
			return err
		}

		rec, err := getRecord(ctx, key)
		if err != nil {
			return err
		}

		res = rec.EIN == ein
		return nil
	})
	return res, err
}

// GetSymbol returns the symbol of the claimed key or an empty string.
func (c *Contract) GetSymbol(key util.Uint160) (string, error) {
	var res string
	err := c.exec.Read(func(ctx *common.Context) error {
		rec, err := getRecord(ctx, key)
		res = rec.Symbol
		return err
	})
	return res, err
}

// GetKeys returns all keys claimed by the identity. The identity must exist.
func (c *Contract) GetKeys(ein uint64) ([]util.Uint160, error) {
	var res []util.Uint160
	err := c.exec.Read(func(ctx *common.Context) error {
		err := common.Check(common.IdentityExists(c.registry, ein))
		if err != nil {
			return err
		}

		res = keySet(ctx, ein).Members()
		return nil
	})
	return res, err
}

func (c *Contract) addKey(ctx *common.Context, associated, key util.Uint160, symbol string) error {
	ein := c.registry.GetEIN(associated)

	err := common.Check(common.ResolverFor(c.registry, ein, ctx.ExecutingScriptHash()))
	if err != nil {
		return err
	}

	rec, err := getRecord(ctx, key)
	if err != nil {
		return err
	}
	if rec.EIN != common.NoIdentity {
		return fmt.Errorf("%w: key %s has already been claimed", common.ErrConflict, key.StringBE())
	}

	rec = keyRecord{EIN: ein, Symbol: symbol}
	err = common.SetSerialized(ctx, recordKey(key), &rec)
	if err != nil {
		return err
	}

	keySet(ctx, ein).Insert(key)
	ctx.Notify(addedEvent, key.BytesBE(), new(big.Int).SetUint64(ein), symbol)
	return nil
}

func (c *Contract) removeKey(ctx *common.Context, associated, key util.Uint160) error {
	ein := c.registry.GetEIN(associated)

	err := common.Check(common.ResolverFor(c.registry, ein, ctx.ExecutingScriptHash()))
	if err != nil {
		return err
	}

	rec, err := getRecord(ctx, key)
	if err != nil {
		return err
	}
	if rec.EIN != ein {
		return nil
	}

	ctx.Delete(recordKey(key))
	keySet(ctx, ein).Remove(key)
	ctx.Notify(removedEvent, key.BytesBE(), new(big.Int).SetUint64(ein))
	return nil
}

func (c *Contract) removeKeys(ctx *common.Context, associated util.Uint160) error {
	ein := c.registry.GetEIN(associated)

	err := common.Check(common.ResolverFor(c.registry, ein, ctx.ExecutingScriptHash()))
	if err != nil {
		return err
	}

	set := keySet(ctx, ein)
	for _, key := range set.Members() {
		ctx.Delete(recordKey(key))
		ctx.Notify(removedEvent, key.BytesBE(), new(big.Int).SetUint64(ein))
	}
	set.Clear()
	return nil
}

func getRecord(ctx *common.Context, key util.Uint160) (keyRecord, error) {
	var rec keyRecord
	_, err := common.GetSerialized(ctx, recordKey(key), &rec)
	if err != nil {
		return keyRecord{}, fmt.Errorf("read key record: %w", err)
	}
	return rec, nil
}

func recordKey(key util.Uint160) []byte {
	return append([]byte{keyPrefix}, key.BytesBE()...)
}

func keySet(ctx *common.Context, ein uint64) addrset.Set {
	prefix := make([]byte, 9)
	prefix[0] = setPrefix
	binary.BigEndian.PutUint64(prefix[1:], ein)
	return addrset.New(ctx, prefix)
}
