package common

import (
	"fmt"
	"math/big"

	"github.com/nspcc-dev/neo-go/pkg/encoding/bigint"
	"github.com/nspcc-dev/neo-go/pkg/io"
	"github.com/nspcc-dev/neo-go/pkg/util"
)

// OwnerKey is the storage key of the resolver owner.
const OwnerKey = "contractOwner"

// SetSerialized serializes value and puts it into resolver storage.
func SetSerialized(ctx *Context, key []byte, value io.Serializable) error {
	w := io.NewBufBinWriter()
	value.EncodeBinary(w.BinWriter)
	if w.Err != nil {
		return fmt.Errorf("encode value: %w", w.Err)
	}

	ctx.Put(key, w.Bytes())
	return nil
}

// GetSerialized reads the value stored by key into v. It returns false if
// nothing is stored.
func GetSerialized(ctx *Context, key []byte, v io.Serializable) (bool, error) {
	data := ctx.Get(key)
	if data == nil {
		return false, nil
	}

	r := io.NewBinReaderFromBuf(data)
	v.DecodeBinary(r)
	if r.Err != nil {
		return false, fmt.Errorf("decode value: %w", r.Err)
	}
	return true, nil
}

// GetInt reads an integer stored by key, missing values are zero.
func GetInt(ctx *Context, key []byte) int64 {
	data := ctx.Get(key)
	if len(data) == 0 {
		return 0
	}
	return bigint.FromBytes(data).Int64()
}

// PutInt puts an integer into resolver storage.
func PutInt(ctx *Context, key []byte, n int64) {
	ctx.Put(key, bigint.ToBytes(big.NewInt(n)))
}

// Owner returns the account allowed to reconfigure the resolver.
func Owner(ctx *Context) util.Uint160 {
	u, err := util.Uint160DecodeBytesBE(ctx.Get([]byte(OwnerKey)))
	if err != nil {
		return util.Uint160{}
	}
	return u
}
