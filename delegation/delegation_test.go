package delegation

import (
	"bytes"
	"testing"
	"time"

	"github.com/METADIUM/MetaResolvers/common"
	"github.com/METADIUM/MetaResolvers/internal/testregistry"
	"github.com/METADIUM/MetaResolvers/signature"
	"github.com/benbjohnson/clock"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

const day = uint64(24 * 60 * 60)

type testEnv struct {
	reg      *testregistry.Registry
	exec     *common.Executor
	clk      *clock.Mock
	key      *secp256k1.PrivateKey
	resolver util.Uint160
	provider util.Uint160
}

func newTestEnv(t *testing.T) *testEnv {
	key, err := secp256k1.GeneratePrivateKey()
	require.NoError(t, err)

	e := &testEnv{
		reg:      testregistry.New(),
		clk:      clock.NewMock(),
		key:      key,
		resolver: util.Uint160{0x01},
		provider: util.Uint160{0xaa},
	}
	e.clk.Set(time.Unix(1_700_000_000, 0))
	e.reg.CreateIdentity(signature.AddressOf(key), []util.Uint160{e.provider}, []util.Uint160{e.resolver})

	e.exec, err = common.Deploy(common.ContractPrm{
		Hash:     e.resolver,
		Owner:    util.Uint160{0xff},
		Registry: e.reg,
		Clock:    e.clk,
		Logger:   zaptest.NewLogger(t),
	})
	require.NoError(t, err)
	return e
}

func (e *testEnv) now() uint64 {
	return uint64(e.clk.Now().Unix())
}

func (e *testEnv) authorize(caller util.Uint160, m Mandate, msg *Message) error {
	return e.exec.Invoke(caller, "authorize", func(ctx *common.Context) error {
		return Authorize(ctx, e.reg, m, msg)
	})
}

func TestCheckTimestamp(t *testing.T) {
	const ts = 1_000_000

	require.NoError(t, CheckTimestamp(ts, ts, day))
	require.NoError(t, CheckTimestamp(ts+day-1, ts, day))
	require.ErrorIs(t, CheckTimestamp(ts+day, ts, day), common.ErrTimestamp)
	require.ErrorIs(t, CheckTimestamp(ts+2*day, ts, day), common.ErrTimestamp)
	require.ErrorIs(t, CheckTimestamp(ts-1, ts, day), common.ErrTimestamp)
}

func TestMessage(t *testing.T) {
	var (
		resolver = util.Uint160{1, 2, 3}
		key      = util.Uint160{4, 5, 6}
		symbol   = "HYDRO"
	)

	m := NewMessage(resolver, ActionAddServiceKey).AppendAddress(key).AppendString(symbol)

	var expected []byte
	expected = append(expected, 0x19, 0x00)
	expected = append(expected, resolver.BytesBE()...)
	expected = append(expected, ActionAddServiceKey...)
	expected = append(expected, key.BytesBE()...)
	expected = append(expected, symbol...)
	require.Equal(t, expected, m.data)

	ts := bytes.Repeat([]byte{0}, 32)
	ts[31] = 0x2a
	require.Equal(t, signature.Keccak256(expected, ts), m.Hash(42))
	require.NotEqual(t, m.Hash(42), m.Hash(43))
}

func TestAuthorize(t *testing.T) {
	e := newTestEnv(t)
	msg := func() *Message {
		return NewMessage(e.resolver, ActionAddServiceKey).AppendAddress(util.Uint160{7}).AppendString("SYM")
	}

	t.Run("unprefixed", func(t *testing.T) {
		require.NoError(t, e.authorize(e.provider, Sign(e.key, msg(), e.now()-1), msg()))
	})

	t.Run("prefixed", func(t *testing.T) {
		require.NoError(t, e.authorize(e.provider, SignPrefixed(e.key, msg(), e.now()-1), msg()))
	})

	t.Run("timestamp equals now", func(t *testing.T) {
		require.NoError(t, e.authorize(e.provider, Sign(e.key, msg(), e.now()), msg()))
	})

	t.Run("last valid second", func(t *testing.T) {
		require.NoError(t, e.authorize(e.provider, Sign(e.key, msg(), e.now()-day+1), msg()))
	})

	t.Run("expired at boundary", func(t *testing.T) {
		err := e.authorize(e.provider, Sign(e.key, msg(), e.now()-day), msg())
		require.ErrorIs(t, err, common.ErrTimestamp)
	})

	t.Run("future", func(t *testing.T) {
		err := e.authorize(e.provider, Sign(e.key, msg(), e.now()+1), msg())
		require.ErrorIs(t, err, common.ErrTimestamp)
	})

	t.Run("not a provider", func(t *testing.T) {
		err := e.authorize(util.Uint160{0xbb}, Sign(e.key, msg(), e.now()), msg())
		require.ErrorIs(t, err, common.ErrAuthorization)
	})

	t.Run("no identity", func(t *testing.T) {
		stranger, err := secp256k1.GeneratePrivateKey()
		require.NoError(t, err)

		err = e.authorize(e.provider, Sign(stranger, msg(), e.now()), msg())
		require.ErrorIs(t, err, common.ErrAuthorization)
	})

	t.Run("payload mismatch", func(t *testing.T) {
		m := Sign(e.key, msg(), e.now())
		other := NewMessage(e.resolver, ActionAddServiceKey).AppendAddress(util.Uint160{7}).AppendString("SYN")
		require.ErrorIs(t, e.authorize(e.provider, m, other), common.ErrSignature)
	})

	t.Run("other action", func(t *testing.T) {
		m := Sign(e.key, NewMessage(e.resolver, ActionRemoveAllKeys), e.now())
		require.ErrorIs(t, e.authorize(e.provider, m, NewMessage(e.resolver, ActionRemoveServiceKey)), common.ErrSignature)
	})

	t.Run("other resolver", func(t *testing.T) {
		m := Sign(e.key, NewMessage(util.Uint160{0x02}, ActionRemoveAllKeys), e.now())
		require.ErrorIs(t, e.authorize(e.provider, m, NewMessage(e.resolver, ActionRemoveAllKeys)), common.ErrSignature)
	})

	t.Run("other timestamp", func(t *testing.T) {
		m := Sign(e.key, msg(), e.now())
		m.Timestamp--
		require.ErrorIs(t, e.authorize(e.provider, m, msg()), common.ErrSignature)
	})

	t.Run("check order", func(t *testing.T) {
		// Expired mandate of a non-provider fails on the timestamp.
		err := e.authorize(util.Uint160{0xbb}, Sign(e.key, msg(), e.now()-day), msg())
		require.ErrorIs(t, err, common.ErrTimestamp)

		// Non-provider with a wrong signature fails on the provider check.
		m := Sign(e.key, msg(), e.now())
		m.Signature.R[0] ^= 1
		err = e.authorize(util.Uint160{0xbb}, m, msg())
		require.ErrorIs(t, err, common.ErrAuthorization)
	})

	t.Run("provider revoked", func(t *testing.T) {
		ein := e.reg.GetEIN(signature.AddressOf(e.key))
		e.reg.RemoveProviders(ein, e.provider)
		t.Cleanup(func() { e.reg.AddProviders(ein, e.provider) })

		err := e.authorize(e.provider, Sign(e.key, msg(), e.now()), msg())
		require.ErrorIs(t, err, common.ErrAuthorization)
	})
}

func TestAuthorize_ConfiguredTimeout(t *testing.T) {
	e := newTestEnv(t)
	msg := NewMessage(e.resolver, ActionRemovePublicKey)

	err := e.exec.Invoke(util.Uint160{0xff}, "setSignatureTimeout", func(ctx *common.Context) error {
		return common.SetSignatureTimeout(ctx, time.Hour)
	})
	require.NoError(t, err)

	require.NoError(t, e.authorize(e.provider, Sign(e.key, msg, e.now()-3599), msg))
	require.ErrorIs(t, e.authorize(e.provider, Sign(e.key, msg, e.now()-3600), msg), common.ErrTimestamp)
}
