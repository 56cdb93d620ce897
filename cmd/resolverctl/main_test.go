package main

import (
	"bytes"
	"encoding/hex"
	"strings"
	"testing"

	"github.com/METADIUM/MetaResolvers/delegation"
	"github.com/METADIUM/MetaResolvers/signature"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/stretchr/testify/require"
)

const (
	testKey     = "4c0883a69102937d6231471b5dbb6204fe5129617082792ae468d01a3f362318"
	testAddress = "2c7536e3605d9c16a7a3d7b1898e529396a65c23"
	testTime    = "1700000000"
)

func run(t *testing.T, args ...string) (map[string]string, error) {
	var buf bytes.Buffer

	app := newApp()
	app.Writer = &buf
	app.ErrWriter = &buf

	err := app.Run(append([]string{"resolverctl"}, args...))

	res := make(map[string]string)
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		k, v, ok := strings.Cut(line, ": ")
		if ok {
			res[k] = v
		} else {
			res[""] = line
		}
	}
	return res, err
}

func TestKeygen(t *testing.T) {
	out, err := run(t, "keygen")
	require.NoError(t, err)

	b, err := hex.DecodeString(out["private key"])
	require.NoError(t, err)
	key := secp256k1.PrivKeyFromBytes(b)

	require.Equal(t, hex.EncodeToString(signature.PublicKeyBytes(key)), out["public key"])
	require.Equal(t, signature.AddressOf(key).StringBE(), out["address"])
}

func TestAddress(t *testing.T) {
	b, err := hex.DecodeString(testKey)
	require.NoError(t, err)
	pub := hex.EncodeToString(signature.PublicKeyBytes(secp256k1.PrivKeyFromBytes(b)))

	out, err := run(t, "address", "--pub", pub)
	require.NoError(t, err)
	require.Equal(t, testAddress, out[""])

	_, err = run(t, "address", "--pub", "0xzz")
	require.Error(t, err)

	_, err = run(t, "address")
	require.Error(t, err)
}

func TestSignVerify(t *testing.T) {
	resolver := strings.Repeat("01", 20)

	for _, tc := range []struct {
		name string
		args []string
	}{
		{name: "add public key", args: []string{"--action", "add-public-key", "--pub", "0x0102"}},
		{name: "remove public key", args: []string{"--action", "remove-public-key"}},
		{name: "add service key", args: []string{"--action", "add-service-key", "--service-key", strings.Repeat("42", 20), "--symbol", "HYDRO"}},
		{name: "remove service key", args: []string{"--action", "remove-service-key", "--service-key", strings.Repeat("42", 20)}},
		{name: "remove all keys", args: []string{"--action", "remove-all-keys", "--prefixed"}},
		{name: "base58", args: []string{"--action", "remove-all-keys", "--encoding", "base58"}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			args := append([]string{"sign", "--key", testKey, "--resolver", resolver, "--timestamp", testTime}, tc.args...)
			out, err := run(t, args...)
			require.NoError(t, err)
			require.Equal(t, testAddress, out["associated"])
			require.Equal(t, testTime, out["timestamp"])

			enc := "hex"
			if tc.name == "base58" {
				enc = "base58"
			}

			verifyArgs := []string{"verify",
				"--account", "0x" + testAddress,
				"--hash", out["hash"],
				"--v", out["v"],
				"--r", out["r"],
				"--s", out["s"],
				"--encoding", enc,
			}
			res, err := run(t, verifyArgs...)
			require.NoError(t, err)
			require.Equal(t, "true", res[""])

			verifyArgs[2] = strings.Repeat("00", 20)
			res, err = run(t, verifyArgs...)
			require.NoError(t, err)
			require.Equal(t, "false", res[""])
		})
	}

	t.Run("hash", func(t *testing.T) {
		out, err := run(t, "sign", "--key", testKey, "--resolver", resolver, "--timestamp", testTime, "--action", "remove-all-keys")
		require.NoError(t, err)

		var addr util.Uint160
		for i := range addr {
			addr[i] = 0x01
		}
		msg := delegation.NewMessage(addr, delegation.ActionRemoveAllKeys)
		require.Equal(t, hex.EncodeToString(msg.Hash(1_700_000_000).BytesBE()), out["hash"])
	})

	t.Run("invalid", func(t *testing.T) {
		_, err := run(t, "sign", "--key", testKey, "--resolver", resolver, "--action", "transfer")
		require.Error(t, err)

		_, err = run(t, "sign", "--key", "0102", "--resolver", resolver, "--action", "remove-all-keys")
		require.Error(t, err)

		_, err = run(t, "sign", "--key", testKey, "--resolver", resolver, "--action", "add-public-key")
		require.Error(t, err)

		_, err = run(t, "sign", "--key", testKey, "--resolver", resolver, "--action", "remove-all-keys", "--encoding", "base64")
		require.Error(t, err)

		_, err = run(t, "verify", "--account", testAddress, "--hash", "00", "--v", "27", "--r", "00", "--s", "00")
		require.Error(t, err)
	})
}
