package main

import (
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/METADIUM/MetaResolvers/delegation"
	"github.com/METADIUM/MetaResolvers/signature"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/mr-tron/base58"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/urfave/cli"
)

var actions = map[string]string{
	"add-public-key":     delegation.ActionAddPublicKey,
	"remove-public-key":  delegation.ActionRemovePublicKey,
	"add-service-key":    delegation.ActionAddServiceKey,
	"remove-service-key": delegation.ActionRemoveServiceKey,
	"remove-all-keys":    delegation.ActionRemoveAllKeys,
}

var encodingFlag = cli.StringFlag{
	Name:  "encoding",
	Usage: "Encoding of hashes and signature parts: hex or base58",
	Value: "hex",
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = "resolverctl"
	app.Usage = "Offline tooling for delegated resolver calls"
	app.HideVersion = true
	app.Commands = []cli.Command{
		{
			Name:   "keygen",
			Usage:  "Generate a new secp256k1 key",
			Action: keygen,
		},
		{
			Name:  "address",
			Usage: "Calculate account address of a public key",
			Flags: []cli.Flag{
				cli.StringFlag{Name: "pub", Usage: "64-byte public key in hex"},
			},
			Action: address,
		},
		{
			Name:  "sign",
			Usage: "Sign a mandate for a delegated resolver call",
			Flags: []cli.Flag{
				cli.StringFlag{Name: "key", Usage: "Private key in hex"},
				cli.StringFlag{Name: "resolver", Usage: "Resolver address in hex"},
				cli.StringFlag{Name: "action", Usage: "One of: " + strings.Join(actionNames(), ", ")},
				cli.StringFlag{Name: "pub", Usage: "Public key to add in hex"},
				cli.StringFlag{Name: "service-key", Usage: "Service key address in hex"},
				cli.StringFlag{Name: "symbol", Usage: "Service key symbol"},
				cli.Uint64Flag{Name: "timestamp", Usage: "Mandate timestamp in unix seconds, current time if omitted"},
				cli.BoolFlag{Name: "prefixed", Usage: "Sign the hash wrapped into the signed message prefix"},
				encodingFlag,
			},
			Action: sign,
		},
		{
			Name:  "verify",
			Usage: "Check that the account signed the hash",
			Flags: []cli.Flag{
				cli.StringFlag{Name: "account", Usage: "Claimed signer address in hex"},
				cli.StringFlag{Name: "hash", Usage: "Signed 32-byte hash"},
				cli.UintFlag{Name: "v", Usage: "Recovery id: 27, 28, 0 or 1"},
				cli.StringFlag{Name: "r", Usage: "R part of the signature"},
				cli.StringFlag{Name: "s", Usage: "S part of the signature"},
				encodingFlag,
			},
			Action: verify,
		},
		dumpCommand,
	}
	return app
}

func keygen(c *cli.Context) error {
	key, err := secp256k1.GeneratePrivateKey()
	if err != nil {
		return fmt.Errorf("generate key: %w", err)
	}

	w := c.App.Writer
	fmt.Fprintf(w, "private key: %s\n", hex.EncodeToString(key.Serialize()))
	fmt.Fprintf(w, "public key: %s\n", hex.EncodeToString(signature.PublicKeyBytes(key)))
	fmt.Fprintf(w, "address: %s\n", signature.AddressOf(key).StringBE())
	return nil
}

func address(c *cli.Context) error {
	pub, err := decodeHex(c.String("pub"))
	if err != nil {
		return fmt.Errorf("invalid public key: %w", err)
	}
	if len(pub) == 0 {
		return errors.New("missing public key")
	}

	fmt.Fprintln(c.App.Writer, signature.PublicKeyToAddress(pub).StringBE())
	return nil
}

func sign(c *cli.Context) error {
	keyBytes, err := decodeHex(c.String("key"))
	if err != nil {
		return fmt.Errorf("invalid private key: %w", err)
	}
	if len(keyBytes) != secp256k1.PrivKeyBytesLen {
		return fmt.Errorf("invalid private key length %d", len(keyBytes))
	}
	key := secp256k1.PrivKeyFromBytes(keyBytes)

	resolver, err := decodeAddress(c.String("resolver"))
	if err != nil {
		return fmt.Errorf("invalid resolver: %w", err)
	}

	action, ok := actions[c.String("action")]
	if !ok {
		return fmt.Errorf("unknown action %q", c.String("action"))
	}

	msg := delegation.NewMessage(resolver, action)
	switch action {
	case delegation.ActionAddPublicKey:
		pub, err := decodeHex(c.String("pub"))
		if err != nil || len(pub) == 0 {
			return errors.New("invalid or missing public key")
		}
		msg.AppendBytes(pub)
	case delegation.ActionAddServiceKey, delegation.ActionRemoveServiceKey:
		sk, err := decodeAddress(c.String("service-key"))
		if err != nil {
			return fmt.Errorf("invalid service key: %w", err)
		}
		msg.AppendAddress(sk)
		if action == delegation.ActionAddServiceKey {
			msg.AppendString(c.String("symbol"))
		}
	}

	ts := c.Uint64("timestamp")
	if !c.IsSet("timestamp") {
		ts = uint64(time.Now().Unix())
	}

	enc, err := encoder(c.String("encoding"))
	if err != nil {
		return err
	}

	var m delegation.Mandate
	if c.Bool("prefixed") {
		m = delegation.SignPrefixed(key, msg, ts)
	} else {
		m = delegation.Sign(key, msg, ts)
	}
	hash := msg.Hash(ts)

	w := c.App.Writer
	fmt.Fprintf(w, "associated: %s\n", m.Associated.StringBE())
	fmt.Fprintf(w, "timestamp: %d\n", m.Timestamp)
	fmt.Fprintf(w, "hash: %s\n", enc(hash.BytesBE()))
	fmt.Fprintf(w, "v: %d\n", m.Signature.V)
	fmt.Fprintf(w, "r: %s\n", enc(m.Signature.R[:]))
	fmt.Fprintf(w, "s: %s\n", enc(m.Signature.S[:]))
	return nil
}

func verify(c *cli.Context) error {
	account, err := decodeAddress(c.String("account"))
	if err != nil {
		return fmt.Errorf("invalid account: %w", err)
	}

	dec, err := decoder(c.String("encoding"))
	if err != nil {
		return err
	}

	hb, err := dec(c.String("hash"))
	if err != nil {
		return fmt.Errorf("invalid hash: %w", err)
	}
	hash, err := util.Uint256DecodeBytesBE(hb)
	if err != nil {
		return fmt.Errorf("invalid hash: %w", err)
	}

	v := c.Uint("v")
	if v > 0xff {
		return fmt.Errorf("invalid recovery id %d", v)
	}
	sig := signature.Signature{V: uint8(v)}

	for _, p := range []struct {
		name string
		dst  []byte
	}{{"r", sig.R[:]}, {"s", sig.S[:]}} {
		b, err := dec(c.String(p.name))
		if err != nil || len(b) != len(p.dst) {
			return fmt.Errorf("invalid %s: 32 bytes expected", p.name)
		}
		copy(p.dst, b)
	}

	fmt.Fprintln(c.App.Writer, signature.IsSigned(account, hash, sig))
	return nil
}

func actionNames() []string {
	return []string{"add-public-key", "remove-public-key", "add-service-key", "remove-service-key", "remove-all-keys"}
}

func decodeHex(s string) ([]byte, error) {
	return hex.DecodeString(strings.TrimPrefix(s, "0x"))
}

func decodeAddress(s string) (util.Uint160, error) {
	return util.Uint160DecodeStringBE(strings.TrimPrefix(s, "0x"))
}

func encoder(name string) (func([]byte) string, error) {
	switch name {
	case "hex":
		return hex.EncodeToString, nil
	case "base58":
		return base58.Encode, nil
	}
	return nil, fmt.Errorf("unknown encoding %q", name)
}

func decoder(name string) (func(string) ([]byte, error), error) {
	switch name {
	case "hex":
		return decodeHex, nil
	case "base58":
		return base58.Decode, nil
	}
	return nil, fmt.Errorf("unknown encoding %q", name)
}
