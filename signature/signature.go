/*
Package signature checks recoverable secp256k1 signatures against account
addresses.

An account address is the last 20 bytes of the keccak-256 hash of the
account's 64-byte uncompressed public key (without the 0x04 tag). A signature
over a 32-byte message hash is accepted for an address if the public key
recovered from it derives the address, either directly or after the hash has
been wrapped into the signed message prefix applied by wallets.
*/
package signature

import (
	"errors"
	"fmt"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"golang.org/x/crypto/sha3"
)

// Prefix is prepended to a 32-byte message hash by wallets before signing.
const Prefix = "\x19Ethereum Signed Message:\n32"

// Len is the length of a signature in its [Signature.Bytes] form.
const Len = 65

// ErrInvalidRecoveryID is returned by Recover for V values other than 0, 1,
// 27 and 28.
var ErrInvalidRecoveryID = errors.New("invalid recovery ID")

// Signature is a recoverable ECDSA signature.
type Signature struct {
	V uint8
	R [32]byte
	S [32]byte
}

// Bytes returns the signature in r ‖ s ‖ v form.
func (s Signature) Bytes() []byte {
	b := make([]byte, Len)
	copy(b, s.R[:])
	copy(b[32:], s.S[:])
	b[64] = s.V
	return b
}

// FromBytes decodes a signature in r ‖ s ‖ v form.
func FromBytes(b []byte) (Signature, error) {
	var s Signature
	if len(b) != Len {
		return s, fmt.Errorf("invalid signature length %d, expected %d", len(b), Len)
	}
	copy(s.R[:], b)
	copy(s.S[:], b[32:])
	s.V = b[64]
	return s, nil
}

// Keccak256 returns the keccak-256 hash of concatenated data.
func Keccak256(data ...[]byte) util.Uint256 {
	h := sha3.NewLegacyKeccak256()
	for i := range data {
		h.Write(data[i])
	}
	res, _ := util.Uint256DecodeBytesBE(h.Sum(nil))
	return res
}

// PrefixedHash returns the hash a wallet actually signs when asked to sign
// the given message hash.
func PrefixedHash(hash util.Uint256) util.Uint256 {
	return Keccak256([]byte(Prefix), hash.BytesBE())
}

// PublicKeyToAddress derives the account address of the public key.
func PublicKeyToAddress(pub []byte) util.Uint160 {
	h := Keccak256(pub).BytesBE()
	res, _ := util.Uint160DecodeBytesBE(h[len(h)-util.Uint160Size:])
	return res
}

// Recover returns the address of the key that produced sig over hash.
func Recover(hash util.Uint256, sig Signature) (util.Uint160, error) {
	v := sig.V
	if v < 27 {
		v += 27
	}
	if v != 27 && v != 28 {
		return util.Uint160{}, fmt.Errorf("%w: %d", ErrInvalidRecoveryID, sig.V)
	}

	compact := make([]byte, Len)
	compact[0] = v
	copy(compact[1:], sig.R[:])
	copy(compact[33:], sig.S[:])

	pub, _, err := ecdsa.RecoverCompact(compact, hash.BytesBE())
	if err != nil {
		return util.Uint160{}, fmt.Errorf("recover public key: %w", err)
	}

	return PublicKeyToAddress(pub.SerializeUncompressed()[1:]), nil
}

// IsSigned checks whether sig over hash was produced by the key of the
// claimed account. Both the raw hash and its prefixed form are tried,
// recovery failures are treated as mismatches.
func IsSigned(claimed util.Uint160, hash util.Uint256, sig Signature) bool {
	if a, err := Recover(hash, sig); err == nil && a.Equals(claimed) {
		return true
	}

	a, err := Recover(PrefixedHash(hash), sig)
	return err == nil && a.Equals(claimed)
}

// PublicKeyBytes returns the 64-byte public key of the private key in the
// form accepted by PublicKeyToAddress.
func PublicKeyBytes(key *secp256k1.PrivateKey) []byte {
	return key.PubKey().SerializeUncompressed()[1:]
}

// AddressOf returns the account address of the private key.
func AddressOf(key *secp256k1.PrivateKey) util.Uint160 {
	return PublicKeyToAddress(PublicKeyBytes(key))
}

// Sign signs hash with the key.
func Sign(key *secp256k1.PrivateKey, hash util.Uint256) Signature {
	compact := ecdsa.SignCompact(key, hash.BytesBE(), false)

	var s Signature
	s.V = compact[0]
	copy(s.R[:], compact[1:33])
	copy(s.S[:], compact[33:])
	return s
}

// SignPrefixed signs hash the way wallets do, i.e. signs its PrefixedHash.
func SignPrefixed(key *secp256k1.PrivateKey, hash util.Uint256) Signature {
	return Sign(key, PrefixedHash(hash))
}
