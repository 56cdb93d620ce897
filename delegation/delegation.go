package delegation

import (
	"encoding/binary"
	"fmt"

	"github.com/METADIUM/MetaResolvers/common"
	"github.com/METADIUM/MetaResolvers/signature"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/nspcc-dev/neo-go/pkg/util"
)

// Action tags bound into mandates of the corresponding resolver methods.
const (
	ActionAddPublicKey     = "I authorize the addition of a public key on my behalf."
	ActionRemovePublicKey  = "I authorize the removal of a public key on my behalf."
	ActionAddServiceKey    = "I authorize the addition of a service key on my behalf."
	ActionRemoveServiceKey = "I authorize the removal of a service key on my behalf."
	ActionRemoveAllKeys    = "I authorize the removal of all service keys on my behalf."
)

// versionTag opens every signed message: the 0x19 byte keeps it from being a
// valid transaction encoding, 0x00 is the data format version.
var versionTag = []byte{0x19, 0x00}

// Mandate is a signed permission for a provider to act on behalf of the
// identity of the associated address.
type Mandate struct {
	// Associated is the address which signed the mandate. The identity the
	// mandate acts for is the one this address is associated with.
	Associated util.Uint160
	// Timestamp is the unix time the mandate was issued at.
	Timestamp uint64
	// Signature over the message hash.
	Signature signature.Signature
}

// Message is a canonical message of a delegated action: the version tag,
// resolver address, action tag and action fields packed without padding.
type Message struct {
	data []byte
}

// NewMessage starts a message of the action for the resolver.
func NewMessage(resolver util.Uint160, action string) *Message {
	data := make([]byte, 0, len(versionTag)+util.Uint160Size+len(action))
	data = append(data, versionTag...)
	data = append(data, resolver.BytesBE()...)
	data = append(data, action...)
	return &Message{data: data}
}

// AppendBytes appends a raw byte string field.
func (m *Message) AppendBytes(b []byte) *Message {
	m.data = append(m.data, b...)
	return m
}

// AppendString appends a string field.
func (m *Message) AppendString(s string) *Message {
	m.data = append(m.data, s...)
	return m
}

// AppendAddress appends an address field.
func (m *Message) AppendAddress(a util.Uint160) *Message {
	m.data = append(m.data, a.BytesBE()...)
	return m
}

// Hash returns the hash to be signed for the message issued at timestamp.
// The timestamp is packed as a 256-bit big-endian integer.
func (m *Message) Hash(timestamp uint64) util.Uint256 {
	var ts [32]byte
	binary.BigEndian.PutUint64(ts[24:], timestamp)
	return signature.Keccak256(m.data, ts[:])
}

// Sign issues a mandate for the message signed by the key.
func Sign(key *secp256k1.PrivateKey, m *Message, timestamp uint64) Mandate {
	return Mandate{
		Associated: signature.AddressOf(key),
		Timestamp:  timestamp,
		Signature:  signature.Sign(key, m.Hash(timestamp)),
	}
}

// SignPrefixed is like Sign but signs the way wallets do.
func SignPrefixed(key *secp256k1.PrivateKey, m *Message, timestamp uint64) Mandate {
	return Mandate{
		Associated: signature.AddressOf(key),
		Timestamp:  timestamp,
		Signature:  signature.SignPrefixed(key, m.Hash(timestamp)),
	}
}

// CheckTimestamp checks that a mandate issued at timestamp is valid at now:
// now must lie within [timestamp, timestamp+timeout).
func CheckTimestamp(now, timestamp, timeout uint64) error {
	if now < timestamp {
		return fmt.Errorf("%w: timestamp is in the future", common.ErrTimestamp)
	}
	if now-timestamp >= timeout {
		return fmt.Errorf("%w: timestamp has expired", common.ErrTimestamp)
	}
	return nil
}

// Authorize checks that the invocation caller may perform the action
// described by msg on behalf of the identity of the mandate's associated
// address. The timestamp window is checked first, then the caller's provider
// status and finally the signature. Whether the identity has set the
// resolver is left to the action itself, it is shared with direct calls.
func Authorize(ctx *common.Context, reg common.IdentityRegistry, m Mandate, msg *Message) error {
	err := CheckTimestamp(ctx.Time(), m.Timestamp, common.SignatureTimeout(ctx))
	if err != nil {
		return err
	}

	ein := reg.GetEIN(m.Associated)
	err = common.Check(common.ProviderFor(reg, ein, ctx.Caller()))
	if err != nil {
		return err
	}

	if !signature.IsSigned(m.Associated, msg.Hash(m.Timestamp), m.Signature) {
		return fmt.Errorf("%w: signature does not match the associated address", common.ErrSignature)
	}
	return nil
}
