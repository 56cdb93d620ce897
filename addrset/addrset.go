/*
Package addrset implements a set of account addresses living in a key-value
storage. Insert, Remove, Contains and Len cost a constant number of storage
operations regardless of the set size.

# Storage model

A set owns every key starting with its prefix:

	prefix 'n'              -> number of members
	prefix 'v' position     -> member stored at the 1-based position (4 bytes BE)
	prefix 'i' member       -> 1-based position of the member

Positions form a dense sequence. Removal moves the last member into the
vacated slot, so insertion order is not preserved. A member is present only
if its index entry is non-zero, within the current length and the slot it
points to holds the same member.
*/
package addrset

import (
	"bytes"
	"encoding/binary"
	"math/big"

	"github.com/nspcc-dev/neo-go/pkg/encoding/bigint"
	"github.com/nspcc-dev/neo-go/pkg/util"
)

// Store is a key-value storage a Set lives in.
type Store interface {
	Get(key []byte) []byte
	Put(key, value []byte)
	Delete(key []byte)
}

const (
	lengthKey = 'n'
	valueKey  = 'v'
	indexKey  = 'i'
)

// Set is a set of addresses stored under a prefix. Set values are cheap to
// construct and hold no state besides the storage reference.
type Set struct {
	store  Store
	prefix []byte
}

// New returns a Set stored in s under the given prefix. Prefixes of
// different sets must not be prefixes of each other.
func New(s Store, prefix []byte) Set {
	return Set{store: s, prefix: bytes.Clone(prefix)}
}

// Len returns the number of members.
func (s Set) Len() int {
	return s.getInt(s.key(lengthKey, nil))
}

// Contains checks whether x is a member.
func (s Set) Contains(x util.Uint160) bool {
	i := s.getInt(s.key(indexKey, x.BytesBE()))
	if i == 0 || i > s.Len() {
		return false
	}
	return bytes.Equal(s.store.Get(s.valueKey(i)), x.BytesBE())
}

// Insert adds x to the set. It returns false if x is already a member.
func (s Set) Insert(x util.Uint160) bool {
	if s.Contains(x) {
		return false
	}

	n := s.Len() + 1
	s.store.Put(s.valueKey(n), x.BytesBE())
	s.putInt(s.key(indexKey, x.BytesBE()), n)
	s.putInt(s.key(lengthKey, nil), n)
	return true
}

// Remove deletes x from the set. It returns false if x is not a member.
func (s Set) Remove(x util.Uint160) bool {
	if !s.Contains(x) {
		return false
	}

	var (
		n = s.Len()
		i = s.getInt(s.key(indexKey, x.BytesBE()))
	)

	if i != n {
		last := s.store.Get(s.valueKey(n))
		s.store.Put(s.valueKey(i), last)
		s.putInt(s.key(indexKey, last), i)
	}

	s.store.Delete(s.valueKey(n))
	s.store.Delete(s.key(indexKey, x.BytesBE()))
	s.putInt(s.key(lengthKey, nil), n-1)
	return true
}

// Members returns all members ordered by their positions.
func (s Set) Members() []util.Uint160 {
	n := s.Len()
	res := make([]util.Uint160, 0, n)
	for i := 1; i <= n; i++ {
		u, err := util.Uint160DecodeBytesBE(s.store.Get(s.valueKey(i)))
		if err != nil {
			continue
		}
		res = append(res, u)
	}
	return res
}

// Clear removes all members in a single pass over the sequence.
func (s Set) Clear() {
	n := s.Len()
	for i := 1; i <= n; i++ {
		vk := s.valueKey(i)
		if v := s.store.Get(vk); v != nil {
			s.store.Delete(s.key(indexKey, v))
		}
		s.store.Delete(vk)
	}
	s.putInt(s.key(lengthKey, nil), 0)
}

func (s Set) key(kind byte, suffix []byte) []byte {
	k := make([]byte, 0, len(s.prefix)+1+len(suffix))
	k = append(k, s.prefix...)
	k = append(k, kind)
	return append(k, suffix...)
}

func (s Set) valueKey(i int) []byte {
	var pos [4]byte
	binary.BigEndian.PutUint32(pos[:], uint32(i))
	return s.key(valueKey, pos[:])
}

func (s Set) getInt(key []byte) int {
	data := s.store.Get(key)
	if len(data) == 0 {
		return 0
	}
	return int(bigint.FromBytes(data).Int64())
}

func (s Set) putInt(key []byte, n int) {
	if n == 0 {
		s.store.Delete(key)
		return
	}
	s.store.Put(key, bigint.ToBytes(big.NewInt(int64(n))))
}
