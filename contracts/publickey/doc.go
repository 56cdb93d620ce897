/*
Package publickey implements the public key resolver.

The resolver lets an address associated with an identity publish the public
key it is controlled by. A key is accepted only if it derives the address
(last 20 bytes of its keccak-256 hash), which proves possession without a
separate signature. Each address holds at most one key at a time; a key must
be removed before another one can be added.

Every method is available in two forms: a direct one acting for the caller
address and a delegated one submitted by a provider of the identity with a
mandate signed by the associated address (see package delegation). In both
cases the identity must have the resolver set in the identity registry.

# Contract notifications

PublicKeyAdded notification. This notification is produced when a public key
is stored for an address.

	PublicKeyAdded:
	  - name: account
	    type: Hash160
	  - name: ein
	    type: Integer
	  - name: publicKey
	    type: ByteArray
	  - name: delegated
	    type: Boolean

PublicKeyRemoved notification. This notification is produced on every
successful removal, including removal of an absent key.

	PublicKeyRemoved:
	  - name: account
	    type: Hash160
	  - name: ein
	    type: Integer
	  - name: delegated
	    type: Boolean

SignatureTimeoutChanged notification. This notification is produced when the
owner changes the validity period of mandates.

	SignatureTimeoutChanged:
	  - name: seconds
	    type: Integer
*/
package publickey

/*
Contract storage model.

# Summary
Key-value storage format:
 - 'k'<account> -> []byte
   public key of the account, account is a 20-byte address
 - 'contractOwner' -> 20-byte address
   account allowed to change the signature timeout
 - 'signatureTimeout' -> int
   validity period of mandates in seconds
 - 'version' -> int
   version of the resolver which wrote the storage

# Public keys
Absence of a value means that the account has no key stored, so the record
may be filled again after removal.
*/
