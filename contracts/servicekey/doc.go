/*
Package servicekey implements the service key resolver.

A service key is an address an identity lets act in some service, labeled
with a free-form symbol. Every key is claimed by at most one identity at a
time and the resolver keeps the set of keys of each identity, so they can be
listed or dropped at once.

As in package publickey, methods have direct and delegated forms and require
the identity to have the resolver set.

# Contract notifications

KeyAdded notification. This notification is produced when a key is claimed
by an identity.

	KeyAdded:
	  - name: key
	    type: Hash160
	  - name: ein
	    type: Integer
	  - name: symbol
	    type: String

KeyRemoved notification. This notification is produced for every key
released by RemoveKey or RemoveKeys. Removal of a key the identity does not
own produces nothing.

	KeyRemoved:
	  - name: key
	    type: Hash160
	  - name: ein
	    type: Integer

SignatureTimeoutChanged notification. This notification is produced when the
owner changes the validity period of mandates.

	SignatureTimeoutChanged:
	  - name: seconds
	    type: Integer
*/
package servicekey

/*
Contract storage model.

# Summary
Key-value storage format:
 - 'k'<key> -> keyRecord
   EIN of the identity which claimed the key and the key symbol
 - 's'<ein><suffix> -> addrset.Set
   keys claimed by the identity, ein is 8 bytes BE
 - 'contractOwner' -> 20-byte address
   account allowed to change the signature timeout
 - 'signatureTimeout' -> int
   validity period of mandates in seconds
 - 'version' -> int
   version of the resolver which wrote the storage

# Keys
Key record is serialized with neo-go binary writer: EIN as uint64 LE
followed by the var-length symbol. Missing record means the key is free.
Records and set membership are always changed together.
*/
