/*
Package delegation implements the protocol letting a provider submit a
resolver action on behalf of an identity with a mandate signed offline by
one of the identity's associated addresses.

A mandate binds a single action of a single resolver: the signed message
contains the resolver address, a fixed action tag, the action fields and
the issuance timestamp. A mandate is valid from its timestamp until the
resolver's signature timeout elapses. Mandates are not consumed on use: the
same mandate may be submitted again within its window and succeeds whenever
the resolver state still permits the action.
*/
package delegation
