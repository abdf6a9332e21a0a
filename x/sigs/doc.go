/*
Package sigs provides basic authentication middleware to verify the
signatures on the transaction, and maintain sequence numbers for replay
protection.

Signers are identified by the address recovered from their signature, so no
public key has to be registered beforehand.
*/
package sigs
