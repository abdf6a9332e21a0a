/*
Package cash keeps balances of native currency and fungible tokens.

A wallet holds any number of assets. An asset is identified by the address of
its token contract, the empty address stands for the native currency of the
chain. All amounts are unsigned 256 bit integers.
*/
package cash
