/*
Package wasm defines the ledger messages used to upload, instantiate and
execute a smart contract, together with the payloads understood by the
token contract.

All messages implement Msg and are registered in the package codec, so that
a transaction can carry any of them.
*/
package wasm
