package wasm

import (
	amino "github.com/tendermint/go-amino"
)

// RegisterCodec registers the Msg interface and all message implementations
// in the given codec.
func RegisterCodec(cdc *amino.Codec) {
	cdc.RegisterInterface((*Msg)(nil), nil)
	cdc.RegisterConcrete(&MsgStoreCode{}, pathStoreCode, nil)
	cdc.RegisterConcrete(&MsgInstantiateContract{}, pathInstantiate, nil)
	cdc.RegisterConcrete(&MsgExecuteContract{}, pathExecute, nil)
}
