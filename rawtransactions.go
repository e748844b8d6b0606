// Copyright (c) 2014-2017 The btcsuite developers
// Copyright (c) 2026 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package corerpc

import (
	"bytes"
	"encoding/hex"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
)

// GetRawTransaction returns a transaction from the server given its hash.
// The server must either have the transaction in its memory pool, in a block
// indexed by -txindex, or in an unspent output.
func (c *Client) GetRawTransaction(txHash *chainhash.Hash) (*wire.MsgTx, error) {
	var txHex string
	err := c.Call(&txHex, "getrawtransaction", txHash.String())
	if err != nil {
		return nil, err
	}

	// Decode the serialized transaction hex to raw bytes.
	serializedTx, err := hex.DecodeString(txHex)
	if err != nil {
		return nil, &HexError{Value: txHex, Err: err}
	}

	// Deserialize the transaction and return it.
	var msgTx wire.MsgTx
	err = msgTx.Deserialize(bytes.NewReader(serializedTx))
	if err != nil {
		return nil, &InvalidResponseError{
			Method:      "getrawtransaction",
			Description: "failed to deserialize transaction",
			Err:         err,
		}
	}
	return &msgTx, nil
}
