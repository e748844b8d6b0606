// Copyright (c) 2014-2017 The btcsuite developers
// Copyright (c) 2026 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package corerpc

import (
	"bytes"
	"encoding/hex"
	"encoding/json"

	"github.com/btcsuite/btcd/btcjson"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
)

// GetBestBlockHash returns the hash of the best block in the longest block
// chain.
func (c *Client) GetBestBlockHash() (*chainhash.Hash, error) {
	var hashStr string
	err := c.Call(&hashStr, "getbestblockhash")
	if err != nil {
		return nil, err
	}

	// Unmarshalling a null result into a string is a no-op, and
	// NewHashFromStr zero-pads an empty string into a valid hash, so an
	// empty result must be rejected before parsing.
	if hashStr == "" {
		return nil, &InvalidResponseError{
			Method:      "getbestblockhash",
			Description: "expected a hash string",
		}
	}

	hash, err := chainhash.NewHashFromStr(hashStr)
	if err != nil {
		return nil, &HexError{Value: hashStr, Err: err}
	}
	return hash, nil
}

// GetBlock returns a raw block from the server given its hash.
//
// See GetBlockVerbose to retrieve a data structure with information about the
// block instead.
func (c *Client) GetBlock(blockHash *chainhash.Hash) (*wire.MsgBlock, error) {
	var blockHex string
	err := c.Call(&blockHex, "getblock", blockHash.String(), 0)
	if err != nil {
		return nil, err
	}

	// Decode the serialized block hex to raw bytes.
	serializedBlock, err := hex.DecodeString(blockHex)
	if err != nil {
		return nil, &HexError{Value: blockHex, Err: err}
	}

	// Deserialize the block and return it.
	var msgBlock wire.MsgBlock
	err = msgBlock.Deserialize(bytes.NewReader(serializedBlock))
	if err != nil {
		return nil, &InvalidResponseError{
			Method:      "getblock",
			Description: "failed to deserialize block",
			Err:         err,
		}
	}
	return &msgBlock, nil
}

// GetBlockVerbose returns a data structure from the server with information
// about a block given its hash.
//
// See GetBlock to retrieve a raw block instead.
func (c *Client) GetBlockVerbose(blockHash *chainhash.Hash) (*btcjson.GetBlockVerboseResult, error) {
	var blockResult btcjson.GetBlockVerboseResult
	err := c.Call(&blockResult, "getblock", blockHash.String(), 1)
	if err != nil {
		return nil, err
	}
	return &blockResult, nil
}

// GetBlockCount returns the number of blocks in the longest block chain.
func (c *Client) GetBlockCount() (int64, error) {
	var count int64
	err := c.Call(&count, "getblockcount")
	if err != nil {
		return 0, err
	}
	return count, nil
}

// GetBlockHash returns the hash of the block in the best block chain at the
// given height.
//
// The documented response is a bare hash string, but some non-standard
// backends wrap it in an object with a "hash" field; both shapes are
// accepted.
func (c *Client) GetBlockHash(blockHeight int64) (*chainhash.Hash, error) {
	var raw json.RawMessage
	err := c.Call(&raw, "getblockhash", blockHeight)
	if err != nil {
		return nil, err
	}

	// A null result unmarshals into a string as a no-op, which would be
	// zero-padded into a valid hash below, so it is rejected up front.
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, &InvalidResponseError{
			Method:      "getblockhash",
			Description: "expected a hash string, got null",
		}
	}

	var hashStr string
	if err := json.Unmarshal(raw, &hashStr); err != nil {
		var wrapped struct {
			Hash *string `json:"hash"`
		}
		if err := json.Unmarshal(raw, &wrapped); err != nil || wrapped.Hash == nil {
			return nil, &InvalidResponseError{
				Method: "getblockhash",
				Description: "expected a hash string or an " +
					"object with a \"hash\" field",
			}
		}
		hashStr = *wrapped.Hash
	}
	if hashStr == "" {
		return nil, &InvalidResponseError{
			Method:      "getblockhash",
			Description: "expected a non-empty hash string",
		}
	}

	hash, err := chainhash.NewHashFromStr(hashStr)
	if err != nil {
		return nil, &HexError{Value: hashStr, Err: err}
	}
	return hash, nil
}

// GetBlockFilter returns the BIP157 filter for a block given its hash.  The
// server must be run with a block filter index (-blockfilterindex=1) for this
// to succeed.
func (c *Client) GetBlockFilter(blockHash *chainhash.Hash) (*btcjson.GetBlockFilterResult, error) {
	var filterResult btcjson.GetBlockFilterResult
	err := c.Call(&filterResult, "getblockfilter", blockHash.String())
	if err != nil {
		return nil, err
	}
	return &filterResult, nil
}

// GetBlockHeader returns the raw block header from the server given its hash.
//
// See GetBlockHeaderVerbose to retrieve a data structure with information
// about the block header instead.
func (c *Client) GetBlockHeader(blockHash *chainhash.Hash) (*wire.BlockHeader, error) {
	var headerHex string
	err := c.Call(&headerHex, "getblockheader", blockHash.String(), false)
	if err != nil {
		return nil, err
	}

	serializedHeader, err := hex.DecodeString(headerHex)
	if err != nil {
		return nil, &HexError{Value: headerHex, Err: err}
	}

	var header wire.BlockHeader
	err = header.Deserialize(bytes.NewReader(serializedHeader))
	if err != nil {
		return nil, &InvalidResponseError{
			Method:      "getblockheader",
			Description: "failed to deserialize block header",
			Err:         err,
		}
	}
	return &header, nil
}

// GetBlockHeaderVerbose returns a data structure from the server with
// information about a block header given its hash.
//
// See GetBlockHeader to retrieve a raw block header instead.
func (c *Client) GetBlockHeaderVerbose(blockHash *chainhash.Hash) (*btcjson.GetBlockHeaderVerboseResult, error) {
	var headerResult btcjson.GetBlockHeaderVerboseResult
	err := c.Call(&headerResult, "getblockheader", blockHash.String(), true)
	if err != nil {
		return nil, err
	}
	return &headerResult, nil
}

// GetBlockChainInfo returns information related to the processing state of
// various chain-specific details such as the current difficulty from the tip
// of the main chain.
func (c *Client) GetBlockChainInfo() (*btcjson.GetBlockChainInfoResult, error) {
	var chainInfo btcjson.GetBlockChainInfoResult
	err := c.Call(&chainInfo, "getblockchaininfo")
	if err != nil {
		return nil, err
	}
	return &chainInfo, nil
}

// GetDifficulty returns the proof-of-work difficulty as a multiple of the
// minimum difficulty.
func (c *Client) GetDifficulty() (float64, error) {
	var difficulty float64
	err := c.Call(&difficulty, "getdifficulty")
	if err != nil {
		return 0, err
	}
	return difficulty, nil
}

// GetRawMempool returns the hashes of all transactions in the memory pool.
//
// See GetRawMempoolVerbose to retrieve data structures with information about
// the transactions instead.
func (c *Client) GetRawMempool() ([]*chainhash.Hash, error) {
	var txHashStrs []string
	err := c.Call(&txHashStrs, "getrawmempool")
	if err != nil {
		return nil, err
	}

	// Unmarshalling a null result leaves the slice nil, while an empty
	// mempool decodes as an empty non-nil slice.
	if txHashStrs == nil {
		return nil, &InvalidResponseError{
			Method:      "getrawmempool",
			Description: "expected an array of hash strings, got null",
		}
	}

	// Create a slice of pointers to the hashes and return it after
	// converting each transaction hash string.
	txHashes := make([]*chainhash.Hash, 0, len(txHashStrs))
	for _, hashStr := range txHashStrs {
		txHash, err := chainhash.NewHashFromStr(hashStr)
		if err != nil {
			return nil, &HexError{Value: hashStr, Err: err}
		}
		txHashes = append(txHashes, txHash)
	}
	return txHashes, nil
}

// GetRawMempoolVerbose returns a map of transaction hashes to an associated
// data structure with information about the transaction for all transactions
// in the memory pool.
//
// See GetRawMempool to retrieve only the transaction hashes instead.
func (c *Client) GetRawMempoolVerbose() (map[string]btcjson.GetRawMempoolVerboseResult, error) {
	var mempoolItems map[string]btcjson.GetRawMempoolVerboseResult
	err := c.Call(&mempoolItems, "getrawmempool", true)
	if err != nil {
		return nil, err
	}
	return mempoolItems, nil
}
