// Copyright (c) 2026 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package corerpc

import (
	"errors"
	"strings"
	"testing"

	"github.com/btcsuite/btcd/btcjson"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/require"
)

const (
	// genesisHashStr is the hash of the mainnet genesis block.
	genesisHashStr = "000000000019d6689c085ae165831e934ff763ae46a2a6c172b3f1b60a8ce26f"

	// block1HashStr is the hash of the first mainnet block after genesis.
	block1HashStr = "00000000839a8e6886ab5951d76f411475428afc90947ee320161bbf18eb6048"

	// genesisCoinbaseTxHashStr is the transaction hash of the mainnet
	// genesis coinbase.
	genesisCoinbaseTxHashStr = "4a5e1e4baab89f3a32518a88c31bc87f618f76673e2cc77ab2127b7afdeda33b"

	// genesisHeaderHex is the serialized mainnet genesis block header.
	genesisHeaderHex = "0100000000000000000000000000000000000000000000" +
		"000000000000000000000000003ba3edfd7a7b12b27ac72c3e67768f61" +
		"7fc81bc3888a51323a9fb8aa4b1e5e4a29ab5f49ffff001d1dac2b7c"

	// genesisCoinbaseTxHex is the serialized mainnet genesis coinbase
	// transaction.
	genesisCoinbaseTxHex = "01000000010000000000000000000000000000000000" +
		"000000000000000000000000000000ffffffff4d04ffff001d0104455468" +
		"652054696d65732030332f4a616e2f32303039204368616e63656c6c6f72" +
		"206f6e206272696e6b206f66207365636f6e64206261696c6f757420666f" +
		"722062616e6b73ffffffff0100f2052a01000000434104678afdb0fe5548" +
		"271967f1a67130b7105cd6a828e03909a67962e0ea1f61deb649f6bc3f4c" +
		"ef38c4f35504e51ec112de5c384df7ba0b8d578a4c702b6bf11d5fac0000" +
		"0000"

	// genesisBlockHex is the fully serialized mainnet genesis block:
	// header, a one-transaction count, and the coinbase transaction.
	genesisBlockHex = genesisHeaderHex + "01" + genesisCoinbaseTxHex
)

// mustParseHash parses a hash string that is known to be valid.
func mustParseHash(t *testing.T, hashStr string) *chainhash.Hash {
	t.Helper()

	hash, err := chainhash.NewHashFromStr(hashStr)
	require.NoError(t, err)
	return hash
}

// TestGetBestBlockHash ensures the hash string form round-trips exactly.
func TestGetBestBlockHash(t *testing.T) {
	t.Parallel()

	client, mock := newMockClient(`"` + genesisHashStr + `"`)

	hash, err := client.GetBestBlockHash()
	require.NoError(t, err)
	require.Equal(t, genesisHashStr, hash.String())

	req := lastRequest(t, mock)
	require.Equal(t, "getbestblockhash", req.Method)
	require.Empty(t, req.Params)
}

// TestGetBestBlockHashInvalid ensures malformed hash strings surface a hash
// parse error.
func TestGetBestBlockHashInvalid(t *testing.T) {
	t.Parallel()

	client, _ := newMockClient(`"` + strings.Repeat("zz", 32) + `"`)

	_, err := client.GetBestBlockHash()

	var hexErr *HexError
	require.ErrorAs(t, err, &hexErr)
}

// TestGetBestBlockHashNull ensures a null or empty result is rejected rather
// than being zero-padded into the all-zero hash.
func TestGetBestBlockHashNull(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name   string
		result string
	}{
		{name: "null result", result: "null"},
		{name: "empty string", result: `""`},
	}

	for _, tc := range testCases {
		tc := tc

		t.Run(tc.name, func(t *testing.T) {
			client, _ := newMockClient(tc.result)

			hash, err := client.GetBestBlockHash()
			require.Nil(t, hash)

			var invalidResponseErr *InvalidResponseError
			require.ErrorAs(t, err, &invalidResponseErr)
			require.Equal(t, "getbestblockhash",
				invalidResponseErr.Method)
		})
	}
}

// TestGetBlock ensures a raw block response is consensus-decoded and that the
// decoded block hashes back to the requested hash.
func TestGetBlock(t *testing.T) {
	t.Parallel()

	client, mock := newMockClient(`"` + genesisBlockHex + `"`)

	genesisHash := mustParseHash(t, genesisHashStr)

	block, err := client.GetBlock(genesisHash)
	require.NoError(t, err)

	// Hashing the decoded block must yield the hash it was requested by.
	blockHash := block.BlockHash()
	if blockHash.String() != genesisHash.String() {
		t.Fatalf("block hash mismatch - got %v, want %v",
			spew.Sdump(blockHash), spew.Sdump(genesisHash))
	}
	require.Len(t, block.Transactions, 1)

	req := lastRequest(t, mock)
	require.Equal(t, "getblock", req.Method)
	require.Len(t, req.Params, 2)
	require.JSONEq(t, `"`+genesisHashStr+`"`, string(req.Params[0]))
	require.JSONEq(t, `0`, string(req.Params[1]))
}

// TestGetBlockRoundTrip exercises the genesis round trip: the hash obtained
// from getblockhash 0, fed to getblock, decodes to a block whose own hash is
// the same value.
func TestGetBlockRoundTrip(t *testing.T) {
	t.Parallel()

	hashClient, _ := newMockClient(`"` + genesisHashStr + `"`)
	genesisHash, err := hashClient.GetBlockHash(0)
	require.NoError(t, err)

	blockClient, _ := newMockClient(`"` + genesisBlockHex + `"`)
	block, err := blockClient.GetBlock(genesisHash)
	require.NoError(t, err)

	blockHash := block.BlockHash()
	require.Equal(t, genesisHash.String(), blockHash.String())
}

// TestGetBlockInvalidHex ensures invalid hex fails with the hex decode error
// class rather than an invalid response error or a panic.
func TestGetBlockInvalidHex(t *testing.T) {
	t.Parallel()

	client, _ := newMockClient(`"notvalidhex"`)

	hash := mustParseHash(t, genesisHashStr)

	_, err := client.GetBlock(hash)

	var hexErr *HexError
	require.ErrorAs(t, err, &hexErr)
	require.Equal(t, "notvalidhex", hexErr.Value)

	var invalidResponseErr *InvalidResponseError
	require.False(t, errors.As(err, &invalidResponseErr))
}

// TestGetBlockUndecodable ensures valid hex that is not a valid block fails
// with an invalid response error.
func TestGetBlockUndecodable(t *testing.T) {
	t.Parallel()

	client, _ := newMockClient(`"deadbeef"`)

	hash := mustParseHash(t, genesisHashStr)

	_, err := client.GetBlock(hash)

	var invalidResponseErr *InvalidResponseError
	require.ErrorAs(t, err, &invalidResponseErr)
	require.Equal(t, "getblock", invalidResponseErr.Method)
}

// TestGetBlockVerbose checks the verbose variant returns the structured
// result and requests verbosity 1.
func TestGetBlockVerbose(t *testing.T) {
	t.Parallel()

	client, mock := newMockClient(`{"hash":"` + genesisHashStr +
		`","height":0,"confirmations":1}`)

	hash := mustParseHash(t, genesisHashStr)

	res, err := client.GetBlockVerbose(hash)
	require.NoError(t, err)
	require.Equal(t, genesisHashStr, res.Hash)
	require.Equal(t, int64(0), res.Height)

	req := lastRequest(t, mock)
	require.Equal(t, "getblock", req.Method)
	require.Len(t, req.Params, 2)
	require.JSONEq(t, `1`, string(req.Params[1]))
}

// TestGetBlockCount checks numeric result unwrapping.
func TestGetBlockCount(t *testing.T) {
	t.Parallel()

	client, mock := newMockClient("769261")

	count, err := client.GetBlockCount()
	require.NoError(t, err)
	require.Equal(t, int64(769261), count)

	req := lastRequest(t, mock)
	require.Equal(t, "getblockcount", req.Method)
}

// TestGetBlockHashShapes ensures getblockhash tolerates both the documented
// bare string response and the non-standard object-with-hash-field shape,
// producing the identical hash, and rejects everything else.
func TestGetBlockHashShapes(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name       string
		result     string
		expHash    string
		expInvalid bool
		expHexErr  bool
	}{
		{
			name:    "bare string",
			result:  `"` + block1HashStr + `"`,
			expHash: block1HashStr,
		},
		{
			name:    "object with hash field",
			result:  `{"hash":"` + block1HashStr + `"}`,
			expHash: block1HashStr,
		},
		{
			name:       "object missing hash field",
			result:     `{"height":1}`,
			expInvalid: true,
		},
		{
			name:       "object with non-string hash",
			result:     `{"hash":1}`,
			expInvalid: true,
		},
		{
			name:       "number",
			result:     `1`,
			expInvalid: true,
		},
		{
			name:       "array",
			result:     `["` + block1HashStr + `"]`,
			expInvalid: true,
		},
		{
			name:      "string that is not a hash",
			result:    `"not-a-hash"`,
			expHexErr: true,
		},
		{
			name:       "null",
			result:     `null`,
			expInvalid: true,
		},
		{
			name:       "empty string",
			result:     `""`,
			expInvalid: true,
		},
		{
			name:       "object with empty hash",
			result:     `{"hash":""}`,
			expInvalid: true,
		},
	}

	for _, tc := range testCases {
		tc := tc

		t.Run(tc.name, func(t *testing.T) {
			client, mock := newMockClient(tc.result)

			hash, err := client.GetBlockHash(1)
			switch {
			case tc.expInvalid:
				var invalidResponseErr *InvalidResponseError
				require.ErrorAs(t, err, &invalidResponseErr)
				return

			case tc.expHexErr:
				var hexErr *HexError
				require.ErrorAs(t, err, &hexErr)
				return
			}

			require.NoError(t, err)
			require.Equal(t, tc.expHash, hash.String())

			req := lastRequest(t, mock)
			require.Equal(t, "getblockhash", req.Method)
			require.Len(t, req.Params, 1)
			require.JSONEq(t, `1`, string(req.Params[0]))
		})
	}
}

// TestGetBlockHashBothShapesAgree ensures the two tolerated shapes produce
// the identical parsed hash.
func TestGetBlockHashBothShapesAgree(t *testing.T) {
	t.Parallel()

	bareClient, _ := newMockClient(`"` + block1HashStr + `"`)
	bareHash, err := bareClient.GetBlockHash(1)
	require.NoError(t, err)

	objClient, _ := newMockClient(`{"hash":"` + block1HashStr + `"}`)
	objHash, err := objClient.GetBlockHash(1)
	require.NoError(t, err)

	require.Equal(t, *bareHash, *objHash)
}

// TestGetBlockFilter checks the structured filter result passthrough.
func TestGetBlockFilter(t *testing.T) {
	t.Parallel()

	client, mock := newMockClient(`{"filter":"019dfca8","header":"` +
		strings.Repeat("11", 32) + `"}`)

	hash := mustParseHash(t, genesisHashStr)

	res, err := client.GetBlockFilter(hash)
	require.NoError(t, err)
	require.Equal(t, "019dfca8", res.Filter)

	req := lastRequest(t, mock)
	require.Equal(t, "getblockfilter", req.Method)
	require.Len(t, req.Params, 1)
	require.JSONEq(t, `"`+genesisHashStr+`"`, string(req.Params[0]))
}

// TestGetBlockHeader ensures a raw header response is consensus-decoded and
// hashes back to the requested block hash, and that verbose mode is requested
// with verbose=false.
func TestGetBlockHeader(t *testing.T) {
	t.Parallel()

	client, mock := newMockClient(`"` + genesisHeaderHex + `"`)

	hash := mustParseHash(t, genesisHashStr)

	header, err := client.GetBlockHeader(hash)
	require.NoError(t, err)

	headerHash := header.BlockHash()
	require.Equal(t, genesisHashStr, headerHash.String())
	require.Equal(t, int32(1), header.Version)

	req := lastRequest(t, mock)
	require.Equal(t, "getblockheader", req.Method)
	require.Len(t, req.Params, 2)
	require.JSONEq(t, `false`, string(req.Params[1]))
}

// TestGetBlockHeaderErrors covers the header decode failure taxonomy.
func TestGetBlockHeaderErrors(t *testing.T) {
	t.Parallel()

	hash := mustParseHash(t, genesisHashStr)

	t.Run("invalid hex", func(t *testing.T) {
		client, _ := newMockClient(`"xx"`)

		_, err := client.GetBlockHeader(hash)

		var hexErr *HexError
		require.ErrorAs(t, err, &hexErr)
	})

	t.Run("truncated header", func(t *testing.T) {
		client, _ := newMockClient(`"0100"`)

		_, err := client.GetBlockHeader(hash)

		var invalidResponseErr *InvalidResponseError
		require.ErrorAs(t, err, &invalidResponseErr)
		require.Equal(t, "getblockheader", invalidResponseErr.Method)
	})
}

// TestGetBlockHeaderVerbose checks the verbose header passthrough.
func TestGetBlockHeaderVerbose(t *testing.T) {
	t.Parallel()

	client, mock := newMockClient(`{"hash":"` + genesisHashStr +
		`","height":0,"version":1}`)

	hash := mustParseHash(t, genesisHashStr)

	res, err := client.GetBlockHeaderVerbose(hash)
	require.NoError(t, err)
	require.Equal(t, genesisHashStr, res.Hash)
	require.Equal(t, int32(0), res.Height)

	req := lastRequest(t, mock)
	require.Equal(t, "getblockheader", req.Method)
	require.JSONEq(t, `true`, string(req.Params[1]))
}

// TestGetBlockChainInfo checks the chain info passthrough.
func TestGetBlockChainInfo(t *testing.T) {
	t.Parallel()

	client, mock := newMockClient(`{"chain":"main","blocks":769261,` +
		`"bestblockhash":"` + genesisHashStr + `"}`)

	res, err := client.GetBlockChainInfo()
	require.NoError(t, err)
	require.Equal(t, "main", res.Chain)
	require.Equal(t, int32(769261), res.Blocks)

	req := lastRequest(t, mock)
	require.Equal(t, "getblockchaininfo", req.Method)
}

// TestGetDifficulty checks the numeric passthrough.
func TestGetDifficulty(t *testing.T) {
	t.Parallel()

	client, _ := newMockClient("35364065900457.91")

	difficulty, err := client.GetDifficulty()
	require.NoError(t, err)
	require.InDelta(t, 35364065900457.91, difficulty, 0.01)
}

// TestGetRawMempool ensures the mempool list is unwrapped into parsed hashes.
func TestGetRawMempool(t *testing.T) {
	t.Parallel()

	client, mock := newMockClient(`["` + genesisCoinbaseTxHashStr + `","` +
		block1HashStr + `"]`)

	hashes, err := client.GetRawMempool()
	require.NoError(t, err)
	require.Len(t, hashes, 2)
	require.Equal(t, genesisCoinbaseTxHashStr, hashes[0].String())
	require.Equal(t, block1HashStr, hashes[1].String())

	req := lastRequest(t, mock)
	require.Equal(t, "getrawmempool", req.Method)
	require.Empty(t, req.Params)
}

// TestGetRawMempoolEmpty ensures an empty mempool is an empty slice, not an
// error.
func TestGetRawMempoolEmpty(t *testing.T) {
	t.Parallel()

	client, _ := newMockClient(`[]`)

	hashes, err := client.GetRawMempool()
	require.NoError(t, err)
	require.Empty(t, hashes)
}

// TestGetRawMempoolNull ensures a null result is rejected rather than being
// treated as an empty mempool.
func TestGetRawMempoolNull(t *testing.T) {
	t.Parallel()

	client, _ := newMockClient(`null`)

	hashes, err := client.GetRawMempool()
	require.Nil(t, hashes)

	var invalidResponseErr *InvalidResponseError
	require.ErrorAs(t, err, &invalidResponseErr)
	require.Equal(t, "getrawmempool", invalidResponseErr.Method)
}

// TestGetRawMempoolInvalidEntry ensures a malformed txid in the list fails
// with a hash parse error.
func TestGetRawMempoolInvalidEntry(t *testing.T) {
	t.Parallel()

	client, _ := newMockClient(`["` + genesisCoinbaseTxHashStr + `","bad"]`)

	_, err := client.GetRawMempool()

	var hexErr *HexError
	require.ErrorAs(t, err, &hexErr)
	require.Equal(t, "bad", hexErr.Value)
}

// TestGetRawMempoolVerbose checks the verbose mempool passthrough.
func TestGetRawMempoolVerbose(t *testing.T) {
	t.Parallel()

	client, mock := newMockClient(`{"` + genesisCoinbaseTxHashStr +
		`":{"size":226,"time":1656046470,"depends":[]}}`)

	entries, err := client.GetRawMempoolVerbose()
	require.NoError(t, err)
	require.Len(t, entries, 1)

	entry, ok := entries[genesisCoinbaseTxHashStr]
	require.True(t, ok)
	require.Equal(t, int32(226), entry.Size)

	req := lastRequest(t, mock)
	require.Equal(t, "getrawmempool", req.Method)
	require.Len(t, req.Params, 1)
	require.JSONEq(t, `true`, string(req.Params[0]))
}

// TestGetRawTransaction ensures a raw transaction response is
// consensus-decoded and hashes back to its txid.
func TestGetRawTransaction(t *testing.T) {
	t.Parallel()

	client, mock := newMockClient(`"` + genesisCoinbaseTxHex + `"`)

	txHash := mustParseHash(t, genesisCoinbaseTxHashStr)

	tx, err := client.GetRawTransaction(txHash)
	require.NoError(t, err)

	gotHash := tx.TxHash()
	if gotHash.String() != genesisCoinbaseTxHashStr {
		t.Fatalf("transaction hash mismatch - got %v, want %v",
			spew.Sdump(gotHash), genesisCoinbaseTxHashStr)
	}
	require.Len(t, tx.TxIn, 1)
	require.Len(t, tx.TxOut, 1)

	req := lastRequest(t, mock)
	require.Equal(t, "getrawtransaction", req.Method)
	require.Len(t, req.Params, 1)
	require.JSONEq(t, `"`+genesisCoinbaseTxHashStr+`"`,
		string(req.Params[0]))
}

// TestGetRawTransactionErrors covers the transaction decode failure taxonomy.
func TestGetRawTransactionErrors(t *testing.T) {
	t.Parallel()

	txHash := mustParseHash(t, genesisCoinbaseTxHashStr)

	t.Run("invalid hex", func(t *testing.T) {
		client, _ := newMockClient(`"qq"`)

		_, err := client.GetRawTransaction(txHash)

		var hexErr *HexError
		require.ErrorAs(t, err, &hexErr)
	})

	t.Run("undecodable bytes", func(t *testing.T) {
		client, _ := newMockClient(`"00"`)

		_, err := client.GetRawTransaction(txHash)

		var invalidResponseErr *InvalidResponseError
		require.ErrorAs(t, err, &invalidResponseErr)
	})
}

// TestTypedMethodsSurfaceRPCErrors ensures a server-side JSON-RPC error is
// returned as a *btcjson.RPCError by the typed wrappers, never a default
// value.
func TestTypedMethodsSurfaceRPCErrors(t *testing.T) {
	t.Parallel()

	client := newMockErrorClient(-5, "Block not found")

	hash := mustParseHash(t, genesisHashStr)

	calls := []struct {
		name string
		call func() error
	}{
		{"getbestblockhash", func() error {
			_, err := client.GetBestBlockHash()
			return err
		}},
		{"getblock", func() error {
			_, err := client.GetBlock(hash)
			return err
		}},
		{"getblockverbose", func() error {
			_, err := client.GetBlockVerbose(hash)
			return err
		}},
		{"getblockcount", func() error {
			_, err := client.GetBlockCount()
			return err
		}},
		{"getblockhash", func() error {
			_, err := client.GetBlockHash(0)
			return err
		}},
		{"getblockfilter", func() error {
			_, err := client.GetBlockFilter(hash)
			return err
		}},
		{"getblockheader", func() error {
			_, err := client.GetBlockHeader(hash)
			return err
		}},
		{"getrawmempool", func() error {
			_, err := client.GetRawMempool()
			return err
		}},
		{"getrawtransaction", func() error {
			_, err := client.GetRawTransaction(hash)
			return err
		}},
	}

	for _, tc := range calls {
		tc := tc

		t.Run(tc.name, func(t *testing.T) {
			err := tc.call()

			var rpcErr *btcjson.RPCError
			require.ErrorAs(t, err, &rpcErr)
			require.Equal(t, btcjson.RPCErrorCode(-5), rpcErr.Code)
		})
	}
}
