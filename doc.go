// Copyright (c) 2026 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

/*
Package corerpc implements a thin, synchronous client for Bitcoin Core's
JSON-RPC interface.

# Overview

The package intentionally stays small: it resolves authentication
credentials, marshals JSON-RPC requests, sends them over a transport, and
decodes typed results.  There is no connection pooling, no retry policy, no
caching, and no notification handling.  Every failure is returned to the
caller as a typed error value, so any retry or backoff policy belongs to the
caller.

Consensus structures (blocks, headers, transactions) are decoded with the
wire package from github.com/btcsuite/btcd, verbose results reuse the result
types from its btcjson package, and hashes are chainhash.Hash values.

# Authentication

Bitcoin Core supports username/password credentials configured via rpcuser
and rpcpassword, as well as ephemeral credentials written to a cookie file in
its data directory.  Both are expressed through the Auth type:

	client, err := corerpc.New("http://localhost:8332",
		corerpc.AuthUserPass("user", "pass"))

	client, err := corerpc.New("http://localhost:8332",
		corerpc.AuthCookieFile("/home/user/.bitcoin/.cookie"))

New rejects AuthNone with ErrMissingAuthentication.  Callers that really want
an unauthenticated connection, or that need full control over transport
details, build the transport themselves and use NewWithTransport:

	transport, err := corerpc.NewHTTPTransport(&corerpc.HTTPTransportConfig{
		URL: "http://localhost:8332",
	})
	if err != nil {
		// handle error
	}
	client := corerpc.NewWithTransport(transport)

# Errors

Errors are distinguishable with the standard errors package.  Construction
failures surface ErrMissingAuthentication or ErrInvalidCookieFile.  Server
side JSON-RPC errors are returned as *btcjson.RPCError.  Responses that do
not match the expected shape for a method produce *InvalidResponseError, and
hex or hash decoding failures on server-supplied data produce *HexError.
Envelope level JSON failures and transport failures are returned from the
encoding/json and net/http layers unchanged.
*/
package corerpc
