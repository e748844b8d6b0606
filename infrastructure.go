// Copyright (c) 2014-2017 The btcsuite developers
// Copyright (c) 2026 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package corerpc

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/btcsuite/btcd/btcjson"
)

// Client represents a Bitcoin Core RPC client which allows easy access to the
// various chain RPCs available on the server.  It owns exactly one transport
// and holds no other state: there is no reconnection, pooling, caching, or
// retry logic, and every call blocks until the server responds or the
// transport times out.
type Client struct {
	// id is the next request id to use, accessed atomically.
	id uint64

	transport Transport
}

// New returns a client connected to the RPC server at url, resolving auth
// into HTTP basic auth credentials for a POST mode transport with the default
// 60-second timeout.
//
// Authentication is mandatory on this path: AuthNone is rejected with
// ErrMissingAuthentication before any transport setup.  Cookie resolution
// failures satisfy errors.Is(err, ErrInvalidCookieFile), and a URL the
// transport cannot use is reported as an *InvalidResponseError.  Callers that
// need an unauthenticated connection or custom transport behavior should use
// NewWithTransport.
func New(url string, auth Auth) (*Client, error) {
	if auth.kind == authNone {
		return nil, ErrMissingAuthentication
	}

	// Resolve eagerly even though cookie credentials are re-read per
	// request below, so a missing or malformed cookie file fails the
	// construction call rather than the first RPC.
	username, password, err := auth.ResolveUserPass()
	if err != nil {
		return nil, err
	}

	cfg := &HTTPTransportConfig{
		URL:     url,
		User:    username,
		Pass:    password,
		Timeout: defaultTimeout,
	}
	if auth.kind == authCookieFile {
		cfg.User, cfg.Pass = "", ""
		cfg.CookiePath = auth.cookiePath
	}

	transport, err := NewHTTPTransport(cfg)
	if err != nil {
		return nil, &InvalidResponseError{
			Description: fmt.Sprintf("invalid URL %q", url),
			Err:         err,
		}
	}

	return NewWithTransport(transport), nil
}

// NewWithTransport returns a client that issues its requests through the
// given caller-configured transport.  It never fails and performs no auth
// resolution of its own.
func NewWithTransport(transport Transport) *Client {
	return &Client{transport: transport}
}

// NextID returns the next id to be used when sending a JSON-RPC message.
// This ID allows responses to be associated with particular requests per the
// JSON-RPC specification.  Typically the consumer of the client does not need
// to call this function, however, if a custom request is being created and
// used this function should be used to ensure the ID is unique amongst all
// requests being made.
func (c *Client) NextID() uint64 {
	return atomic.AddUint64(&c.id, 1)
}

// Call invokes the RPC method with the given positional params and
// unmarshals the response's result field into result, which must be a
// pointer, or nil to discard the result.
//
// All transport and protocol knowledge lives here; the typed methods on
// Client are thin specializations that add only the method name, the
// argument shape, and a payload decode step.  Failures are surfaced as a
// *btcjson.RPCError when the server returned an error object, an
// encoding/json error when either envelope fails to marshal or unmarshal,
// and the transport's own error for network failures.
func (c *Client) Call(result interface{}, method string, params ...interface{}) error {
	req, err := btcjson.NewRequest(btcjson.RpcVersion1, c.NextID(), method,
		params)
	if err != nil {
		return err
	}

	marshalledRequest, err := json.Marshal(req)
	if err != nil {
		return err
	}

	log.Tracef("Sending %s command (id %v)", method, req.ID)
	respBytes, err := c.transport.SendRequest(marshalledRequest)
	if err != nil {
		return err
	}

	var resp btcjson.Response
	if err := json.Unmarshal(respBytes, &resp); err != nil {
		return err
	}
	if resp.Error != nil {
		return resp.Error
	}

	if result == nil {
		return nil
	}
	return json.Unmarshal(resp.Result, result)
}

// RawRequest allows the caller to send a raw or custom request to the server.
// This method may be used to send and receive requests and responses for
// requests that are not handled by this package, or to proxy partially
// unmarshalled requests to another JSON-RPC server if a request cannot be
// handled directly.
func (c *Client) RawRequest(method string, params []json.RawMessage) (json.RawMessage, error) {
	// Method may not be empty.
	if method == "" {
		return nil, errors.New("no method")
	}

	// Marshal parameters as "[]" instead of "null" when no parameters
	// are passed.
	if params == nil {
		params = []json.RawMessage{}
	}

	req := &btcjson.Request{
		Jsonrpc: btcjson.RpcVersion1,
		ID:      c.NextID(),
		Method:  method,
		Params:  params,
	}
	marshalledRequest, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	log.Tracef("Sending %s command (id %v)", method, req.ID)
	respBytes, err := c.transport.SendRequest(marshalledRequest)
	if err != nil {
		return nil, err
	}

	var resp btcjson.Response
	if err := json.Unmarshal(respBytes, &resp); err != nil {
		return nil, err
	}
	if resp.Error != nil {
		return nil, resp.Error
	}

	return resp.Result, nil
}
