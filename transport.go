// Copyright (c) 2026 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package corerpc

import (
	"bytes"
	"crypto/tls"
	"crypto/x509"
	"encoding/base64"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/btcsuite/go-socks/socks"
	"github.com/gorilla/websocket"
)

const (
	// defaultTimeout is the connect/response timeout applied to transports
	// built by New when the caller does not specify one.
	defaultTimeout = 60 * time.Second
)

// Transport sends a single marshalled JSON-RPC request to the server and
// returns the raw bytes of its response.  Implementations do not interpret
// either payload; framing belongs to the client.
//
// A Transport is only safe for concurrent use to the extent its
// implementation is.  HTTPTransport may be used from multiple goroutines;
// WebsocketTransport serializes requests internally.
type Transport interface {
	SendRequest(marshalledRequest []byte) ([]byte, error)
}

// HTTPTransportConfig describes the connection parameters for an
// HTTPTransport.
type HTTPTransportConfig struct {
	// URL is the full URL of the RPC server, e.g. http://localhost:8332.
	// The https scheme enables TLS.
	URL string

	// User and Pass are the credentials sent via HTTP basic auth.  They
	// are ignored when CookiePath is set.
	User string
	Pass string

	// CookiePath is the path to a bitcoind cookie file.  When set,
	// credentials are read from the file and refreshed whenever bitcoind
	// rewrites it.
	CookiePath string

	// Certificates is an optional PEM-encoded certificate chain used as
	// the root CA set for TLS connections.
	Certificates []byte

	// TLSSkipVerify disables TLS certificate verification.  It should only
	// be used for testing against servers with self-signed certificates.
	TLSSkipVerify bool

	// Proxy specifies an optional SOCKS5 proxy to connect through, e.g.
	// 127.0.0.1:9050.  ProxyUser and ProxyPass authenticate to the proxy
	// when it requires credentials.
	Proxy     string
	ProxyUser string
	ProxyPass string

	// Timeout bounds the total time of each request/response exchange,
	// including connection setup.  Zero means defaultTimeout.
	Timeout time.Duration
}

// HTTPTransport sends each JSON-RPC request as an individual HTTP POST, which
// is the only mode Bitcoin Core supports.  It is safe for concurrent use.
type HTTPTransport struct {
	url     string
	getAuth func() (username, password string, err error)
	client  *http.Client
}

// Enforce that HTTPTransport satisfies the Transport interface.
var _ Transport = (*HTTPTransport)(nil)

// NewHTTPTransport returns an HTTP POST mode transport for the RPC server
// described by the config.
func NewHTTPTransport(cfg *HTTPTransportConfig) (*HTTPTransport, error) {
	u, err := url.Parse(cfg.URL)
	if err != nil {
		return nil, err
	}

	var tlsConfig *tls.Config
	switch u.Scheme {
	case "http":
	case "https":
		tlsConfig = &tls.Config{
			InsecureSkipVerify: cfg.TLSSkipVerify,
		}
		if len(cfg.Certificates) > 0 {
			pool := x509.NewCertPool()
			if !pool.AppendCertsFromPEM(cfg.Certificates) {
				return nil, fmt.Errorf("invalid certificate chain")
			}
			tlsConfig.RootCAs = pool
		}
	default:
		return nil, fmt.Errorf("unsupported protocol %q in URL %q",
			u.Scheme, cfg.URL)
	}

	// Connect via the SOCKS5 proxy when one is configured.
	var dial func(network, addr string) (net.Conn, error)
	if cfg.Proxy != "" {
		proxy := &socks.Proxy{
			Addr:     cfg.Proxy,
			Username: cfg.ProxyUser,
			Password: cfg.ProxyPass,
		}
		dial = proxy.Dial
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}

	getAuth := staticAuth(cfg.User, cfg.Pass)
	if cfg.CookiePath != "" {
		getAuth = cookieRetriever(cfg.CookiePath)
	}

	return &HTTPTransport{
		url:     u.String(),
		getAuth: getAuth,
		client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				Dial:            dial,
				TLSClientConfig: tlsConfig,
			},
		},
	}, nil
}

// staticAuth returns a credential function that always yields the given
// username and password.
func staticAuth(username, password string) func() (string, string, error) {
	return func() (string, string, error) {
		return username, password, nil
	}
}

// SendRequest posts the marshalled request to the server and returns the
// response body.  A non-2xx status with a non-empty body is returned as-is so
// the client can surface the JSON-RPC error object bitcoind includes with
// such statuses.
func (t *HTTPTransport) SendRequest(marshalledRequest []byte) ([]byte, error) {
	httpRequest, err := http.NewRequest(http.MethodPost, t.url,
		bytes.NewReader(marshalledRequest))
	if err != nil {
		return nil, err
	}
	httpRequest.Close = true
	httpRequest.Header.Set("Content-Type", "application/json")

	username, password, err := t.getAuth()
	if err != nil {
		return nil, err
	}
	if username != "" || password != "" {
		httpRequest.SetBasicAuth(username, password)
	}

	httpResponse, err := t.client.Do(httpRequest)
	if err != nil {
		return nil, err
	}
	defer httpResponse.Body.Close()

	body, err := io.ReadAll(httpResponse.Body)
	if err != nil {
		return nil, err
	}

	if httpResponse.StatusCode < 200 || httpResponse.StatusCode >= 300 {
		if len(bytes.TrimSpace(body)) == 0 {
			return nil, fmt.Errorf("status code %d (%s)",
				httpResponse.StatusCode,
				http.StatusText(httpResponse.StatusCode))
		}
	}

	return body, nil
}

// WebsocketTransportConfig describes the connection parameters for a
// WebsocketTransport.
type WebsocketTransportConfig struct {
	// URL is the full URL of the websocket endpoint, e.g.
	// wss://localhost:8334/ws.  Bitcoin Core does not serve websockets;
	// this transport targets btcd-style backends.
	URL string

	// User and Pass are the credentials sent via HTTP basic auth during
	// the websocket handshake.
	User string
	Pass string

	// Certificates is an optional PEM-encoded certificate chain used as
	// the root CA set for TLS connections.
	Certificates []byte

	// TLSSkipVerify disables TLS certificate verification.
	TLSSkipVerify bool

	// HandshakeTimeout bounds the websocket handshake.  Zero means
	// defaultTimeout.
	HandshakeTimeout time.Duration
}

// WebsocketTransport performs request/response exchanges over a single
// websocket connection.  Requests are serialized with a mutex, so each call
// blocks until the server answers the previous one.  It does not implement
// any notification handling; unsolicited messages from the server would
// corrupt the request/response pairing.
type WebsocketTransport struct {
	sendMtx sync.Mutex
	conn    *websocket.Conn
}

// Enforce that WebsocketTransport satisfies the Transport interface.
var _ Transport = (*WebsocketTransport)(nil)

// NewWebsocketTransport dials the websocket endpoint described by the config
// and returns a transport bound to the resulting connection.
func NewWebsocketTransport(cfg *WebsocketTransportConfig) (*WebsocketTransport, error) {
	u, err := url.Parse(cfg.URL)
	if err != nil {
		return nil, err
	}

	var tlsConfig *tls.Config
	switch u.Scheme {
	case "ws":
	case "wss":
		tlsConfig = &tls.Config{
			InsecureSkipVerify: cfg.TLSSkipVerify,
		}
		if len(cfg.Certificates) > 0 {
			pool := x509.NewCertPool()
			if !pool.AppendCertsFromPEM(cfg.Certificates) {
				return nil, fmt.Errorf("invalid certificate chain")
			}
			tlsConfig.RootCAs = pool
		}
	default:
		return nil, fmt.Errorf("unsupported protocol %q in URL %q",
			u.Scheme, cfg.URL)
	}

	timeout := cfg.HandshakeTimeout
	if timeout == 0 {
		timeout = defaultTimeout
	}
	dialer := websocket.Dialer{
		HandshakeTimeout: timeout,
		TLSClientConfig:  tlsConfig,
	}

	requestHeader := make(http.Header)
	if cfg.User != "" || cfg.Pass != "" {
		login := cfg.User + ":" + cfg.Pass
		auth := "Basic " + base64.StdEncoding.EncodeToString([]byte(login))
		requestHeader.Set("Authorization", auth)
	}

	conn, resp, err := dialer.Dial(u.String(), requestHeader)
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusUnauthorized {
			return nil, fmt.Errorf("authentication failure: %w", err)
		}
		return nil, err
	}

	return &WebsocketTransport{conn: conn}, nil
}

// SendRequest writes the marshalled request to the websocket connection and
// reads the next message as its response.
func (t *WebsocketTransport) SendRequest(marshalledRequest []byte) ([]byte, error) {
	t.sendMtx.Lock()
	defer t.sendMtx.Unlock()

	err := t.conn.WriteMessage(websocket.TextMessage, marshalledRequest)
	if err != nil {
		return nil, err
	}

	_, body, err := t.conn.ReadMessage()
	if err != nil {
		return nil, err
	}
	return body, nil
}

// Close closes the underlying websocket connection.
func (t *WebsocketTransport) Close() error {
	return t.conn.Close()
}
