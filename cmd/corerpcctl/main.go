// Copyright (c) 2013-2015 The btcsuite developers
// Copyright (c) 2026 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/btcsuite/corerpc"
)

const showHelpMessage = "Specify -h to show available options"

// usage displays the general usage when an invalid command line was
// specified.
func usage(errorMessage string) {
	appName := filepath.Base(os.Args[0])
	appName = strings.TrimSuffix(appName, filepath.Ext(appName))
	fmt.Fprintln(os.Stderr, errorMessage)
	fmt.Fprintln(os.Stderr, "Usage:")
	fmt.Fprintf(os.Stderr, "  %s [OPTIONS] <method> <args...>\n\n",
		appName)
	fmt.Fprintln(os.Stderr, showHelpMessage)
}

// marshalParam converts a single command line argument to the JSON value to
// place in the positional parameter list.  Valid JSON (numbers, booleans,
// nulls, objects, arrays, quoted strings) is passed through untouched;
// anything else is treated as a string.
func marshalParam(arg string) (json.RawMessage, error) {
	trimmed := strings.TrimSpace(arg)
	if json.Valid([]byte(trimmed)) {
		return json.RawMessage(trimmed), nil
	}
	return json.Marshal(arg)
}

// newClient builds a corerpc client from the loaded configuration.
func newClient(cfg *config) (*corerpc.Client, error) {
	scheme := "http"
	if cfg.TLS {
		scheme = "https"
	}
	url := fmt.Sprintf("%s://%s", scheme, cfg.RPCServer)

	var certs []byte
	if cfg.TLS && cfg.RPCCert != "" {
		var err error
		certs, err = os.ReadFile(cfg.RPCCert)
		if err != nil {
			return nil, fmt.Errorf("error reading RPC cert: %w", err)
		}
	}

	transportCfg := &corerpc.HTTPTransportConfig{
		URL:           url,
		Certificates:  certs,
		TLSSkipVerify: cfg.TLSSkipVerify,
		Proxy:         cfg.Proxy,
		ProxyUser:     cfg.ProxyUser,
		ProxyPass:     cfg.ProxyPass,
	}

	// Prefer explicit credentials; otherwise use the cookie file, which
	// loadConfig defaults to bitcoind's well-known location.
	auth := corerpc.AuthCookieFile(cfg.RPCCookie)
	if cfg.RPCUser != "" {
		auth = corerpc.AuthUserPass(cfg.RPCUser, cfg.RPCPassword)
	}

	username, password, err := auth.ResolveUserPass()
	if err != nil {
		return nil, err
	}
	transportCfg.User, transportCfg.Pass = username, password

	transport, err := corerpc.NewHTTPTransport(transportCfg)
	if err != nil {
		return nil, err
	}
	return corerpc.NewWithTransport(transport), nil
}

func main() {
	cfg, args, err := loadConfig()
	if err != nil {
		os.Exit(1)
	}

	if len(args) < 1 {
		usage("No method specified")
		os.Exit(1)
	}
	method := args[0]

	// Convert remaining command line args to a slice of raw JSON values to
	// be passed along as positional parameters.
	//
	// Since some methods, such as submitblock, can involve data which is
	// too large for the Operating System to allow as a normal command line
	// parameter, support using '-' as an argument to allow the argument
	// to be read from a stdin pipe.
	bio := bufio.NewReader(os.Stdin)
	params := make([]json.RawMessage, 0, len(args[1:]))
	for _, arg := range args[1:] {
		if arg == "-" {
			param, err := bio.ReadString('\n')
			if err != nil && err != io.EOF {
				fmt.Fprintf(os.Stderr, "Failed to read data "+
					"from stdin: %v\n", err)
				os.Exit(1)
			}
			if err == io.EOF && len(param) == 0 {
				fmt.Fprintln(os.Stderr, "Not enough lines "+
					"provided on stdin")
				os.Exit(1)
			}
			arg = strings.TrimRight(param, "\r\n")
		}

		param, err := marshalParam(arg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Invalid parameter %q: %v\n",
				arg, err)
			os.Exit(1)
		}
		params = append(params, param)
	}

	client, err := newClient(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	result, err := client.RawRequest(method, params)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	// Choose how to display the result based on its type.
	strResult := string(result)
	switch {
	case strings.HasPrefix(strResult, "{") || strings.HasPrefix(strResult, "["):
		var dst bytes.Buffer
		if err := json.Indent(&dst, result, "", "  "); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to format result: %v\n",
				err)
			os.Exit(1)
		}
		fmt.Println(dst.String())

	case strings.HasPrefix(strResult, `"`):
		var str string
		if err := json.Unmarshal(result, &str); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to unmarshal result: %v\n",
				err)
			os.Exit(1)
		}
		fmt.Println(str)

	case strResult != "null":
		fmt.Println(strResult)
	}
}

// semverAlphabet is an alphabet of all characters allowed in semver prerelease
// identifiers, and the . separator.
const semverAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz-."

// appMajor, appMinor, and appPatch define the application version number.
const (
	appMajor uint = 0
	appMinor uint = 1
	appPatch uint = 0
)

// appPreRelease should contain the prerelease name of the application.  It
// must only contain characters from the semantic version alphabet.
var appPreRelease = "beta"

// version returns the application version as a properly formed string per the
// semantic versioning 2.0.0 spec (http://semver.org/).
func version() string {
	version := fmt.Sprintf("%d.%d.%d", appMajor, appMinor, appPatch)

	if appPreRelease != "" {
		version = fmt.Sprintf("%s-%s", version,
			normalizeVerString(appPreRelease))
	}
	return version
}

// normalizeVerString returns the passed string stripped of all characters
// which are not valid according to the semantic versioning guidelines for
// prerelease and build metadata strings.
func normalizeVerString(str string) string {
	var result strings.Builder
	for _, r := range str {
		if strings.ContainsRune(semverAlphabet, r) {
			_, _ = result.WriteRune(r)
		}
	}
	return result.String()
}
