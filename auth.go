// Copyright (c) 2017 The Namecoin developers
// Copyright (c) 2026 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package corerpc

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// authKind identifies which credential variant an Auth value holds.
type authKind int

const (
	authNone authKind = iota
	authUserPass
	authCookieFile
)

// Auth describes the credentials used to authenticate to the RPC server.
// Values are immutable once constructed, comparable, and usable as map keys.
// The zero value is equivalent to AuthNone().
type Auth struct {
	kind       authKind
	user       string
	pass       string
	cookiePath string
}

// AuthNone returns an Auth carrying no credentials.  New rejects it with
// ErrMissingAuthentication; it exists for callers that build their own
// transport.
func AuthNone() Auth {
	return Auth{kind: authNone}
}

// AuthUserPass returns an Auth carrying a static username and password, as
// configured through bitcoind's rpcuser and rpcpassword options.
func AuthUserPass(user, pass string) Auth {
	return Auth{kind: authUserPass, user: user, pass: pass}
}

// AuthCookieFile returns an Auth that reads ephemeral credentials from the
// cookie file bitcoind writes to its data directory.
func AuthCookieFile(path string) Auth {
	return Auth{kind: authCookieFile, cookiePath: path}
}

// ResolveUserPass converts the Auth into the username and password a
// transport needs.  AuthNone resolves to two empty strings, AuthUserPass
// returns the configured values unchanged, and AuthCookieFile reads and
// parses the cookie file, which is the only variant that performs I/O.
// Cookie failures satisfy errors.Is(err, ErrInvalidCookieFile).
func (a Auth) ResolveUserPass() (username, password string, err error) {
	switch a.kind {
	case authNone:
		return "", "", nil
	case authUserPass:
		return a.user, a.pass, nil
	case authCookieFile:
		return readCookieFile(a.cookiePath)
	default:
		return "", "", fmt.Errorf("unknown auth kind %d", a.kind)
	}
}

// readCookieFile reads the first line of the file at path and splits it at
// the first colon into a username and password.  The password may itself
// contain colons.
func readCookieFile(path string) (username, password string, err error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", "", fmt.Errorf("%w: %w", ErrInvalidCookieFile, err)
	}

	line, _, _ := strings.Cut(string(b), "\n")
	parts := strings.SplitN(strings.TrimSpace(line), ":", 2)
	if len(parts) != 2 {
		return "", "", fmt.Errorf("%w: missing colon separator",
			ErrInvalidCookieFile)
	}

	return parts[0], parts[1], nil
}

// cookieRetriever returns a function that provides up to date credentials
// from the cookie file at path.  bitcoind rewrites the cookie on restart, so
// the returned function re-reads the file whenever its modification time
// changes, checking at most once every 30 seconds.
func cookieRetriever(path string) func() (username, password string, err error) {
	lastCheckTime := time.Time{}
	lastModTime := time.Time{}

	curUsername, curPassword := "", ""
	var curError error

	doUpdate := func() {
		if !lastCheckTime.IsZero() && time.Now().Before(lastCheckTime.Add(30*time.Second)) {
			return
		}

		lastCheckTime = time.Now()

		st, err := os.Stat(path)
		if err != nil {
			curError = fmt.Errorf("%w: %w", ErrInvalidCookieFile, err)
			return
		}

		modTime := st.ModTime()
		if !modTime.Equal(lastModTime) {
			lastModTime = modTime
			curUsername, curPassword, curError = readCookieFile(path)
		}
	}

	return func() (username, password string, err error) {
		doUpdate()
		return curUsername, curPassword, curError
	}
}
