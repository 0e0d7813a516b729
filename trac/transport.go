package trac

import (
	"fmt"
	"net/http"
	"regexp"

	"github.com/icholy/digest"
)

// newTransport picks the round tripper for the profile's authentication mode.  Anonymous and Basic
// go straight to the base transport (Basic rides in the URL), Digest answers the server's challenge
// on every request.
func newTransport(creds Credentials, base http.RoundTripper) http.RoundTripper {
	if base == nil {
		base = http.DefaultTransport
	}

	if creds.Mode == AuthDigest {
		return &digest.Transport{
			Username:  creds.Username,
			Password:  creds.Password,
			Transport: &realmGuard{realm: creds.Realm, next: base},
		}
	}

	return base
}

// realmGuard fails the request when the Digest challenge names a realm other than the configured one.
type realmGuard struct {
	realm string
	next  http.RoundTripper
}

var realmRx = regexp.MustCompile(`realm="([^"]*)"`)

func (g *realmGuard) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := g.next.RoundTrip(req)
	if err != nil || resp.StatusCode != http.StatusUnauthorized || g.realm == "" {
		return resp, err
	}

	m := realmRx.FindStringSubmatch(resp.Header.Get("WWW-Authenticate"))
	if m != nil && m[1] != g.realm {
		resp.Body.Close()
		return nil, fmt.Errorf("trac: server asked for realm %q, profile is configured for %q", m[1], g.realm)
	}

	return resp, nil
}
