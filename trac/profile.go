package trac

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Profile identifies one remote Trac instance.  The shape of Auth selects the authentication mode:
// empty for anonymous, "user:pass" for Basic and "user:pass:realm" for Digest.
type Profile struct {
	Name    string `yaml:"-"`
	Scheme  string `yaml:"scheme" validate:"required,oneof=http https"`
	Host    string `yaml:"server" validate:"required"`
	RPCPath string `yaml:"rpc-path"`
	Auth    string `yaml:"auth"`
}

type AuthMode int

const (
	AuthNone AuthMode = iota
	AuthBasic
	AuthDigest
)

func (m AuthMode) String() string {
	switch m {
	case AuthBasic:
		return "basic"
	case AuthDigest:
		return "digest"
	default:
		return "none"
	}
}

// Credentials is the parsed form of Profile.Auth.
type Credentials struct {
	Mode     AuthMode
	Username string
	Password string
	Realm    string
}

var validate = validator.New()

// Normalised fills in the defaults the way the Trac XML-RPC plugin is usually deployed.
func (p Profile) Normalised() Profile {
	if p.Scheme == "" {
		p.Scheme = "http"
	}
	p.Scheme = strings.ToLower(p.Scheme)
	p.Host = strings.TrimRight(p.Host, "/")
	if p.RPCPath == "" {
		p.RPCPath = "/login/rpc"
	}
	if !strings.HasPrefix(p.RPCPath, "/") {
		p.RPCPath = "/" + p.RPCPath
	}
	return p
}

func (p Profile) Validate() error {
	if err := validate.Struct(p); err != nil {
		return &ValidationError{Msg: fmt.Sprintf("profile %q: %v", p.Name, err)}
	}
	if _, err := p.Credentials(); err != nil {
		return err
	}
	return nil
}

func (p Profile) Credentials() (Credentials, error) {
	if p.Auth == "" {
		return Credentials{Mode: AuthNone}, nil
	}

	parts := strings.Split(p.Auth, ":")
	switch len(parts) {
	case 2:
		return Credentials{Mode: AuthBasic, Username: parts[0], Password: parts[1]}, nil
	case 3:
		return Credentials{Mode: AuthDigest, Username: parts[0], Password: parts[1], Realm: parts[2]}, nil
	}

	return Credentials{}, &ValidationError{Msg: fmt.Sprintf("profile %q: auth must be user:pass or user:pass:realm", p.Name)}
}

// User returns the login name, if any.
func (p Profile) User() string {
	return strings.Split(p.Auth, ":")[0]
}

// BaseURL is the web root of the instance, without credentials.  Host may carry a path prefix,
// e.g. "example.org/trac".
func (p Profile) BaseURL() (*url.URL, error) {
	u, err := url.ParseRequestURI(fmt.Sprintf("%s://%s", p.Scheme, p.Host))
	if err != nil {
		return nil, fmt.Errorf("trac: couldn't parse base URL: %w", err)
	}
	return u, nil
}

// WebURL resolves a path below the web root, e.g. "/timeline".
func (p Profile) WebURL(path string) (*url.URL, error) {
	u, err := url.ParseRequestURI(fmt.Sprintf("%s://%s%s", p.Scheme, p.Host, path))
	if err != nil {
		return nil, fmt.Errorf("trac: couldn't parse URL for %s: %w", path, err)
	}
	return u, nil
}

// RPCURL is the XML-RPC endpoint.  Basic credentials travel as URL user info.
func (p Profile) RPCURL() (*url.URL, error) {
	u, err := p.WebURL(p.RPCPath)
	if err != nil {
		return nil, err
	}

	creds, err := p.Credentials()
	if err != nil {
		return nil, err
	}
	if creds.Mode == AuthBasic {
		u.User = url.UserPassword(creds.Username, creds.Password)
	}

	return u, nil
}
