package trac

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/phuslu/log"
)

// Caller performs one XML-RPC call and returns the decoded, untyped result: strings, bools,
// integers, floats, time.Time, []byte, []any and map[string]any.  Faults come back as *RemoteFault.
type Caller interface {
	Call(method string, args []any) (any, error)
}

type API struct {
	Profile Profile

	// The XML-RPC endpoint, with Basic credentials if the profile has any.
	RPCURL *url.URL

	// An HTTP client - you can substitute VCR or whatnot.  Its transport carries the auth mode.
	Client *http.Client

	// Replaces the HTTP round trip entirely when set; tests use this.
	Caller Caller

	Logger *log.Logger

	creds Credentials
}

type Options struct {
	// Base transport below the auth layer; http.DefaultTransport when nil.
	Transport http.RoundTripper
	Timeout   time.Duration
	Logger    *log.Logger
}

func NewAPI(profile Profile, opts Options) (*API, error) {
	profile = profile.Normalised()

	if err := profile.Validate(); err != nil {
		return nil, &ConnectionError{URL: profile.Host, Err: err}
	}

	creds, err := profile.Credentials()
	if err != nil {
		return nil, &ConnectionError{URL: profile.Host, Err: err}
	}

	u, err := profile.RPCURL()
	if err != nil {
		return nil, &ConnectionError{URL: profile.Host, Err: err}
	}

	timeout := opts.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	logger := opts.Logger
	if logger == nil {
		logger = &log.Logger{Level: log.InfoLevel, Writer: &log.IOWriter{Writer: io.Discard}}
	}

	return &API{
		Profile: profile,
		RPCURL:  u,
		Client: &http.Client{
			Transport: newTransport(creds, opts.Transport),
			Timeout:   timeout,
		},
		Logger: logger,
		creds:  creds,
	}, nil
}

// Connect builds the API and checks that the endpoint answers.
func Connect(profile Profile, opts Options) (*API, error) {
	api, err := NewAPI(profile, opts)
	if err != nil {
		return nil, err
	}

	if _, err := api.APIVersion(); err != nil {
		return nil, fmt.Errorf("trac: couldn't connect to %s: %w", api.Profile.Name, err)
	}

	return api, nil
}

// AuthMode reports which authentication the API was built for.
func (api *API) AuthMode() AuthMode {
	return api.creds.Mode
}

// APIVersion returns the RPC plugin's [epoch, major, minor].
func (api *API) APIVersion() ([]int, error) {
	reply, err := api.call("system.getAPIVersion")
	if err != nil {
		return nil, err
	}
	return decodeInts(reply), nil
}
