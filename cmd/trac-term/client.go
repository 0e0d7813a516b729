/*
Copyright © 2024 paul <paul@denknerd.org>
*/

package main

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/phuslu/log"
	"github.com/toothbrush/trac-term/trac"
	"gopkg.in/dnaeon/go-vcr.v3/cassette"
	"gopkg.in/dnaeon/go-vcr.v3/recorder"
)

func newLogger() *log.Logger {
	level := log.InfoLevel
	if Debug {
		level = log.DebugLevel
	}
	return &log.Logger{
		Level:  level,
		Writer: &log.ConsoleWriter{
			Writer:      os.Stderr,
			ColorOutput: !NoColor,
		},
	}
}

// client holds the HTTP plumbing shared by every API built during one invocation.
type client struct {
	logger    *log.Logger
	transport http.RoundTripper
	recorder  *recorder.Recorder
}

func newClient() (*client, error) {
	c := &client{logger: newLogger(), transport: http.DefaultTransport}
	if !WithVCR {
		return c, nil
	}

	opts := &recorder.Options{
		CassetteName:       "fixtures/trac-term",
		Mode:               recorder.ModeReplayWithNewEpisodes,
		SkipRequestLatency: true,
		RealTransport:      http.DefaultTransport,
	}
	r, err := recorder.NewWithOptions(opts)
	if err != nil {
		return nil, fmt.Errorf("cmd: couldn't set up go-vcr recording: %w", err)
	}

	// Add a hook which removes Authorization headers from all requests
	hook := func(i *cassette.Interaction) error {
		delete(i.Request.Headers, "Authorization")
		return nil
	}
	r.AddHook(hook, recorder.AfterCaptureHook)
	r.SetMatcher(matchBody)
	r.SetReplayableInteractions(true)

	c.recorder = r
	c.transport = r
	return c, nil
}

// Every XML-RPC call is a POST to the same URL, so only the body tells them apart.
func matchBody(r *http.Request, i cassette.Request) bool {
	if r.Method != i.Method || r.URL.String() != i.URL {
		return false
	}
	if r.Body == nil || r.Body == http.NoBody {
		return i.Body == ""
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		return false
	}
	r.Body = io.NopCloser(bytes.NewReader(body))
	return string(body) == i.Body
}

func (c *client) options() trac.Options {
	return trac.Options{Transport: c.transport, Logger: c.logger}
}

// open builds an API without touching the network.
func (c *client) open(profile trac.Profile) (*trac.API, error) {
	return trac.NewAPI(profile, c.options())
}

// connect builds an API and checks the server answers.
func (c *client) connect(profile trac.Profile) (*trac.API, error) {
	return trac.Connect(profile, c.options())
}

func (c *client) stop() {
	if c.recorder == nil {
		return
	}
	if err := c.recorder.Stop(); err != nil {
		c.logger.Warn().Err(err).Msg("couldn't save go-vcr cassette")
	}
}
