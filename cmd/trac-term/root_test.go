package main

import (
	"bytes"
	"io"
	"net/http"
	"runtime/debug"
	"strings"
	"testing"

	"github.com/phuslu/log"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/toothbrush/trac-term/session"
	"github.com/toothbrush/trac-term/trac"
	"gopkg.in/dnaeon/go-vcr.v3/cassette"
	"gopkg.in/yaml.v2"
)

const sampleConfig = `
server: main
ticket-style: summary
hide-trac-wiki: false
servers:
  main:
    scheme: https
    server: trac.example.org
    auth: alice:secret
  legacy:
    server: old.example.org
    rpc-path: xmlrpc
`

func TestConfigParses(t *testing.T) {
	var cfg YamlConfig
	require.NoError(t, yaml.UnmarshalStrict([]byte(sampleConfig), &cfg))

	assert.Equal(t, "main", cfg.Server)
	require.NotNil(t, cfg.HideTracWiki)
	assert.False(t, *cfg.HideTracWiki)
	assert.Equal(t, trac.Profile{Scheme: "https", Host: "trac.example.org", Auth: "alice:secret"}, cfg.Servers["main"])
	assert.Equal(t, "/xmlrpc", cfg.Servers["legacy"].Normalised().RPCPath)
}

func TestConfigRejectsUnknownKeys(t *testing.T) {
	var cfg YamlConfig
	err := yaml.UnmarshalStrict([]byte("colour: blue\n"), &cfg)
	assert.Error(t, err)
}

func TestBindFlags(t *testing.T) {
	var style, clause string
	var hide bool
	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().StringVar(&style, "ticket-style", "full", "")
	cmd.Flags().StringVar(&clause, "ticket-clause", "status!=closed", "")
	cmd.Flags().BoolVar(&hide, "hide-trac-wiki", true, "")
	require.NoError(t, cmd.Flags().Parse([]string{"--ticket-clause", "owner=me"}))

	var cfg YamlConfig
	require.NoError(t, yaml.UnmarshalStrict([]byte(sampleConfig+"ticket-clause: status=new\n"), &cfg))
	require.NoError(t, bindFlags(cmd, cfg))

	assert.Equal(t, "summary", style, "taken from the file")
	assert.Equal(t, "owner=me", clause, "the command line wins")
	assert.False(t, hide)
}

func TestPickServer(t *testing.T) {
	cfg := session.Config{Profiles: map[string]trac.Profile{
		"b": {Host: "b.test"},
		"a": {Host: "a.test"},
		"c": {Host: "c.test"},
	}}
	defer func() { Server, ParsedConfig = "", YamlConfig{} }()

	assert.Equal(t, "a", pickServer(cfg, ""))
	assert.Equal(t, "a", pickServer(cfg, "gone"))

	ParsedConfig.Server = "c"
	assert.Equal(t, "c", pickServer(cfg, ""))
	assert.Equal(t, "b", pickServer(cfg, "b"), "last used beats the configured default")

	Server = "c"
	assert.Equal(t, "c", pickServer(cfg, "b"), "--server beats everything")
}

func TestMatchBody(t *testing.T) {
	recorded := cassette.Request{Method: http.MethodPost, URL: "https://trac.test/login/rpc", Body: "<methodCall>a</methodCall>"}

	req, err := http.NewRequest(http.MethodPost, "https://trac.test/login/rpc", strings.NewReader("<methodCall>a</methodCall>"))
	require.NoError(t, err)
	assert.True(t, matchBody(req, recorded))

	body, err := io.ReadAll(req.Body)
	require.NoError(t, err)
	assert.Equal(t, "<methodCall>a</methodCall>", string(body), "body is still readable after matching")

	req, err = http.NewRequest(http.MethodPost, "https://trac.test/login/rpc", bytes.NewReader([]byte("<methodCall>b</methodCall>")))
	require.NoError(t, err)
	assert.False(t, matchBody(req, recorded))

	req, err = http.NewRequest(http.MethodGet, "https://trac.test/login/rpc", nil)
	require.NoError(t, err)
	assert.False(t, matchBody(req, recorded))
}

func TestTicketID(t *testing.T) {
	id, err := ticketID("#12")
	require.NoError(t, err)
	assert.Equal(t, 12, id)

	_, err = ticketID("twelve")
	assert.Error(t, err)
	_, err = ticketID("0")
	assert.Error(t, err)
}

func TestBuildVersion(t *testing.T) {
	assert.Equal(t, "devel", buildVersion("(devel)", nil))
	assert.Equal(t, "v0.3.0", buildVersion("v0.3.0", nil))

	settings := []debug.BuildSetting{
		{Key: "vcs.revision", Value: "0a1b2c3d4e5f60718293"},
		{Key: "vcs.modified", Value: "true"},
	}
	assert.Equal(t, "rev-0a1b2c3d4e5f-dirty", buildVersion("unknown", settings))
	assert.Equal(t, "v0.3.0-rev-0a1b2c3d4e5f-dirty", buildVersion("v0.3.0", settings))
}

func TestNewLoggerFollowsDebug(t *testing.T) {
	defer func() { Debug = false }()

	assert.Equal(t, log.InfoLevel, newLogger().Level)
	Debug = true
	assert.Equal(t, log.DebugLevel, newLogger().Level)
}
