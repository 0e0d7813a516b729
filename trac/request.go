package trac

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/kolo/xmlrpc"
)

const userAgent = "trac-term/1 (xmlrpc)"

func (api *API) call(method string, args ...any) (any, error) {
	if args == nil {
		args = []any{}
	}

	api.Logger.Debug().Str("method", method).Int("args", len(args)).Str("auth", api.creds.Mode.String()).Msg("xmlrpc call")

	var caller Caller = httpCaller{api: api}
	if api.Caller != nil {
		caller = api.Caller
	}

	reply, err := caller.Call(method, args)
	if err != nil {
		api.Logger.Debug().Str("method", method).Err(err).Msg("xmlrpc call failed")
		return nil, err
	}
	return reply, nil
}

type batchCall struct {
	method string
	args   []any
}

// multicall issues every call in a single system.multicall round trip.  A fault in any slot fails
// the batch.
func (api *API) multicall(calls []batchCall) ([]any, error) {
	if len(calls) == 0 {
		return []any{}, nil
	}

	payload := make([]any, 0, len(calls))
	for _, c := range calls {
		args := c.args
		if args == nil {
			args = []any{}
		}
		payload = append(payload, map[string]any{
			"methodName": c.method,
			"params":     args,
		})
	}

	reply, err := api.call("system.multicall", payload)
	if err != nil {
		return nil, err
	}

	slots, ok := reply.([]any)
	if !ok || len(slots) != len(calls) {
		return nil, fmt.Errorf("trac: multicall returned %d results for %d calls", len(slots), len(calls))
	}

	results := make([]any, len(calls))
	for i, slot := range slots {
		switch v := slot.(type) {
		case []any:
			if len(v) != 1 {
				return nil, fmt.Errorf("trac: multicall slot %d for %s has %d values", i, calls[i].method, len(v))
			}
			results[i] = v[0]
		case map[string]any:
			return nil, &RemoteFault{
				Method:  calls[i].method,
				Code:    decodeInt(v["faultCode"]),
				Message: decodeString(v["faultString"]),
			}
		default:
			return nil, fmt.Errorf("trac: multicall slot %d for %s has unexpected type %T", i, calls[i].method, slot)
		}
	}

	return results, nil
}

// httpCaller posts one methodCall document to the RPC endpoint.
type httpCaller struct {
	api *API
}

func (c httpCaller) Call(method string, args []any) (any, error) {
	endpoint := c.api.RPCURL.Redacted()

	body, err := xmlrpc.EncodeMethodCall(method, args...)
	if err != nil {
		return nil, fmt.Errorf("trac: couldn't encode %s call: %w", method, err)
	}

	req, err := http.NewRequest(http.MethodPost, c.api.RPCURL.String(), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("trac: couldn't instantiate http request: %w", err)
	}
	req.Header.Set("Content-Type", "text/xml")
	req.Header.Set("User-Agent", userAgent)

	response, err := c.api.Client.Do(req)
	if err != nil {
		return nil, &ConnectionError{URL: endpoint, Err: err}
	}

	defer response.Body.Close()

	data, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, fmt.Errorf("trac: couldn't read http response body: %w", err)
	}

	switch response.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, &ConnectionError{URL: endpoint, Err: fmt.Errorf("authentication failed: %s", response.Status)}
	case http.StatusNotFound:
		return nil, &ConnectionError{URL: endpoint, Err: fmt.Errorf("no xml-rpc endpoint here: %s", response.Status)}
	case http.StatusServiceUnavailable:
		return nil, &ConnectionError{URL: endpoint, Err: fmt.Errorf("service is not available: %s", response.Status)}
	default:
		return nil, fmt.Errorf("trac: unknown HTTP response status: %s: %s", response.Status, endpoint)
	}

	resp := xmlrpc.Response(data)
	if err := resp.Err(); err != nil {
		var fault xmlrpc.FaultError
		if errors.As(err, &fault) {
			return nil, &RemoteFault{Method: method, Code: fault.Code, Message: fault.String}
		}
		return nil, fmt.Errorf("trac: couldn't decode fault from %s: %w", method, err)
	}

	var reply any
	if err := resp.Unmarshal(&reply); err != nil {
		return nil, fmt.Errorf("trac: couldn't decode %s response: %w", method, err)
	}

	return reply, nil
}
