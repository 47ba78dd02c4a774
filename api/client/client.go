// Package client implements an HTTP client of the zkgate API. Requests with
// a body or a mutating method are signed with the configured keys.
package client

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/vocdoni/zkgate/api"
	"github.com/vocdoni/zkgate/crypto/ethereum"
	"github.com/vocdoni/zkgate/log"
	"github.com/vocdoni/zkgate/types"
)

const (
	// HTTPGET is the method string used for calling Request()
	HTTPGET = http.MethodGet
	// HTTPPOST is the method string used for calling Request()
	HTTPPOST = http.MethodPost
	// HTTPPUT is the method string used for calling Request()
	HTTPPUT = http.MethodPut
	// HTTPDELETE is the method string used for calling Request()
	HTTPDELETE = http.MethodDelete

	errCodeNot200 = "API error"

	// DefaultRetries this enables Request() to handle the situation where the server connection fails
	DefaultRetries = 3
	// DefaultTimeout is the default timeout for the HTTP client
	DefaultTimeout = 10 * time.Second
	// retryDelay is the time to wait between attempts
	retryDelay = 500 * time.Millisecond
)

// HTTPclient is the zkgate API HTTP client.
type HTTPclient struct {
	c       *http.Client
	host    *url.URL
	retries int
	signer  *ethereum.SignKeys
}

// New connects to the API host and returns the handle. Requests are sent
// unsigned until SetSigner is called.
func New(host string) (*HTTPclient, error) {
	hostURL, err := url.Parse(host)
	if err != nil {
		return nil, err
	}

	tr := &http.Transport{
		IdleConnTimeout:    DefaultTimeout,
		DisableCompression: false,
		WriteBufferSize:    1 * 1024 * 1024, // 1 MiB
		ReadBufferSize:     1 * 1024 * 1024, // 1 MiB
	}
	c := &HTTPclient{
		c:       &http.Client{Transport: tr, Timeout: DefaultTimeout},
		host:    hostURL,
		retries: DefaultRetries,
	}
	log.Debugw("http client created", "host", hostURL.String())
	if err := c.ping(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *HTTPclient) ping() error {
	data, status, err := c.Request(HTTPGET, nil, nil, api.PingEndpoint)
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return fmt.Errorf("%s: %d (%s)", errCodeNot200, status, data)
	}
	return nil
}

// SetHostAddr configures the host address of the API server.
func (c *HTTPclient) SetHostAddr(host *url.URL) error {
	c.host = host
	return c.ping()
}

// SetRetries configures the number of retries for the HTTP client.
func (c *HTTPclient) SetRetries(n int) {
	c.retries = n
}

// SetTimeout configures the timeout for the HTTP client.
func (c *HTTPclient) SetTimeout(d time.Duration) {
	c.c.Timeout = d
	if tr, ok := c.c.Transport.(*http.Transport); ok {
		tr.ResponseHeaderTimeout = d
	}
}

// SetSigner configures the keys mutating requests are signed with.
func (c *HTTPclient) SetSigner(keys *ethereum.SignKeys) {
	c.signer = keys
}

// Caller returns the address requests are signed as, or the zero address
// if there is no signer.
func (c *HTTPclient) Caller() common.Address {
	if c.signer == nil {
		return common.Address{}
	}
	return c.signer.Address()
}

// Request performs a `method` type raw request to the endpoint specified in urlPath parameter.
// If jsonBody is not nil it is sent JSON encoded. Requests other than GET are signed
// with the next nonce of the signer if a signer is configured, and retries reuse it.
// Returns the response, the status code and an error.
//
// Supports query parameters via `params` slice. If the slice is not empty, it should contain pairs of strings;
// the first element of each pair is the key, and the second element is the value.
func (c *HTTPclient) Request(method string, jsonBody any, params []string, urlPath ...string) ([]byte, int, error) {
	var (
		body []byte
		err  error
	)

	// Marshal the JSON body if provided.
	if jsonBody != nil {
		body, err = json.Marshal(jsonBody)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to marshal JSON: %w", err)
		}
	}

	// Parse the base host URL
	u, err := url.Parse(c.host.String())
	if err != nil {
		return nil, 0, fmt.Errorf("failed to parse host URL: %w", err)
	}

	// Join path segments
	u.Path = path.Join(u.Path, path.Join(urlPath...))

	// Expecting even-length slice: [key1, val1, key2, val2, ...]
	// If length is odd, the last parameter without a pair will be ignored.
	if len(params) > 0 {
		values := url.Values{}
		for i := 0; i < len(params)-1; i += 2 {
			values.Set(params[i], params[i+1])
		}
		u.RawQuery = values.Encode()
	}

	// Prepare headers
	headers := http.Header{}
	if jsonBody != nil {
		headers.Set("Content-Type", "application/json")
		headers.Set("Accept", "application/json")
	}
	if c.signer != nil && method != HTTPGET {
		nonce, err := c.Nonce(c.signer.Address())
		if err != nil {
			return nil, 0, fmt.Errorf("failed to get nonce: %w", err)
		}
		msg := api.SignedMessage(nonce.Domain, nonce.Nonce, method, u.Path, body)
		sig, err := c.signer.SignEthereum(msg)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to sign request: %w", err)
		}
		headers.Set(api.SignatureHeader, types.HexBytes(sig).String())
		headers.Set(api.NonceHeader, strconv.FormatUint(nonce.Nonce, 10))
	}

	// Log the request details, truncating body if large
	log.Debugw("http client request",
		"type", method,
		"url", u.String(),
		"body", func() string {
			if len(body) > 512 {
				return string(body[:512]) + "..."
			}
			return string(body)
		}(),
	)

	var resp *http.Response
	for i := 1; i <= c.retries; i++ {
		// Create a fresh request each attempt
		var reqBody io.Reader
		if body != nil {
			reqBody = bytes.NewReader(body)
		}
		req, rerr := http.NewRequest(method, u.String(), reqBody)
		if rerr != nil {
			return nil, 0, fmt.Errorf("failed to create request: %w", rerr)
		}
		req.Header = headers.Clone()

		resp, err = c.c.Do(req)
		if err == nil {
			break
		}
		log.Warnw("http request failed", "error", err.Error(), "attempt", i, "retries", c.retries)
		if i < c.retries {
			time.Sleep(retryDelay)
		}
	}
	if err != nil {
		return nil, 0, fmt.Errorf("http request ultimately failed after retries: %w", err)
	}
	if resp == nil {
		return nil, 0, fmt.Errorf("no request was attempted, retries is %d", c.retries)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("failed to read response body: %w", err)
	}

	return data, resp.StatusCode, nil
}

// Call performs a request like Request and decodes a successful JSON
// response into out, which may be nil. Non 200 responses are returned as
// *api.Error.
func (c *HTTPclient) Call(method string, jsonBody, out any, urlPath ...string) error {
	data, status, err := c.Request(method, jsonBody, nil, urlPath...)
	if err != nil {
		return err
	}
	return decodeResponse(status, data, out)
}

func decodeResponse(status int, data []byte, out any) error {
	if status != http.StatusOK {
		return decodeError(status, data)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("could not decode response: %w", err)
	}
	return nil
}

// decodeError rebuilds the API error of a failed response.
func decodeError(status int, data []byte) error {
	var e struct {
		Err  string `json:"error"`
		Code int    `json:"code"`
	}
	if err := json.Unmarshal(data, &e); err != nil || e.Code == 0 {
		return fmt.Errorf("%s: %d (%s)", errCodeNot200, status, bytes.TrimSpace(data))
	}
	return &api.Error{Err: errors.New(e.Err), Code: e.Code, HTTPstatus: status}
}
