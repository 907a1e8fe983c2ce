// Package suggest asks an llmstep server for next-tactic suggestions and formats them for editors.
package suggest

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
	"unicode/utf8"

	"github.com/bastiangx/llmstep/internal/logger"
	"github.com/bastiangx/llmstep/pkg/config"
	"github.com/bastiangx/llmstep/pkg/protocol"
	"github.com/charmbracelet/log"
)

// ISuggester is implemented by anything that can turn a proof state into suggestions.
type ISuggester interface {
	Suggest(ctx context.Context, req protocol.Request) ([]string, error)
}

// Client posts one request per Suggest call. It never retries.
type Client struct {
	endpoint   string
	codec      protocol.Codec
	httpClient *http.Client
	log        *log.Logger
}

// Endpoint derives the URL a request is posted to.
// In COLAB mode the host already is the full URL; otherwise http://host:port.
func Endpoint(cfg *config.Config) string {
	if cfg.Server.Mode == config.ModeColab {
		return cfg.Server.Host
	}
	return fmt.Sprintf("http://%s:%s", cfg.Server.Host, cfg.Server.Port)
}

// NewClient builds a client for cfg. A zero timeout leaves the transport default (no limit).
func NewClient(cfg *config.Config) (*Client, error) {
	codec, err := protocol.CodecByName(cfg.Client.Codec)
	if err != nil {
		return nil, err
	}
	return &Client{
		endpoint:   Endpoint(cfg),
		codec:      codec,
		httpClient: &http.Client{Timeout: cfg.Client.Timeout},
		log:        logger.New("suggest"),
	}, nil
}

// WithHTTPClient swaps the underlying http.Client, mostly for tests.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.httpClient = hc
	return c
}

// WithLogger routes the client's logs through l instead of the default stderr logger.
func (c *Client) WithLogger(l *log.Logger) *Client {
	c.log = l
	return c
}

// URL returns the endpoint this client posts to.
func (c *Client) URL() string {
	return c.endpoint
}

// Suggest sends req and returns the server's suggestions in order.
// Every failure is an *Error.
func (c *Client) Suggest(ctx context.Context, req protocol.Request) ([]string, error) {
	if err := checkUTF8(req); err != nil {
		return nil, err
	}
	body, err := c.codec.Marshal(req)
	if err != nil {
		return nil, &Error{Kind: InvalidArgument, Msg: "encoding request", Err: err}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, &Error{Kind: ConnectionFailure, Err: err}
	}
	httpReq.Header.Set("Content-Type", c.codec.ContentType())

	start := time.Now()
	c.log.Debug("posting request", "url", c.endpoint, "codec", c.codec.Name(), "bytes", len(body))

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, &Error{Kind: ConnectionFailure, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{Kind: ConnectionFailure, Msg: "reading response", Err: err}
	}
	c.log.Debugf("Took [ %v ] status=%d bytes=%d", time.Since(start), resp.StatusCode, len(data))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &Error{
			Kind:       HTTPError,
			StatusCode: resp.StatusCode,
			Msg:        fmt.Sprintf("%s returned %s", c.endpoint, resp.Status),
		}
	}

	out, err := c.codec.DecodeResponse(data)
	if err != nil {
		return nil, &Error{Kind: MalformedResponse, Msg: "decoding response", Err: err}
	}

	c.log.Debug("received suggestions", "count", len(out.Suggestions))
	return out.Suggestions, nil
}

// checkUTF8 rejects fields the JSON encoder would silently rewrite to U+FFFD.
func checkUTF8(req protocol.Request) error {
	fields := []struct{ name, value string }{
		{"tactic_state", req.TacticState},
		{"prefix", req.Prefix},
		{"context", req.Context},
	}
	for _, f := range fields {
		if !utf8.ValidString(f.value) {
			return &Error{Kind: InvalidArgument, Msg: fmt.Sprintf("%s is not valid UTF-8", f.name)}
		}
	}
	return nil
}
