// Package client talks to the chatbot backend's HTTP API.
package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/linanwx/cloudchat/logger"
)

const maxBodyBytes = 4 << 20

// Client calls POST /chat and GET /random_questions.
type Client struct {
	baseURL string
	http    *http.Client
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// New creates a client for the backend at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the backend address.
func (c *Client) BaseURL() string { return c.baseURL }

// Chat sends one user message and returns the bot's reply text.
func (c *Client) Chat(ctx context.Context, message string) (string, error) {
	const op = "chat"

	payload, err := sjson.SetBytes([]byte(`{}`), "user_message", message)
	if err != nil {
		return "", fmt.Errorf("%s: encode request: %w", op, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("%s: build request: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/json")

	body, err := c.do(op, req)
	if err != nil {
		return "", err
	}

	reply := gjson.GetBytes(body, "response")
	if reply.Type != gjson.String {
		return "", fmt.Errorf("%s: %w: missing string field \"response\"", op, ErrMalformedResponse)
	}
	return reply.String(), nil
}

// RandomQuestions fetches up to count suggested questions.
func (c *Client) RandomQuestions(ctx context.Context, count int) ([]string, error) {
	const op = "random_questions"

	q := url.Values{}
	q.Set("count", strconv.Itoa(count))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/random_questions?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("%s: build request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")

	body, err := c.do(op, req)
	if err != nil {
		return nil, err
	}

	list := gjson.GetBytes(body, "questions")
	if !list.IsArray() {
		return nil, fmt.Errorf("%s: %w: missing array field \"questions\"", op, ErrMalformedResponse)
	}
	items := list.Array()
	questions := make([]string, 0, len(items))
	for i, item := range items {
		if item.Type != gjson.String {
			return nil, fmt.Errorf("%s: %w: questions[%d] is not a string", op, ErrMalformedResponse, i)
		}
		questions = append(questions, item.String())
	}
	return questions, nil
}

// do executes req and returns the body of a 2xx reply holding valid JSON.
func (c *Client) do(op string, req *http.Request) ([]byte, error) {
	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &TransportError{Op: op, Err: fmt.Errorf("read body: %w", err)}
	}

	logger.Debug("backend call",
		"op", op,
		"status", resp.StatusCode,
		"bytes", len(body),
		"latencyMs", time.Since(start).Milliseconds(),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{Op: op, Code: resp.StatusCode, Detail: errorDetail(resp.StatusCode, body)}
	}
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("%s: %w: body is not JSON", op, ErrMalformedResponse)
	}
	return body, nil
}

// errorDetail extracts "detail" from an error body. FastAPI-style backends
// send either a string or a list of validation objects.
func errorDetail(code int, body []byte) string {
	if gjson.ValidBytes(body) {
		detail := gjson.GetBytes(body, "detail")
		switch detail.Type {
		case gjson.Null:
			// absent or an explicit null
		case gjson.String:
			if text := detail.String(); text != "" {
				return text
			}
		default:
			return detail.Raw
		}
	}
	if text := http.StatusText(code); text != "" {
		return text
	}
	return strconv.Itoa(code)
}
