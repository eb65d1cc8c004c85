package chatclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/tidwall/gjson"

	"support-chat/internal/domain"
)

// DefaultEndpoint es la ruta del relay cuando corre en local.
const DefaultEndpoint = "http://localhost:8080/api/chat"

// RelayError es una respuesta no 200 del relay.
type RelayError struct {
	StatusCode int
	Message    string
}

func (e *RelayError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("relay status %d", e.StatusCode)
	}
	return fmt.Sprintf("relay status %d: %s", e.StatusCode, e.Message)
}

// Client envía el historial al relay y expone la respuesta como Stream.
type Client struct {
	endpoint string
	client   *http.Client
}

// NewClient crea el cliente. Sin timeout propio: el turno se corta cancelando el contexto.
func NewClient(endpoint string, httpClient *http.Client) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		endpoint: strings.TrimRight(endpoint, "/"),
		client:   httpClient,
	}
}

func (c *Client) Send(ctx context.Context, history []domain.Message) (*Stream, error) {
	if history == nil {
		history = []domain.Message{}
	}
	body, err := json.Marshal(history)
	if err != nil {
		return nil, fmt.Errorf("marshal history: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "text/plain")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, &RelayError{
			StatusCode: resp.StatusCode,
			Message:    gjson.GetBytes(raw, "error").String(),
		}
	}
	return NewStream(resp.Body), nil
}
