package contact

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DefaultRelayURL is the hosted form endpoint the page posts to.
const DefaultRelayURL = "https://formspree.io/f/movpkovj"

// Submission is the record assembled from a valid form.
type Submission struct {
	ID        uuid.UUID
	Name      string
	Email     string
	Message   string
	Timestamp time.Time
}

// NewSubmission trims the values and stamps the record with now.
func NewSubmission(name, email, message string, now time.Time) Submission {
	return Submission{
		ID:        uuid.New(),
		Name:      strings.TrimSpace(name),
		Email:     strings.TrimSpace(email),
		Message:   strings.TrimSpace(message),
		Timestamp: now.UTC(),
	}
}

// Payload is the JSON body the relay accepts.
type Payload struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
	Subject string `json:"_subject"`
	ReplyTo string `json:"_replyto"`
}

// Payload builds the relay body for s.
func (s Submission) Payload() Payload {
	return Payload{
		Name:    s.Name,
		Email:   s.Email,
		Message: s.Message,
		Subject: fmt.Sprintf("Portfolio Contact from %s", s.Name),
		ReplyTo: s.Email,
	}
}

// Sender delivers a submission.
type Sender interface {
	Send(ctx context.Context, s Submission) error
}

// StatusError is returned when the relay answers outside 2xx.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP error! status: %d", e.Code)
}

// RelayClient posts submissions to a form relay.
type RelayClient struct {
	endpoint string
	client   *http.Client
}

// NewRelayClient returns a client for endpoint. A nil client means
// http.DefaultClient.
func NewRelayClient(endpoint string, client *http.Client) *RelayClient {
	if endpoint == "" {
		endpoint = DefaultRelayURL
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &RelayClient{endpoint: endpoint, client: client}
}

// Endpoint returns the URL the client posts to.
func (c *RelayClient) Endpoint() string { return c.endpoint }

// Send makes exactly one POST. No retries.
func (c *RelayClient) Send(ctx context.Context, s Submission) error {
	body, err := json.Marshal(s.Payload())
	if err != nil {
		return fmt.Errorf("encoding payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("building relay request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("posting to relay: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &StatusError{Code: resp.StatusCode, Body: string(snippet)}
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}
