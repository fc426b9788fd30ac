package wordpress

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	restRoot  = "/wp-json/wp/v2"
	postsPath = restRoot + "/posts"

	// maxErrorBody bounds how much of a failed response is read for the message
	maxErrorBody = 64 << 10
)

// ErrNoPostID is returned when WordPress accepts a post but does not echo its id
var ErrNoPostID = errors.New("wordpress response carried no post id")

// Credentials address one WordPress site. Password is the plaintext application password.
type Credentials struct {
	URL      string
	Username string
	Password string
}

// Post is the payload sent to the posts endpoint
type Post struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Status  string `json:"status"`
	Date    string `json:"date,omitempty"`
}

// CreatedPost is the subset of the WordPress post object the app keeps
type CreatedPost struct {
	ID     int64  `json:"id"`
	Link   string `json:"link"`
	Status string `json:"status"`
	Date   string `json:"date"`
}

// APIError carries a non-2xx WordPress response
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("wordpress returned status %d", e.StatusCode)
	}
	return e.Message
}

type wpError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Client talks to the WordPress REST API of user sites
type Client struct {
	client *http.Client
}

// NewClient creates a WordPress REST client
func NewClient(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		client: &http.Client{Timeout: timeout},
	}
}

// VerifySite checks the REST root answers with the given credentials
func (c *Client) VerifySite(ctx context.Context, creds Credentials) error {
	req, err := c.newRequest(ctx, http.MethodGet, creds, restRoot, http.NoBody)
	if err != nil {
		return err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("reach wordpress site: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return readAPIError(resp)
	}

	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

// CreatePost creates a post, published immediately or scheduled depending on Status
func (c *Client) CreatePost(ctx context.Context, creds Credentials, post Post) (*CreatedPost, error) {
	body, err := json.Marshal(post)
	if err != nil {
		return nil, fmt.Errorf("marshal post: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, creds, postsPath, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	log.Debug().
		Str("site", creds.URL).
		Str("status", post.Status).
		Msg("creating wordpress post")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("reach wordpress site: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		apiErr := readAPIError(resp)
		log.Warn().
			Str("site", creds.URL).
			Int("status_code", apiErr.StatusCode).
			Str("code", apiErr.Code).
			Msg("wordpress rejected post")
		return nil, apiErr
	}

	var created CreatedPost
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return nil, fmt.Errorf("decode wordpress response: %w", err)
	}
	if created.ID == 0 {
		return nil, ErrNoPostID
	}

	return &created, nil
}

func (c *Client) newRequest(ctx context.Context, method string, creds Credentials, path string, body io.Reader) (*http.Request, error) {
	base := strings.TrimRight(creds.URL, "/")
	if base == "" {
		return nil, errors.New("wordpress site url is required")
	}

	req, err := http.NewRequestWithContext(ctx, method, base+path, body)
	if err != nil {
		return nil, fmt.Errorf("create wordpress request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.SetBasicAuth(creds.Username, creds.Password)
	return req, nil
}

func readAPIError(resp *http.Response) *APIError {
	apiErr := &APIError{StatusCode: resp.StatusCode}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil {
		return apiErr
	}

	var body wpError
	if json.Unmarshal(raw, &body) == nil && body.Message != "" {
		apiErr.Code = body.Code
		apiErr.Message = body.Message
		return apiErr
	}

	if text := strings.TrimSpace(string(raw)); text != "" && len(text) < 512 {
		apiErr.Message = fmt.Sprintf("wordpress returned status %d: %s", resp.StatusCode, text)
	}
	return apiErr
}
