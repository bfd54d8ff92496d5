package panel

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// listAllLimit is the largest page the API serves.
const listAllLimit = 200

// Question mirrors the API representation of a question.
type Question struct {
	ID           uint       `json:"id"`
	Text         string     `json:"text"`
	Difficulty   string     `json:"difficulty"`
	Type         string     `json:"type"`
	Answer       string     `json:"answer"`
	Hint1        *string    `json:"hint1"`
	Options      []string   `json:"options"`
	CorrectIndex *int       `json:"correctIndex"`
	CreatedAt    time.Time  `json:"createdAt"`
	UsedAt       *time.Time `json:"usedAt"`
}

type Page struct {
	Page       int        `json:"page"`
	Limit      int        `json:"limit"`
	Total      int64      `json:"total"`
	TotalPages int        `json:"totalPages"`
	Count      int        `json:"count"`
	Data       []Question `json:"data"`
}

// Draft is the body sent to create or update a question.
type Draft struct {
	Text         string   `json:"text"`
	Difficulty   string   `json:"difficulty"`
	Type         string   `json:"type"`
	Answer       string   `json:"answer,omitempty"`
	Hint1        *string  `json:"hint1,omitempty"`
	Options      []string `json:"options,omitempty"`
	CorrectIndex *int     `json:"correctIndex,omitempty"`
}

// APIError is a non-2xx answer from the API.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

// Client talks to the question API over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
	token      string
}

func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

// SetToken sets the bearer token sent with every request.
func (c *Client) SetToken(token string) {
	c.token = token
}

func (c *Client) List(ctx context.Context, page, limit int, difficulty string) (*Page, error) {
	q := url.Values{}
	if page > 0 {
		q.Set("page", strconv.Itoa(page))
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	if difficulty != "" {
		q.Set("difficulty", difficulty)
	}

	path := "/questions"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var out Page
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListAll walks every page and returns the full question set.
func (c *Client) ListAll(ctx context.Context) ([]Question, error) {
	var all []Question
	for page := 1; ; page++ {
		p, err := c.List(ctx, page, listAllLimit, "")
		if err != nil {
			return nil, err
		}
		all = append(all, p.Data...)
		if page >= p.TotalPages || p.Count == 0 {
			return all, nil
		}
	}
}

func (c *Client) Get(ctx context.Context, id uint) (*Question, error) {
	var out Question
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/questions/%d", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Create(ctx context.Context, d Draft) (*Question, error) {
	var out Question
	if err := c.do(ctx, http.MethodPost, "/questions", d, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Update(ctx context.Context, id uint, d Draft) (*Question, error) {
	var out Question
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/questions/%d", id), d, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Delete(ctx context.Context, id uint) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/questions/%d", id), nil, nil)
}

// Login exchanges admin credentials for a token. The token is not stored.
func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	body := map[string]string{"username": username, "password": password}
	var out struct {
		Token string `json:"token"`
	}
	if err := c.do(ctx, http.MethodPost, "/auth/login", body, &out); err != nil {
		return "", err
	}
	return out.Token, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var payload struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&payload)
		if payload.Error == "" {
			payload.Error = http.StatusText(resp.StatusCode)
		}
		return &APIError{Status: resp.StatusCode, Message: payload.Error}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
