package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/cygnuslabs/cygnusone/internal/client/models"
	"github.com/cygnuslabs/cygnusone/internal/logging"
)

// HTTPClient implements AuthAPI and ArticleAPI over the JSON REST API.
// It holds no session state; tokens are passed per call.
type HTTPClient struct {
	baseURL string
	hc      *http.Client
	log     logging.Logger
}

func NewHTTPClient(baseURL string, timeout time.Duration, log logging.Logger) *HTTPClient {
	return &HTTPClient{
		baseURL: baseURL,
		hc:      &http.Client{Timeout: timeout},
		log:     log,
	}
}

type authResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

type meResponse struct {
	User *models.User `json:"user"`
}

func (c *HTTPClient) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	return c.postAuth(ctx, "/auth/login", map[string]string{
		"email":    email,
		"password": password,
	}, false)
}

func (c *HTTPClient) Register(ctx context.Context, email, password, name string) (string, *models.User, error) {
	return c.postAuth(ctx, "/auth/register", map[string]string{
		"email":    email,
		"password": password,
		"name":     name,
	}, true)
}

func (c *HTTPClient) postAuth(ctx context.Context, path string, payload map[string]string, register bool) (string, *models.User, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return "", nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return "", nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.hc.Do(req)
	if err != nil {
		return "", nil, &ConnectionError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", nil, mapStatus(resp.StatusCode, register)
	}

	var ar authResponse
	if err := json.NewDecoder(resp.Body).Decode(&ar); err != nil {
		c.log.Error(ctx, "undecodable auth response", "path", path, "err", err)
		return "", nil, fmt.Errorf("decoding auth response: %w", ErrParse)
	}
	if ar.Token == "" || ar.User == nil {
		c.log.Error(ctx, "auth response missing token or user", "path", path)
		return "", nil, fmt.Errorf("auth response missing token or user: %w", ErrParse)
	}
	return ar.Token, ar.User, nil
}

// Logout is best-effort from the caller's point of view, but the transport
// still reports the mapped error so it can be logged.
func (c *HTTPClient) Logout(ctx context.Context, token string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/auth/logout", nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.hc.Do(req)
	if err != nil {
		return &ConnectionError{Err: err}
	}
	defer drain(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return mapStatus(resp.StatusCode, false)
	}
	return nil
}

func (c *HTTPClient) Me(ctx context.Context, token string) (*models.User, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/auth/me", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, &ConnectionError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, mapStatus(resp.StatusCode, false)
	}

	var mr meResponse
	if err := json.NewDecoder(resp.Body).Decode(&mr); err != nil {
		return nil, fmt.Errorf("decoding user response: %w", ErrParse)
	}
	if mr.User == nil {
		return nil, fmt.Errorf("user response missing user: %w", ErrParse)
	}
	return mr.User, nil
}

func (c *HTTPClient) List(ctx context.Context, q ArticleQuery) (*models.ArticleResponse, error) {
	params := url.Values{}
	if q.Page > 0 {
		params.Set("page", strconv.Itoa(q.Page))
	}
	if q.Limit > 0 {
		params.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Author != "" {
		params.Set("author", q.Author)
	}
	if q.Tag != "" {
		params.Set("tag", q.Tag)
	}

	target := c.baseURL + "/articles"
	if encoded := params.Encode(); encoded != "" {
		target += "?" + encoded
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, &ConnectionError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, mapStatus(resp.StatusCode, false)
	}

	var page models.ArticleResponse
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, fmt.Errorf("decoding article page: %w", ErrParse)
	}
	return &page, nil
}

func (c *HTTPClient) Get(ctx context.Context, id string) (*models.Article, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/articles/"+url.PathEscape(id), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, &ConnectionError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, mapStatus(resp.StatusCode, false)
	}

	var article models.Article
	if err := json.NewDecoder(resp.Body).Decode(&article); err != nil {
		return nil, fmt.Errorf("decoding article: %w", ErrParse)
	}
	return &article, nil
}

// mapStatus translates a non-2xx status into the error taxonomy. Conflict is
// only meaningful on registration.
func mapStatus(status int, register bool) error {
	switch {
	case status == http.StatusUnauthorized:
		return ErrInvalidCredentials
	case status == http.StatusBadRequest:
		return ErrMalformedInput
	case status == http.StatusConflict && register:
		return ErrDuplicateAccount
	default:
		return &ServerError{Status: status}
	}
}

func drain(body io.ReadCloser) {
	_, _ = io.Copy(io.Discard, body)
	_ = body.Close()
}
