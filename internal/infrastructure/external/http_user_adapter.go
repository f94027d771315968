package external

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-ports-adapters/internal/domain/entity"
	"github.com/oksasatya/go-ddd-ports-adapters/internal/domain/errs"
	"github.com/oksasatya/go-ddd-ports-adapters/internal/domain/port"
	"github.com/oksasatya/go-ddd-ports-adapters/pkg/helpers"
	"github.com/oksasatya/go-ddd-ports-adapters/pkg/result"
)

const (
	DefaultUserServiceURL     = "http://localhost:3001"
	DefaultUserServiceTimeout = 5 * time.Second
)

// TokenSource supplies the bearer token sent to the user service.
type TokenSource interface {
	Token() (string, error)
}

type HTTPUserAdapterConfig struct {
	BaseURL string
	// Timeout bounds each call, including every call of the FindByIDs fallback.
	Timeout time.Duration
	// Tokens is optional.
	Tokens TokenSource
	FanOut int
}

// HTTPUserAdapter reads users from a remote user service over HTTP.
type HTTPUserAdapter struct {
	cfg    HTTPUserAdapterConfig
	client *http.Client
	logger *logrus.Logger
}

var _ port.ExternalUserPort = (*HTTPUserAdapter)(nil)

// NewHTTPUserAdapter uses a client with cfg.Timeout when client is nil.
func NewHTTPUserAdapter(cfg HTTPUserAdapterConfig, client *http.Client, logger *logrus.Logger) *HTTPUserAdapter {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultUserServiceURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultUserServiceTimeout
	}
	if cfg.FanOut <= 0 {
		cfg.FanOut = DefaultFanOut
	}
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &HTTPUserAdapter{cfg: cfg, client: client, logger: logger}
}

type envelope[T any] struct {
	Data T `json:"data"`
}

type batchRequest struct {
	IDs []string `json:"ids"`
}

type batchPayload struct {
	Users []entity.ExternalUserData `json:"users"`
}

// FindByID maps a 404 to NotFound and every other failure to LookupFailed.
func (a *HTTPUserAdapter) FindByID(ctx context.Context, id string) result.Result[entity.ExternalUserData] {
	resp, err := a.do(ctx, http.MethodGet, userPath(id), nil)
	if err != nil {
		return a.lookupFailed(id, err)
	}
	defer closeBody(resp)

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return result.Fail[entity.ExternalUserData](errs.NotFound("User", id))
	case !isSuccess(resp.StatusCode):
		return a.lookupFailed(id, fmt.Errorf("user service responded %d", resp.StatusCode))
	}

	var body envelope[entity.ExternalUserData]
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return a.lookupFailed(id, fmt.Errorf("decode user: %w", err))
	}
	if body.Data.ID == "" {
		return a.lookupFailed(id, fmt.Errorf("user service returned an empty user"))
	}
	return result.Ok(body.Data)
}

// Exists issues a HEAD request. Any error or non-2xx answer counts as absent.
func (a *HTTPUserAdapter) Exists(ctx context.Context, id string) bool {
	resp, err := a.do(ctx, http.MethodHead, userPath(id), nil)
	if err != nil {
		a.logger.WithError(err).WithField("user_id", id).Debug("user exists check failed")
		return false
	}
	defer closeBody(resp)
	return isSuccess(resp.StatusCode)
}

// FindByIDs tries the batch endpoint first and falls back to one FindByID per id.
func (a *HTTPUserAdapter) FindByIDs(ctx context.Context, ids []string) map[string]entity.ExternalUserData {
	unique := uniqueIDs(ids)
	if len(unique) == 0 {
		return map[string]entity.ExternalUserData{}
	}

	users, err := a.batch(ctx, unique)
	if err == nil {
		return users
	}
	a.logger.WithError(err).WithField("count", len(unique)).Info("user batch lookup failed, falling back to single lookups")
	return fanOut(ctx, unique, a.cfg.FanOut, a.FindByID)
}

func (a *HTTPUserAdapter) batch(ctx context.Context, ids []string) (map[string]entity.ExternalUserData, error) {
	payload, err := json.Marshal(batchRequest{IDs: ids})
	if err != nil {
		return nil, err
	}
	resp, err := a.do(ctx, http.MethodPost, "/users/batch", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	defer closeBody(resp)
	if !isSuccess(resp.StatusCode) {
		return nil, fmt.Errorf("user batch responded %d", resp.StatusCode)
	}

	var body envelope[batchPayload]
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode user batch: %w", err)
	}
	requested := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		requested[id] = struct{}{}
	}
	out := make(map[string]entity.ExternalUserData, len(body.Data.Users))
	for _, u := range body.Data.Users {
		if _, ok := requested[u.ID]; ok {
			out[u.ID] = u
		}
	}
	return out, nil
}

func (a *HTTPUserAdapter) do(ctx context.Context, method, path string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, a.cfg.BaseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if id, ok := helpers.RequestIDFromContext(ctx); ok {
		req.Header.Set(helpers.RequestIDHeader, id)
	}
	if a.cfg.Tokens != nil {
		tok, err := a.cfg.Tokens.Token()
		if err != nil {
			return nil, fmt.Errorf("service token: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	return resp, nil
}

func (a *HTTPUserAdapter) lookupFailed(id string, cause error) result.Result[entity.ExternalUserData] {
	a.logger.WithError(cause).WithField("user_id", id).Warn("remote user lookup failed")
	return result.Fail[entity.ExternalUserData](errs.LookupFailed("user lookup failed", cause))
}

func userPath(id string) string {
	return "/users/" + url.PathEscape(id)
}

func isSuccess(status int) bool {
	return status >= 200 && status < 300
}

// closeBody drains the body so the connection can be reused.
func closeBody(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
	_ = resp.Body.Close()
}
