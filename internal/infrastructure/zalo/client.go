// Package zalo is the HTTP client for the Zalo Official Account open API:
// message delivery, profile lookup, follower listing and webhook
// signature verification.
package zalo

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"
)

const defaultBaseURL = "https://openapi.zalo.me/v3.0/oa"

// ClientConfig contains configuration for the OA client.
type ClientConfig struct {
	// BaseURL of the OA API (default: the public v3.0 endpoint)
	BaseURL string
	// AccessToken authenticates every call
	AccessToken string
	// Timeout per request (default: 10s)
	Timeout time.Duration
	// Logger for request diagnostics
	Logger *zap.Logger
}

// Client talks to the Zalo OA API. All methods return *GatewayError on
// failure so callers can distinguish permanent from retryable outcomes.
type Client struct {
	baseURL     string
	accessToken string
	httpClient  *http.Client
	logger      *zap.Logger
}

// NewClient creates an OA client.
func NewClient(config ClientConfig) *Client {
	if config.BaseURL == "" {
		config.BaseURL = defaultBaseURL
	}
	if config.Timeout <= 0 {
		config.Timeout = 10 * time.Second
	}
	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL:     config.BaseURL,
		accessToken: config.AccessToken,
		httpClient:  &http.Client{Timeout: config.Timeout},
		logger:      logger.Named("zalo"),
	}
}

type apiResponse struct {
	Error   int             `json:"error"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// Profile is the subset of an OA follower profile the service keeps.
type Profile struct {
	UserID      string `json:"user_id"`
	DisplayName string `json:"display_name"`
	Avatar      string `json:"avatar"`
}

// Follower is one entry of the follower list.
type Follower struct {
	UserID string `json:"user_id"`
}

// FollowerPage is one page of the follower list.
type FollowerPage struct {
	Total     int        `json:"total"`
	Followers []Follower `json:"followers"`
}

// SendText delivers a text message to one user and returns the gateway
// message id.
func (c *Client) SendText(ctx context.Context, userID, text string) (string, error) {
	payload := map[string]any{
		"recipient": map[string]string{"user_id": userID},
		"message":   map[string]string{"text": text},
	}

	data, err := c.post(ctx, "/message", payload)
	if err != nil {
		return "", err
	}

	var result struct {
		MessageID string `json:"message_id"`
	}
	if len(data) > 0 {
		if err := json.Unmarshal(data, &result); err != nil {
			c.logger.Warn("send response data malformed", zap.Error(err))
		}
	}
	return result.MessageID, nil
}

// GetProfile fetches a user's OA profile.
func (c *Client) GetProfile(ctx context.Context, userID string) (*Profile, error) {
	query := url.Values{"user_id": {userID}}
	data, err := c.get(ctx, "/getprofile", query)
	if err != nil {
		return nil, err
	}

	var profile Profile
	if err := json.Unmarshal(data, &profile); err != nil {
		return nil, transportError(err)
	}
	if profile.UserID == "" {
		profile.UserID = userID
	}
	return &profile, nil
}

// GetFollowers fetches one page of the OA follower list.
func (c *Client) GetFollowers(ctx context.Context, offset, count int) (*FollowerPage, error) {
	if count <= 0 {
		count = 50
	}
	query := url.Values{
		"offset": {strconv.Itoa(offset)},
		"count":  {strconv.Itoa(count)},
	}
	data, err := c.get(ctx, "/getfollowers", query)
	if err != nil {
		return nil, err
	}

	var page FollowerPage
	if err := json.Unmarshal(data, &page); err != nil {
		return nil, transportError(err)
	}
	return &page, nil
}

func (c *Client) post(ctx context.Context, path string, payload any) (json.RawMessage, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, transportError(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, transportError(err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("access_token", c.accessToken)

	return c.do(req)
}

func (c *Client) get(ctx context.Context, path string, query url.Values) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+query.Encode(), nil)
	if err != nil {
		return nil, transportError(err)
	}
	req.Header.Set("access_token", c.accessToken)

	return c.do(req)
}

func (c *Client) do(req *http.Request) (json.RawMessage, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("gateway request failed", zap.String("path", req.URL.Path), zap.Error(err))
		return nil, transportError(err)
	}
	defer resp.Body.Close()

	var parsed apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, transportError(err)
	}

	if parsed.Error != CodeSuccess {
		gerr := &GatewayError{Code: parsed.Error, Message: parsed.Message}
		c.logger.Warn("gateway call rejected",
			zap.String("path", req.URL.Path),
			zap.Int("code", gerr.Code),
			zap.String("message", gerr.Message),
			zap.Bool("permanent", gerr.Permanent()))
		return nil, gerr
	}

	return parsed.Data, nil
}
