package slack

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/smallbiznis/feedbackrelay/internal/apperr"
	obstracing "github.com/smallbiznis/feedbackrelay/internal/observability/tracing"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
)

const (
	defaultBaseURL = "https://slack.com/api"
	defaultTimeout = 10 * time.Second
	usersPageLimit = 200
)

var ErrMissingReceipt = errors.New("message receipt missing")

// APIError is an ok=false response.
type APIError struct {
	Method     string
	StatusCode int
	Code       string
}

func (e *APIError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("slack %s failed (status %d): %s", e.Method, e.StatusCode, e.Code)
	}
	return fmt.Sprintf("slack %s failed: %s", e.Method, e.Code)
}

type Config struct {
	BotToken string
	BaseURL  string
	Timeout  time.Duration
}

type Client struct {
	baseURL    string
	token      string
	timeout    time.Duration
	httpClient *http.Client
	log        *zap.Logger
}

func New(cfg Config, log *zap.Logger) *Client {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		baseURL:    baseURL,
		token:      strings.TrimSpace(cfg.BotToken),
		timeout:    timeout,
		httpClient: obstracing.WrapHTTPClient(&http.Client{Timeout: timeout}),
		log:        log.Named("slack.client"),
	}
}

type fileRef struct {
	ID         string `json:"id"`
	ExternalID string `json:"external_id"`
}

type responseMetadata struct {
	NextCursor string `json:"next_cursor"`
}

type response struct {
	OK               bool             `json:"ok"`
	Error            string           `json:"error"`
	Channel          string           `json:"channel"`
	TS               string           `json:"ts"`
	File             *fileRef         `json:"file"`
	Members          []User           `json:"members"`
	ResponseMetadata responseMetadata `json:"response_metadata"`
}

func (c *Client) PostMessage(ctx context.Context, msg Message) (Receipt, error) {
	const op = "slack.PostMessage"
	body := map[string]any{
		"channel": msg.Channel,
		"text":    msg.Text,
	}
	if msg.Blocks != nil {
		body["blocks"] = msg.Blocks
	}
	resp, err := c.call(ctx, "chat.postMessage", jsonBody(body))
	if err != nil {
		return Receipt{}, apperr.DependencyFailed(op, err)
	}
	if resp.Channel == "" || resp.TS == "" {
		return Receipt{}, apperr.DependencyFailed(op, ErrMissingReceipt)
	}
	return Receipt{Channel: resp.Channel, TS: resp.TS}, nil
}

func (c *Client) OpenView(ctx context.Context, triggerID string, view any) error {
	const op = "slack.OpenView"
	if _, err := c.call(ctx, "views.open", jsonBody(map[string]any{
		"trigger_id": triggerID,
		"view":       view,
	})); err != nil {
		return apperr.DependencyFailed(op, err)
	}
	return nil
}

// AddRemoteFile registers an externally hosted file and returns the file id
// usable in slack://file links.
func (c *Client) AddRemoteFile(ctx context.Context, file RemoteFile) (string, error) {
	const op = "slack.AddRemoteFile"
	fileType := file.FileType
	if fileType == "" {
		fileType = "pdf"
	}
	values := url.Values{}
	values.Set("external_id", file.ExternalID)
	values.Set("external_url", file.URL)
	values.Set("title", file.Title)
	values.Set("filetype", fileType)

	resp, err := c.call(ctx, "files.remote.add", formBody(values))
	if err != nil {
		return "", apperr.DependencyFailed(op, err)
	}
	if resp.File != nil && resp.File.ID != "" {
		return resp.File.ID, nil
	}
	return file.ExternalID, nil
}

func (c *Client) ListUsers(ctx context.Context, cursor string) (UserPage, error) {
	const op = "slack.ListUsers"
	values := url.Values{}
	values.Set("limit", fmt.Sprint(usersPageLimit))
	if cursor != "" {
		values.Set("cursor", cursor)
	}
	resp, err := c.call(ctx, "users.list", formBody(values))
	if err != nil {
		return UserPage{}, apperr.DependencyFailed(op, err)
	}
	return UserPage{Members: resp.Members, NextCursor: resp.ResponseMetadata.NextCursor}, nil
}

type requestBody struct {
	contentType string
	payload     []byte
	err         error
}

func jsonBody(v any) requestBody {
	payload, err := json.Marshal(v)
	return requestBody{contentType: "application/json; charset=utf-8", payload: payload, err: err}
}

func formBody(values url.Values) requestBody {
	return requestBody{contentType: "application/x-www-form-urlencoded", payload: []byte(values.Encode())}
}

func (c *Client) call(ctx context.Context, method string, body requestBody) (*response, error) {
	if body.err != nil {
		return nil, fmt.Errorf("encode %s: %w", method, body.err)
	}
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	ctx, span := obstracing.Tracer("slack").Start(ctx, "slack."+method)
	defer span.End()
	span.SetAttributes(attribute.String("slack.method", method))

	resp, err := c.do(ctx, method, body)
	if err != nil {
		span.RecordError(obstracing.SafeError(err))
		span.SetStatus(codes.Error, "slack request failed")
		c.log.Warn("slack api call failed", zap.String("method", method), zap.Error(err))
		return nil, err
	}
	return resp, nil
}

func (c *Client) do(ctx context.Context, method string, body requestBody) (*response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/"+method, bytes.NewReader(body.payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", body.contentType)

	httpResp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("slack %s: %w", method, err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode < http.StatusOK || httpResp.StatusCode >= http.StatusMultipleChoices {
		_, _ = io.Copy(io.Discard, httpResp.Body)
		return nil, &APIError{Method: method, StatusCode: httpResp.StatusCode, Code: http.StatusText(httpResp.StatusCode)}
	}

	var resp response
	if err := json.NewDecoder(httpResp.Body).Decode(&resp); err != nil {
		return nil, fmt.Errorf("decode %s response: %w", method, err)
	}
	if !resp.OK {
		code := resp.Error
		if code == "" {
			code = "unknown_error"
		}
		return nil, &APIError{Method: method, Code: code}
	}
	return &resp, nil
}

var _ Provider = (*Client)(nil)
