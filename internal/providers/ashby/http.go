package ashby

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	obstracing "github.com/smallbiznis/feedbackrelay/internal/observability/tracing"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
)

const (
	defaultBaseURL = "https://api.ashbyhq.com"
	defaultTimeout = 10 * time.Second
	pageLimit      = 100
	maxErrorBody   = 4 << 10
)

type Config struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
}

// HTTPClient calls the tracking API over JSON-RPC style POST endpoints.
type HTTPClient struct {
	baseURL    string
	authHeader string
	timeout    time.Duration
	httpClient *http.Client
	log        *zap.Logger
}

func New(cfg Config, log *zap.Logger) *HTTPClient {
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
	credentials := base64.StdEncoding.EncodeToString([]byte(strings.TrimSpace(cfg.APIKey) + ":"))
	return &HTTPClient{
		baseURL:    baseURL,
		authHeader: "Basic " + credentials,
		timeout:    timeout,
		httpClient: obstracing.WrapHTTPClient(&http.Client{Timeout: timeout}),
		log:        log.Named("ashby.client"),
	}
}

type errorInfo struct {
	Code      string `json:"code"`
	RequestID string `json:"requestId"`
}

type envelope struct {
	Success           bool            `json:"success"`
	Results           json.RawMessage `json:"results"`
	Errors            json.RawMessage `json:"errors"`
	Error             json.RawMessage `json:"error"`
	ErrorInfo         *errorInfo      `json:"errorInfo"`
	MoreDataAvailable bool            `json:"moreDataAvailable"`
	NextCursor        string          `json:"nextCursor"`
}

func (c *HTTPClient) CandidateInfo(ctx context.Context, candidateID string) (*Candidate, error) {
	const op = "ashby.CandidateInfo"
	env, err := c.post(ctx, "candidate.info", map[string]any{"id": candidateID})
	if err != nil {
		return nil, classify(op, err)
	}
	var candidate Candidate
	if err := json.Unmarshal(env.Results, &candidate); err != nil {
		return nil, classify(op, fmt.Errorf("decode candidate: %w", err))
	}
	if candidate.ID == "" || candidate.Name == "" {
		return nil, classify(op, fmt.Errorf("%w: %s", ErrInvalidCandidate, candidateID))
	}
	return &candidate, nil
}

func (c *HTTPClient) FileURL(ctx context.Context, handle string) (string, error) {
	const op = "ashby.FileURL"
	env, err := c.post(ctx, "file.info", map[string]any{"handle": handle})
	if err != nil {
		return "", classify(op, err)
	}
	var file struct {
		URL string `json:"url"`
	}
	if err := json.Unmarshal(env.Results, &file); err != nil {
		return "", classify(op, fmt.Errorf("decode file: %w", err))
	}
	if file.URL == "" {
		return "", classify(op, ErrMissingFileURL)
	}
	return file.URL, nil
}

func (c *HTTPClient) FeedbackFormDefinition(ctx context.Context, formDefinitionID string) (*FormDefinition, error) {
	const op = "ashby.FeedbackFormDefinition"
	env, err := c.post(ctx, "feedbackFormDefinition.info", map[string]any{"feedbackFormDefinitionId": formDefinitionID})
	if err != nil {
		return nil, classify(op, err)
	}
	def, err := decodeFormDefinition(env.Results)
	if err != nil {
		return nil, classify(op, err)
	}
	if def.ID == "" {
		def.ID = formDefinitionID
	}
	return def, nil
}

func (c *HTTPClient) ListFeedbackFormDefinitions(ctx context.Context, cursor string) (Page[FormDefinition], error) {
	const op = "ashby.ListFeedbackFormDefinitions"
	env, err := c.post(ctx, "feedbackFormDefinition.list", listBody(cursor))
	if err != nil {
		return Page[FormDefinition]{}, classify(op, err)
	}
	var raws []json.RawMessage
	if err := json.Unmarshal(env.Results, &raws); err != nil {
		return Page[FormDefinition]{}, classify(op, fmt.Errorf("decode list: %w", err))
	}
	page := Page[FormDefinition]{
		Results:           make([]FormDefinition, 0, len(raws)),
		MoreDataAvailable: env.MoreDataAvailable,
		NextCursor:        env.NextCursor,
	}
	for _, raw := range raws {
		def, err := decodeFormDefinition(raw)
		if err != nil {
			return Page[FormDefinition]{}, classify(op, err)
		}
		page.Results = append(page.Results, *def)
	}
	return page, nil
}

func (c *HTTPClient) InterviewInfo(ctx context.Context, interviewID string) (*Interview, error) {
	const op = "ashby.InterviewInfo"
	env, err := c.post(ctx, "interview.info", map[string]any{"id": interviewID})
	if err != nil {
		return nil, classify(op, err)
	}
	var interview Interview
	if err := json.Unmarshal(env.Results, &interview); err != nil {
		return nil, classify(op, fmt.Errorf("decode interview: %w", err))
	}
	if interview.ID == "" {
		interview.ID = interviewID
	}
	return &interview, nil
}

func (c *HTTPClient) ListInterviews(ctx context.Context, cursor string) (Page[Interview], error) {
	const op = "ashby.ListInterviews"
	env, err := c.post(ctx, "interview.list", listBody(cursor))
	if err != nil {
		return Page[Interview]{}, classify(op, err)
	}
	var results []Interview
	if err := json.Unmarshal(env.Results, &results); err != nil {
		return Page[Interview]{}, classify(op, fmt.Errorf("decode list: %w", err))
	}
	return Page[Interview]{
		Results:           results,
		MoreDataAvailable: env.MoreDataAvailable,
		NextCursor:        env.NextCursor,
	}, nil
}

func (c *HTTPClient) JobInfo(ctx context.Context, jobID string) (*Job, error) {
	const op = "ashby.JobInfo"
	env, err := c.post(ctx, "job.info", map[string]any{"id": jobID})
	if err != nil {
		return nil, classify(op, err)
	}
	var job Job
	if err := json.Unmarshal(env.Results, &job); err != nil {
		return nil, classify(op, fmt.Errorf("decode job: %w", err))
	}
	return &job, nil
}

func (c *HTTPClient) SubmitFeedback(ctx context.Context, submission FeedbackSubmission) error {
	const op = "ashby.SubmitFeedback"
	fields := submission.FieldSubmissions
	if fields == nil {
		fields = []FieldSubmission{}
	}
	body := map[string]any{
		"formDefinitionId": submission.FormDefinitionID,
		"applicationId":    submission.ApplicationID,
		"userId":           submission.UserID,
		"interviewEventId": submission.InterviewEventID,
		"feedbackForm":     map[string]any{"fieldSubmissions": fields},
	}
	if _, err := c.post(ctx, "applicationFeedback.submit", body); err != nil {
		return classify(op, err)
	}
	return nil
}

func listBody(cursor string) map[string]any {
	body := map[string]any{"limit": pageLimit}
	if cursor != "" {
		body["cursor"] = cursor
	}
	return body
}

func decodeFormDefinition(raw json.RawMessage) (*FormDefinition, error) {
	var def FormDefinition
	if err := json.Unmarshal(raw, &def); err != nil {
		return nil, fmt.Errorf("decode form definition: %w", err)
	}
	def.Raw = append(json.RawMessage(nil), raw...)
	return &def, nil
}

func (c *HTTPClient) post(ctx context.Context, endpoint string, body any) (*envelope, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	ctx, span := obstracing.Tracer("ashby").Start(ctx, "ashby."+endpoint)
	defer span.End()
	span.SetAttributes(attribute.String("ashby.endpoint", endpoint))

	env, err := c.do(ctx, endpoint, body)
	if err != nil {
		span.RecordError(obstracing.SafeError(err))
		span.SetStatus(codes.Error, "ashby request failed")
		return nil, err
	}
	return env, nil
}

func (c *HTTPClient) do(ctx context.Context, endpoint string, body any) (*envelope, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", endpoint, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/"+endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", c.authHeader)
	req.Header.Set("Accept", "application/json; version=1")
	req.Header.Set("Content-Type", "application/json")

	c.log.Debug("ashby request", zap.String("endpoint", endpoint))
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ashby %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &APIError{
			Endpoint:   endpoint,
			StatusCode: resp.StatusCode,
			Message:    strings.TrimSpace(string(snippet)),
		}
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("decode %s response: %w", endpoint, err)
	}
	if !env.Success {
		apiErr := &APIError{Endpoint: endpoint, Message: errorMessage(env)}
		if env.ErrorInfo != nil {
			apiErr.Code = env.ErrorInfo.Code
			apiErr.RequestID = env.ErrorInfo.RequestID
		}
		c.log.Error("ashby api error",
			zap.String("endpoint", endpoint),
			zap.String("error_code", apiErr.Code),
			zap.String("ashby_request_id", apiErr.RequestID),
			zap.String("message", apiErr.Message),
		)
		return nil, apiErr
	}
	return &env, nil
}

// errorMessage flattens the errors/error fields, which arrive as either a
// string or a list of strings.
func errorMessage(env envelope) string {
	for _, raw := range []json.RawMessage{env.Errors, env.Error} {
		if len(raw) == 0 || string(raw) == "null" {
			continue
		}
		var single string
		if err := json.Unmarshal(raw, &single); err == nil && single != "" {
			return single
		}
		var list []string
		if err := json.Unmarshal(raw, &list); err == nil && len(list) > 0 {
			return strings.Join(list, "; ")
		}
		return string(raw)
	}
	if env.ErrorInfo != nil && env.ErrorInfo.Code != "" {
		return env.ErrorInfo.Code
	}
	return "unknown error"
}

var _ Client = (*HTTPClient)(nil)
