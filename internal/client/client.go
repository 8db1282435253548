// Package client is the typed REST client of the veille API. Every call
// mirrors one endpoint; any non-2xx response reduces to an *APIError.
package client

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/agentit/Prompty-Veille/internal/model"
)

// APIError carries the status and server-side message of a rejected request.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.Status, e.Message)
}

type errorBody struct {
	Error string `json:"error"`
}

type messageBody struct {
	Message string `json:"message"`
}

type Client struct {
	http *resty.Client
}

func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		http: resty.New().
			SetBaseURL(strings.TrimRight(baseURL, "/")).
			SetTimeout(timeout),
	}
}

// check folds transport errors and error-status responses into one error.
func check(resp *resty.Response, err error) error {
	if err != nil {
		return err
	}
	if !resp.IsError() {
		return nil
	}

	msg := resp.Status()
	if body, ok := resp.Error().(*errorBody); ok && body.Error != "" {
		msg = body.Error
	}
	return &APIError{Status: resp.StatusCode(), Message: msg}
}

func (c *Client) req(ctx context.Context) *resty.Request {
	return c.http.R().SetContext(ctx).SetError(&errorBody{})
}

func (c *Client) Sources(ctx context.Context) ([]model.Source, error) {
	var out []model.Source
	err := check(c.req(ctx).SetResult(&out).Get("/api/sources"))
	return out, err
}

func (c *Client) Source(ctx context.Context, id string) (model.Source, error) {
	var out model.Source
	err := check(c.req(ctx).SetResult(&out).Get("/api/sources/" + id))
	return out, err
}

func (c *Client) CreateSource(ctx context.Context, in model.SourceInput) (model.Source, error) {
	var out model.Source
	err := check(c.req(ctx).SetBody(in).SetResult(&out).Post("/api/sources"))
	return out, err
}

func (c *Client) UpdateSource(ctx context.Context, id string, in model.SourceInput) (model.Source, error) {
	var out model.Source
	err := check(c.req(ctx).SetBody(in).SetResult(&out).Put("/api/sources/" + id))
	return out, err
}

func (c *Client) DeleteSource(ctx context.Context, id string) error {
	return check(c.req(ctx).Delete("/api/sources/" + id))
}

// ToggleSource flips the source's active flag and returns the new state.
func (c *Client) ToggleSource(ctx context.Context, id string) (bool, error) {
	var out struct {
		Active bool `json:"active"`
	}
	err := check(c.req(ctx).SetResult(&out).Post("/api/sources/" + id + "/toggle"))
	return out.Active, err
}

// SummariesQuery narrows the summaries listing server-side.
type SummariesQuery struct {
	Category string
	Tag      string
	IsNew    *bool
}

func (c *Client) Summaries(ctx context.Context, q SummariesQuery) ([]model.Summary, error) {
	req := c.req(ctx)
	if q.Category != "" {
		req.SetQueryParam("category", q.Category)
	}
	if q.Tag != "" {
		req.SetQueryParam("tag", q.Tag)
	}
	if q.IsNew != nil {
		req.SetQueryParam("is_new", strconv.FormatBool(*q.IsNew))
	}

	var out []model.Summary
	err := check(req.SetResult(&out).Get("/api/summaries"))
	return out, err
}

func (c *Client) Summary(ctx context.Context, id string) (model.Summary, error) {
	var out model.Summary
	err := check(c.req(ctx).SetResult(&out).Get("/api/summaries/" + id))
	return out, err
}

func (c *Client) MarkSummaryRead(ctx context.Context, id string) error {
	return check(c.req(ctx).Post("/api/summaries/" + id + "/mark-read"))
}

func (c *Client) DeleteSummary(ctx context.Context, id string) error {
	return check(c.req(ctx).Delete("/api/summaries/" + id))
}

// ProcessURL asks for an on-demand summarization of one page; the result is
// persisted server-side only when save is true.
func (c *Client) ProcessURL(ctx context.Context, url string, save bool) (model.Summary, error) {
	var out model.Summary
	err := check(c.req(ctx).
		SetBody(model.ProcessURLRequest{URL: url, Save: save}).
		SetResult(&out).
		Post("/api/process-url"))
	return out, err
}

func (c *Client) CompileArticle(ctx context.Context, title, theme string, summaryIDs []string) (model.Article, error) {
	var out model.Article
	err := check(c.req(ctx).
		SetBody(model.CompileArticleRequest{Title: title, Theme: theme, SummaryIDs: summaryIDs}).
		SetResult(&out).
		Post("/api/articles"))
	return out, err
}

func (c *Client) Articles(ctx context.Context) ([]model.Article, error) {
	var out []model.Article
	err := check(c.req(ctx).SetResult(&out).Get("/api/articles"))
	return out, err
}

func (c *Client) Article(ctx context.Context, id string) (model.Article, error) {
	var out model.Article
	err := check(c.req(ctx).SetResult(&out).Get("/api/articles/" + id))
	return out, err
}

func (c *Client) DeleteArticle(ctx context.Context, id string) error {
	return check(c.req(ctx).Delete("/api/articles/" + id))
}

func (c *Client) Tags(ctx context.Context) ([]string, error) {
	var out []string
	err := check(c.req(ctx).SetResult(&out).Get("/api/tags"))
	return out, err
}

func (c *Client) Categories(ctx context.Context) ([]string, error) {
	var out []string
	err := check(c.req(ctx).SetResult(&out).Get("/api/categories"))
	return out, err
}

func (c *Client) Stats(ctx context.Context) (model.Stats, error) {
	var out model.Stats
	err := check(c.req(ctx).SetResult(&out).Get("/api/stats"))
	return out, err
}

// CheckSources triggers the background source check and returns the server's
// acknowledgement line.
func (c *Client) CheckSources(ctx context.Context) (string, error) {
	var out messageBody
	err := check(c.req(ctx).SetResult(&out).Post("/api/check-sources"))
	return out.Message, err
}
