// Package courseapi implements the remote capability surface over the
// course provider's REST API. The sync core never sees transport details;
// everything behind interfaces.CourseClient and interfaces.QuizItemClient
// lives here.
package courseapi

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/imroc/req/v3"

	"github.com/goliatone/go-coursesync/internal/logging"
	"github.com/goliatone/go-coursesync/pkg/interfaces"
)

// Config carries the connection settings for one course.
type Config struct {
	BaseURL  string
	Token    string
	CourseID string
}

// Client talks to the provider's REST API for a single course.
type Client struct {
	http     *req.Client
	courseID string
	logger   interfaces.Logger
}

// New builds a client with sane retry defaults and bearer authentication.
func New(cfg Config, logger interfaces.Logger) *Client {
	if logger == nil {
		logger = logging.NoOp()
	}
	http := req.C().
		SetBaseURL(cfg.BaseURL).
		SetCommonBearerAuthToken(cfg.Token).
		SetCommonRetryCount(3).
		SetCommonRetryFixedInterval(1*time.Second).
		SetCommonHeader("Accept", "application/json")

	return &Client{http: http, courseID: cfg.CourseID, logger: logger}
}

var _ interfaces.CourseClient = (*Client)(nil)
var _ interfaces.QuizItemClient = (*Client)(nil)

// apiError is the provider's error envelope.
type apiError struct {
	Message string `json:"message"`
	Errors  any    `json:"errors"`
}

// handleAPIError folds transport errors and API error responses into one
// error value per call site.
func handleAPIError(resp *req.Response, requestErr error, operation string) error {
	if requestErr != nil {
		return fmt.Errorf("courseapi: %s: %w", operation, requestErr)
	}
	if resp.IsErrorState() {
		if apiErr, ok := resp.ErrorResult().(*apiError); ok && apiErr.Message != "" {
			return fmt.Errorf("courseapi: %s: %s (status %d)", operation, apiErr.Message, resp.StatusCode)
		}
		return fmt.Errorf("courseapi: %s: status %d", operation, resp.StatusCode)
	}
	return nil
}

// objectPayload is the union of the provider's per-type response shapes.
// Pages report page_id/title, assignments id/name; normalize() folds them
// into the capability contract's view.
type objectPayload struct {
	ID        json.Number `json:"id"`
	PageID    json.Number `json:"page_id"`
	Title     string      `json:"title"`
	Name      string      `json:"name"`
	HTMLURL   string      `json:"html_url"`
	Published bool        `json:"published"`
}

func (p *objectPayload) normalize(objType interfaces.ObjectType) *interfaces.RemoteObject {
	id := p.ID.String()
	if id == "" || id == "0" {
		id = p.PageID.String()
	}
	title := p.Title
	if title == "" {
		title = p.Name
	}
	return &interfaces.RemoteObject{
		ID:        id,
		Type:      objType,
		Title:     title,
		URL:       p.HTMLURL,
		Published: p.Published,
	}
}
