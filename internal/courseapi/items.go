package courseapi

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/goliatone/go-coursesync/pkg/interfaces"
)

type itemPayload struct {
	ID       json.Number `json:"id"`
	Position int         `json:"position"`
	Entry    struct {
		Title string `json:"title"`
	} `json:"entry"`
}

func (p *itemPayload) normalize() *interfaces.RemoteItem {
	return &interfaces.RemoteItem{ID: p.ID.String(), Position: p.Position, Title: p.Entry.Title}
}

func (c *Client) itemsPath(quizID string) string {
	return fmt.Sprintf("/api/quiz/v1/courses/%s/quizzes/%s/items", c.courseID, quizID)
}

func (c *Client) ListItems(ctx context.Context, quizID string) ([]*interfaces.RemoteItem, error) {
	var payloads []itemPayload
	resp, err := c.http.R().
		SetContext(ctx).
		SetSuccessResult(&payloads).
		SetErrorResult(&apiError{}).
		Get(c.itemsPath(quizID))
	if err := handleAPIError(resp, err, "list quiz items"); err != nil {
		return nil, err
	}

	out := make([]*interfaces.RemoteItem, 0, len(payloads))
	for i := range payloads {
		out = append(out, payloads[i].normalize())
	}
	return out, nil
}

func (c *Client) CreateItem(ctx context.Context, quizID string, payload interfaces.ObjectFields) (*interfaces.RemoteItem, error) {
	var created itemPayload
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string]any{"item": payload}).
		SetSuccessResult(&created).
		SetErrorResult(&apiError{}).
		Post(c.itemsPath(quizID))
	if err := handleAPIError(resp, err, "create quiz item"); err != nil {
		return nil, err
	}
	return created.normalize(), nil
}

func (c *Client) UpdateItem(ctx context.Context, quizID, itemID string, payload interfaces.ObjectFields) (*interfaces.RemoteItem, error) {
	var updated itemPayload
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string]any{"item": payload}).
		SetSuccessResult(&updated).
		SetErrorResult(&apiError{}).
		Patch(c.itemsPath(quizID) + "/" + itemID)
	if err := handleAPIError(resp, err, fmt.Sprintf("update quiz item %s", itemID)); err != nil {
		return nil, err
	}
	return updated.normalize(), nil
}

func (c *Client) DeleteItem(ctx context.Context, quizID, itemID string) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetErrorResult(&apiError{}).
		Delete(c.itemsPath(quizID) + "/" + itemID)
	return handleAPIError(resp, err, fmt.Sprintf("delete quiz item %s", itemID))
}
