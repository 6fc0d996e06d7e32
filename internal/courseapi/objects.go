package courseapi

import (
	"context"
	"fmt"

	"github.com/goliatone/go-coursesync/pkg/interfaces"
)

// route holds the REST shape of one object type: its collection endpoint
// and the envelope key write payloads are wrapped in.
type route struct {
	collection string
	envelope   string
}

func (c *Client) routeFor(objType interfaces.ObjectType) (route, error) {
	switch objType {
	case interfaces.ObjectPage:
		return route{
			collection: fmt.Sprintf("/api/v1/courses/%s/pages", c.courseID),
			envelope:   "wiki_page",
		}, nil
	case interfaces.ObjectAssignment:
		return route{
			collection: fmt.Sprintf("/api/v1/courses/%s/assignments", c.courseID),
			envelope:   "assignment",
		}, nil
	case interfaces.ObjectQuiz:
		return route{
			collection: fmt.Sprintf("/api/quiz/v1/courses/%s/quizzes", c.courseID),
			envelope:   "quiz",
		}, nil
	case interfaces.ObjectEvent:
		return route{
			collection: "/api/v1/calendar_events",
			envelope:   "calendar_event",
		}, nil
	}
	return route{}, fmt.Errorf("courseapi: unsupported object type %q", objType)
}

func (c *Client) CreateObject(ctx context.Context, objType interfaces.ObjectType, fields interfaces.ObjectFields) (*interfaces.RemoteObject, error) {
	rt, err := c.routeFor(objType)
	if err != nil {
		return nil, err
	}
	if objType == interfaces.ObjectEvent {
		fields = withContextCode(fields, c.courseID)
	}

	var payload objectPayload
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string]any{rt.envelope: fields}).
		SetSuccessResult(&payload).
		SetErrorResult(&apiError{}).
		Post(rt.collection)
	if err := handleAPIError(resp, err, fmt.Sprintf("create %s", objType)); err != nil {
		return nil, err
	}
	return payload.normalize(objType), nil
}

func (c *Client) GetObject(ctx context.Context, objType interfaces.ObjectType, id string) (*interfaces.RemoteObject, error) {
	rt, err := c.routeFor(objType)
	if err != nil {
		return nil, err
	}

	var payload objectPayload
	resp, err := c.http.R().
		SetContext(ctx).
		SetSuccessResult(&payload).
		SetErrorResult(&apiError{}).
		Get(rt.collection + "/" + id)
	if err := handleAPIError(resp, err, fmt.Sprintf("get %s %s", objType, id)); err != nil {
		return nil, err
	}
	return payload.normalize(objType), nil
}

func (c *Client) EditObject(ctx context.Context, objType interfaces.ObjectType, id string, fields interfaces.ObjectFields) (*interfaces.RemoteObject, error) {
	rt, err := c.routeFor(objType)
	if err != nil {
		return nil, err
	}

	var payload objectPayload
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string]any{rt.envelope: fields}).
		SetSuccessResult(&payload).
		SetErrorResult(&apiError{}).
		Put(rt.collection + "/" + id)
	if err := handleAPIError(resp, err, fmt.Sprintf("edit %s %s", objType, id)); err != nil {
		return nil, err
	}
	return payload.normalize(objType), nil
}

func (c *Client) DeleteObject(ctx context.Context, objType interfaces.ObjectType, id string) error {
	rt, err := c.routeFor(objType)
	if err != nil {
		return err
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetErrorResult(&apiError{}).
		Delete(rt.collection + "/" + id)
	return handleAPIError(resp, err, fmt.Sprintf("delete %s %s", objType, id))
}

func (c *Client) ListObjects(ctx context.Context, objType interfaces.ObjectType, filter interfaces.ObjectFilter) ([]*interfaces.RemoteObject, error) {
	rt, err := c.routeFor(objType)
	if err != nil {
		return nil, err
	}

	request := c.http.R().
		SetContext(ctx).
		SetQueryParam("per_page", "100").
		SetErrorResult(&apiError{})
	if filter.SearchTerm != "" {
		request.SetQueryParam("search_term", filter.SearchTerm)
	}

	var payloads []objectPayload
	resp, err := request.SetSuccessResult(&payloads).Get(rt.collection)
	if err := handleAPIError(resp, err, fmt.Sprintf("list %s", objType)); err != nil {
		return nil, err
	}

	out := make([]*interfaces.RemoteObject, 0, len(payloads))
	for i := range payloads {
		out = append(out, payloads[i].normalize(objType))
	}
	return out, nil
}

func withContextCode(fields interfaces.ObjectFields, courseID string) interfaces.ObjectFields {
	out := make(interfaces.ObjectFields, len(fields)+1)
	for k, v := range fields {
		out[k] = v
	}
	out["context_code"] = "course_" + courseID
	return out
}
