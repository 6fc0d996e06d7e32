package courseapi

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/goliatone/go-coursesync/pkg/interfaces"
)

type folderPayload struct {
	ID   json.Number `json:"id"`
	Name string      `json:"name"`
}

type filePayload struct {
	ID          json.Number `json:"id"`
	DisplayName string      `json:"display_name"`
	Filename    string      `json:"filename"`
	URL         string      `json:"url"`
}

func (p *filePayload) normalize() *interfaces.RemoteFile {
	name := p.DisplayName
	if name == "" {
		name = p.Filename
	}
	return &interfaces.RemoteFile{ID: p.ID.String(), Name: name, URL: p.URL}
}

// uploadTicket is the first leg of the provider's two-step upload: the
// server hands back a one-time URL and a set of form parameters that must
// accompany the binary.
type uploadTicket struct {
	UploadURL    string         `json:"upload_url"`
	UploadParams map[string]any `json:"upload_params"`
}

// UploadBinary pushes a local file into a folder, overwriting any previous
// file of the same name.
func (c *Client) UploadBinary(ctx context.Context, folderID string, localPath string) (*interfaces.RemoteFile, error) {
	name := filepath.Base(localPath)

	var ticket uploadTicket
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string]any{"name": name, "on_duplicate": "overwrite"}).
		SetSuccessResult(&ticket).
		SetErrorResult(&apiError{}).
		Post(fmt.Sprintf("/api/v1/folders/%s/files", folderID))
	if err := handleAPIError(resp, err, "request upload ticket"); err != nil {
		return nil, err
	}
	if ticket.UploadURL == "" {
		return nil, fmt.Errorf("courseapi: upload ticket for %s has no url", name)
	}

	form := make(map[string]string, len(ticket.UploadParams))
	for key, value := range ticket.UploadParams {
		form[key] = fmt.Sprint(value)
	}

	var payload filePayload
	resp, err = c.http.R().
		SetContext(ctx).
		SetFormData(form).
		SetFile("file", localPath).
		SetSuccessResult(&payload).
		SetErrorResult(&apiError{}).
		Post(ticket.UploadURL)
	if err := handleAPIError(resp, err, fmt.Sprintf("upload %s", name)); err != nil {
		return nil, err
	}
	return payload.normalize(), nil
}

func (c *Client) ListFolders(ctx context.Context) ([]*interfaces.RemoteFolder, error) {
	var payloads []folderPayload
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("per_page", "100").
		SetSuccessResult(&payloads).
		SetErrorResult(&apiError{}).
		Get(fmt.Sprintf("/api/v1/courses/%s/folders", c.courseID))
	if err := handleAPIError(resp, err, "list folders"); err != nil {
		return nil, err
	}

	out := make([]*interfaces.RemoteFolder, 0, len(payloads))
	for _, p := range payloads {
		out = append(out, &interfaces.RemoteFolder{ID: p.ID.String(), Name: p.Name})
	}
	return out, nil
}

func (c *Client) CreateFolder(ctx context.Context, name string) (*interfaces.RemoteFolder, error) {
	var payload folderPayload
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string]any{"name": name, "parent_folder_path": "/"}).
		SetSuccessResult(&payload).
		SetErrorResult(&apiError{}).
		Post(fmt.Sprintf("/api/v1/courses/%s/folders", c.courseID))
	if err := handleAPIError(resp, err, fmt.Sprintf("create folder %s", name)); err != nil {
		return nil, err
	}
	return &interfaces.RemoteFolder{ID: payload.ID.String(), Name: payload.Name}, nil
}

func (c *Client) ListFolderContents(ctx context.Context, folderID string) ([]*interfaces.RemoteFile, error) {
	var payloads []filePayload
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("per_page", "100").
		SetSuccessResult(&payloads).
		SetErrorResult(&apiError{}).
		Get(fmt.Sprintf("/api/v1/folders/%s/files", folderID))
	if err := handleAPIError(resp, err, "list folder contents"); err != nil {
		return nil, err
	}

	out := make([]*interfaces.RemoteFile, 0, len(payloads))
	for i := range payloads {
		out = append(out, payloads[i].normalize())
	}
	return out, nil
}

func (c *Client) DeleteFile(ctx context.Context, id string) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetErrorResult(&apiError{}).
		Delete("/api/v1/files/" + id)
	return handleAPIError(resp, err, fmt.Sprintf("delete file %s", id))
}
