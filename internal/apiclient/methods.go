package apiclient

import (
	"context"
	"io"
	"mime"
	"net/http"
	"net/url"
	"path/filepath"
)

// Get issues a GET with optional query parameters.
func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) error {
	_, err := c.Do(ctx, &Request{Method: http.MethodGet, Path: path, Query: query}, out)
	return err
}

// Post issues a POST with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	_, err := c.Do(ctx, &Request{Method: http.MethodPost, Path: path, Body: body}, out)
	return err
}

// Put issues a PUT with a JSON body.
func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	_, err := c.Do(ctx, &Request{Method: http.MethodPut, Path: path, Body: body}, out)
	return err
}

// Patch issues a PATCH with a JSON body.
func (c *Client) Patch(ctx context.Context, path string, body, out any) error {
	_, err := c.Do(ctx, &Request{Method: http.MethodPatch, Path: path, Body: body}, out)
	return err
}

// Delete issues a DELETE.
func (c *Client) Delete(ctx context.Context, path string, out any) error {
	_, err := c.Do(ctx, &Request{Method: http.MethodDelete, Path: path}, out)
	return err
}

// UploadResult is the payload of the image upload endpoint.
type UploadResult struct {
	URL      string `json:"url"`
	Filename string `json:"filename,omitempty"`
	Size     int64  `json:"size,omitempty"`
}

// UploadImage posts content as the "image" form file. progress, when set,
// receives increasing percentages ending at 100.
func (c *Client) UploadImage(ctx context.Context, filename string, content io.Reader, progress func(int)) (*UploadResult, error) {
	req := &Request{
		Method: http.MethodPost,
		Path:   UploadImagePath,
		Multipart: &Multipart{
			Files: []FilePart{{
				Field:       "image",
				Filename:    filename,
				ContentType: mime.TypeByExtension(filepath.Ext(filename)),
				Content:     content,
			}},
		},
		Progress: progress,
	}
	var out UploadResult
	if _, err := c.Do(ctx, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
