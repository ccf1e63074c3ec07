package service

import (
	"bytes"
	"context"
	"course_admin_gateway/internal/backend"
	"course_admin_gateway/internal/model"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/url"
	"strconv"
)

// proxy bundles the backend client with the admin token source. Every
// resource service embeds one.
type proxy struct {
	client *backend.Client
	tokens *AdminTokenService
}

// public performs a call that needs no admin token.
func (p proxy) public(ctx context.Context, req *backend.Request, out interface{}) error {
	return p.client.Call(ctx, req, out)
}

// admin performs a call with the admin bearer token attached.
func (p proxy) admin(ctx context.Context, req *backend.Request, out interface{}) error {
	return p.tokens.Do(ctx, func(token string) error {
		r := *req
		r.Token = token
		return p.client.Call(ctx, &r, out)
	})
}

// decodeCreated reads what a create endpoint answered with: the full
// record, an object carrying only the id, or a bare id. The returned id is
// set in the last two cases.
func decodeCreated(path string, raw json.RawMessage, out interface{}) (model.ID, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return "", nil
	}
	if trimmed[0] != '{' && trimmed[0] != '[' {
		var id model.ID
		if err := json.Unmarshal(trimmed, &id); err == nil {
			return id, nil
		}
		// plain-text confirmation such as "Created"
		return "", nil
	}
	if err := backend.DecodeInto(path, trimmed, out); err != nil {
		return "", err
	}
	return "", nil
}

func pathID(prefix string, id string) string {
	return prefix + "/" + url.PathEscape(id)
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// FormFileFromHeader adapts an uploaded multipart file for forwarding.
func FormFileFromHeader(field string, fh *multipart.FileHeader) *backend.FormFile {
	if fh == nil {
		return nil
	}
	return &backend.FormFile{
		Field:       field,
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Open: func() (io.ReadCloser, error) {
			return fh.Open()
		},
	}
}
