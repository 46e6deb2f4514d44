package adapthttp

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"path/filepath"

	"devsocial/internal/domain"
)

// Upload sends a media file as multipart/form-data and returns the URL the
// server stored it under.
func (c *Client) Upload(ctx context.Context, filename string, r io.Reader) (*domain.Upload, error) {
	const op = "media.upload"

	br := bufio.NewReader(r)
	contentType := mime.TypeByExtension(filepath.Ext(filename))
	if contentType == "" {
		head, _ := br.Peek(512)
		contentType = http.DetectContentType(head)
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, filepath.Base(filename)))
	h.Set("Content-Type", contentType)
	part, err := mw.CreatePart(h)
	if err != nil {
		return nil, &domain.APIError{Op: op, Kind: domain.KindUnknown, Err: err}
	}
	if _, err := io.Copy(part, br); err != nil {
		return nil, &domain.APIError{Op: op, Kind: domain.KindUnknown, Err: fmt.Errorf("read file: %w", err)}
	}
	if err := mw.Close(); err != nil {
		return nil, &domain.APIError{Op: op, Kind: domain.KindUnknown, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base.JoinPath("upload").String(), &body)
	if err != nil {
		return nil, &domain.APIError{Op: op, Kind: domain.KindUnknown, Err: err}
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var up domain.Upload
	if err := c.send(op, req, &up); err != nil {
		return nil, err
	}
	return &up, nil
}
