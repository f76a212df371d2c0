package godev

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

func (c *Client) ListResumes(ctx context.Context, page, limit int) (*Page[Resume], error) {
	params := url.Values{}
	params.Set("page", strconv.Itoa(page))
	params.Set("limit", strconv.Itoa(limit))

	var result Page[Resume]
	if err := c.get(ctx, "/resumes", "/resumes", params, &result); err != nil {
		c.logger.Error("failed to list resumes", zap.Error(err))
		return nil, fmt.Errorf("list resumes: %w", err)
	}

	c.logger.Debug("resumes found", zap.Int("returned", len(result.Items)))

	return &result, nil
}

// UploadResume sends the file as the multipart field "file".
func (c *Client) UploadResume(ctx context.Context, filename, mimeType string, content io.Reader) (*Resume, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition",
		fmt.Sprintf(`form-data; name="file"; filename="%s"`, escapeQuotes(filename)))
	header.Set("Content-Type", mimeType)

	part, err := w.CreatePart(header)
	if err != nil {
		return nil, fmt.Errorf("create form part: %w", err)
	}
	if _, err := io.Copy(part, content); err != nil {
		return nil, fmt.Errorf("copy resume content: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("close multipart writer: %w", err)
	}

	var resume Resume
	err = c.do(ctx, request{
		method:      http.MethodPost,
		path:        "/resumes",
		route:       "/resumes",
		body:        buf.Bytes(),
		contentType: w.FormDataContentType(),
	}, &resume)
	if err != nil {
		c.logger.Error("failed to upload resume",
			zap.String("filename", filename),
			zap.Error(err),
		)
		return nil, fmt.Errorf("upload resume: %w", err)
	}

	c.logger.Info("resume uploaded",
		zap.String("resume_id", resume.ID),
		zap.Int64("size", resume.Size),
	)

	return &resume, nil
}

func (c *Client) DeleteResume(ctx context.Context, resumeID string) error {
	path := fmt.Sprintf("/resumes/%s", url.PathEscape(resumeID))

	err := c.do(ctx, request{method: http.MethodDelete, path: path, route: "/resumes/:id"}, nil)
	if err != nil {
		c.logger.Error("failed to delete resume",
			zap.String("resume_id", resumeID),
			zap.Error(err),
		)
		return fmt.Errorf("delete resume: %w", err)
	}

	c.logger.Info("resume deleted", zap.String("resume_id", resumeID))
	return nil
}

// ResumeDownloadURL returns a signed URL for the stored file.
func (c *Client) ResumeDownloadURL(ctx context.Context, resumeID string) (string, error) {
	path := fmt.Sprintf("/resumes/%s/download", url.PathEscape(resumeID))

	var data struct {
		URL string `json:"url"`
	}
	if err := c.get(ctx, path, "/resumes/:id/download", nil, &data); err != nil {
		c.logger.Error("failed to get resume download url",
			zap.String("resume_id", resumeID),
			zap.Error(err),
		)
		return "", fmt.Errorf("resume download url: %w", err)
	}

	return data.URL, nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}
