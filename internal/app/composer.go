package app

import (
	"context"
	"fmt"
	"io"
	"slices"
	"strings"

	"devsocial/internal/domain"
)

// AttachMedia uploads r and points np at the stored file. The upload is
// opaque: the server's url and media_type are copied as returned.
func AttachMedia(ctx context.Context, media domain.MediaAPI, np *domain.NewPost, filename string, r io.Reader) error {
	up, err := media.Upload(ctx, filename, r)
	if err != nil {
		return fmt.Errorf("upload %s: %w", filename, err)
	}
	np.MediaURL = up.URL
	np.MediaType = up.MediaType
	return nil
}

// captionPlaceholder is sent as content for code-only drafts.
const captionPlaceholder = "Code snippet post"

// SuggestCaption asks the server for a caption and hashtags for np. A
// non-empty caption that differs from the draft replaces np.Content; the
// suggested hashtags are merged into np.Hashtags without duplicates. A draft
// with neither content nor code is rejected locally.
func SuggestCaption(ctx context.Context, ai domain.AIAPI, np *domain.NewPost) error {
	content := strings.TrimSpace(np.Content)
	if content == "" && strings.TrimSpace(np.CodeSnippet) == "" {
		return &domain.ValidationError{Fields: []string{"content"}}
	}
	if content == "" {
		content = captionPlaceholder
	}
	c, err := ai.GenerateCaption(ctx, domain.CaptionRequest{Content: content, CodeSnippet: np.CodeSnippet})
	if err != nil {
		return fmt.Errorf("generate caption: %w", err)
	}
	if c.Caption != "" && c.Caption != np.Content {
		np.Content = c.Caption
	}
	for _, tag := range c.Hashtags {
		if tag != "" && !slices.Contains(np.Hashtags, tag) {
			np.Hashtags = append(np.Hashtags, tag)
		}
	}
	return nil
}
