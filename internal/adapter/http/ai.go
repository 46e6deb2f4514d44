package adapthttp

import (
	"context"
	"net/http"

	"devsocial/internal/domain"
)

// ExplainCode asks the server to explain a snippet. The explanation is
// returned as sent.
func (c *Client) ExplainCode(ctx context.Context, req domain.CodeRequest) (string, error) {
	var res struct {
		Explanation string `json:"explanation"`
	}
	if err := c.do(ctx, "ai.explain_code", http.MethodPost, []string{"ai", "explain-code"}, nil, req, &res); err != nil {
		return "", err
	}
	return res.Explanation, nil
}

// DetectBugs asks the server to review a snippet for bugs.
func (c *Client) DetectBugs(ctx context.Context, req domain.CodeRequest) (string, error) {
	var res struct {
		Analysis string `json:"analysis"`
	}
	if err := c.do(ctx, "ai.detect_bugs", http.MethodPost, []string{"ai", "detect-bugs"}, nil, req, &res); err != nil {
		return "", err
	}
	return res.Analysis, nil
}

// CareerGuidance asks for advice based on the given skills.
func (c *Client) CareerGuidance(ctx context.Context, req domain.CareerRequest) (string, error) {
	if req.Skills == nil {
		req.Skills = []string{}
	}
	var res struct {
		Guidance string `json:"guidance"`
	}
	if err := c.do(ctx, "ai.career_guidance", http.MethodPost, []string{"ai", "career-guidance"}, nil, req, &res); err != nil {
		return "", err
	}
	return res.Guidance, nil
}

// GenerateCaption asks for a caption and hashtags for a draft post.
func (c *Client) GenerateCaption(ctx context.Context, req domain.CaptionRequest) (*domain.Caption, error) {
	var res domain.Caption
	if err := c.do(ctx, "ai.generate_caption", http.MethodPost, []string{"ai", "generate-caption"}, nil, req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}
