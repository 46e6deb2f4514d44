package app

import (
	"context"
	"strings"

	"devsocial/internal/domain"
)

// AITools runs the code and career assistants. Each tool has its own guard,
// so a second request to the same tool while one is running returns
// ErrMutationInFlight. Results are returned as the server sent them.
type AITools struct {
	viewState
	ai domain.AIAPI
}

// NewAITools creates the assistant view.
func NewAITools(ai domain.AIAPI, opts ...ViewOption) *AITools {
	t := &AITools{ai: ai}
	t.init(opts)
	return t
}

// ExplainCode explains a snippet. Blank code is rejected locally.
func (t *AITools) ExplainCode(ctx context.Context, req domain.CodeRequest) (string, error) {
	if err := domain.Validate(req); err != nil {
		return "", err
	}
	return t.run(ctx, "ai_explain_code", "Failed to explain code", func(ctx context.Context) (string, error) {
		return t.ai.ExplainCode(ctx, req)
	})
}

// DetectBugs reviews a snippet. Blank code is rejected locally.
func (t *AITools) DetectBugs(ctx context.Context, req domain.CodeRequest) (string, error) {
	if err := domain.Validate(req); err != nil {
		return "", err
	}
	return t.run(ctx, "ai_detect_bugs", "Failed to analyze code", func(ctx context.Context) (string, error) {
		return t.ai.DetectBugs(ctx, req)
	})
}

// CareerGuidance asks for advice. At least one non-blank skill is required;
// blank skills are dropped before sending.
func (t *AITools) CareerGuidance(ctx context.Context, req domain.CareerRequest) (string, error) {
	if err := domain.Validate(req); err != nil {
		return "", err
	}
	skills := make([]string, 0, len(req.Skills))
	for _, s := range req.Skills {
		if s = strings.TrimSpace(s); s != "" {
			skills = append(skills, s)
		}
	}
	req.Skills = skills
	return t.run(ctx, "ai_career_guidance", "Failed to get guidance", func(ctx context.Context) (string, error) {
		return t.ai.CareerGuidance(ctx, req)
	})
}

func (t *AITools) run(ctx context.Context, op, failMsg string, call func(context.Context) (string, error)) (string, error) {
	return mutate(ctx, &t.viewState, mutation[string]{
		op:      op,
		key:     "ai:" + op,
		failMsg: failMsg,
		call:    call,
		apply:   func(string) error { return nil },
	})
}
