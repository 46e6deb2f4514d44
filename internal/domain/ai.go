package domain

import "context"

// DefaultCodeLanguage is what the server assumes when a code request names
// no language.
const DefaultCodeLanguage = "python"

// DefaultExperienceLevel is what the server assumes when a career request
// names no level.
const DefaultExperienceLevel = "beginner"

// CodeRequest is the payload for POST /ai/explain-code and
// POST /ai/detect-bugs.
type CodeRequest struct {
	Code     string `json:"code" validate:"required"`
	Language string `json:"language,omitempty"`
}

// CareerRequest is the payload for POST /ai/career-guidance.
type CareerRequest struct {
	Skills          []string `json:"skills" validate:"required,min=1"`
	Interests       string   `json:"interests"`
	ExperienceLevel string   `json:"experience_level,omitempty"`
}

// CaptionRequest is the payload for POST /ai/generate-caption. At least one
// of Content and CodeSnippet must be set.
type CaptionRequest struct {
	Content     string `json:"content"`
	CodeSnippet string `json:"code_snippet"`
}

// Caption is the response of POST /ai/generate-caption.
type Caption struct {
	Caption  string   `json:"caption"`
	Hashtags []string `json:"hashtags"`
}

// AIAPI is the port for the remote text-generation endpoints. Responses are
// free text and are passed through as returned.
type AIAPI interface {
	ExplainCode(ctx context.Context, req CodeRequest) (string, error)
	DetectBugs(ctx context.Context, req CodeRequest) (string, error)
	CareerGuidance(ctx context.Context, req CareerRequest) (string, error)
	GenerateCaption(ctx context.Context, req CaptionRequest) (*Caption, error)
}
