package fakeapi

import (
	"fmt"
	"net/http"
	"strings"

	"devsocial/internal/domain"
)

// The AI handlers answer with fixed text built from the request, so tests
// can assert on it without a model behind the server.

var fallbackHashtags = []string{"coding", "developer", "tech"}

func (s *Server) handleExplainCode(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeCode(w, r)
	if !ok {
		return
	}
	lines := strings.Count(strings.TrimRight(req.Code, "\n"), "\n") + 1
	writeJSON(w, http.StatusOK, map[string]string{
		"explanation": fmt.Sprintf("This %s snippet has %d line(s).", req.Language, lines),
	})
}

func (s *Server) handleDetectBugs(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeCode(w, r)
	if !ok {
		return
	}
	analysis := fmt.Sprintf("No obvious bugs found in this %s code.", req.Language)
	if strings.Contains(req.Code, "TODO") {
		analysis = "Unfinished code: resolve the TODO markers."
	}
	writeJSON(w, http.StatusOK, map[string]string{"analysis": analysis})
}

func (s *Server) handleCareerGuidance(w http.ResponseWriter, r *http.Request) {
	var req domain.CareerRequest
	if err := parseJSON(r, &req); err != nil {
		writeDetail(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Skills == nil {
		writeMissing(w, "skills")
		return
	}
	if req.ExperienceLevel == "" {
		req.ExperienceLevel = domain.DefaultExperienceLevel
	}
	guidance := fmt.Sprintf("As a %s with %s, build projects that use them together.",
		req.ExperienceLevel, strings.Join(req.Skills, ", "))
	if req.Interests != "" {
		guidance += " Focus on " + req.Interests + "."
	}
	writeJSON(w, http.StatusOK, map[string]string{"guidance": guidance})
}

func (s *Server) handleGenerateCaption(w http.ResponseWriter, r *http.Request) {
	var req domain.CaptionRequest
	if err := parseJSON(r, &req); err != nil {
		writeDetail(w, http.StatusBadRequest, err.Error())
		return
	}
	tags := append([]string(nil), fallbackHashtags...)
	caption := req.Content
	if req.CodeSnippet != "" {
		caption = strings.TrimSpace(req.Content + " Code inside.")
		tags = append(tags, "code")
	}
	writeJSON(w, http.StatusOK, domain.Caption{Caption: caption, Hashtags: tags})
}

func decodeCode(w http.ResponseWriter, r *http.Request) (domain.CodeRequest, bool) {
	var req domain.CodeRequest
	if err := parseJSON(r, &req); err != nil {
		writeDetail(w, http.StatusBadRequest, err.Error())
		return req, false
	}
	if req.Language == "" {
		req.Language = domain.DefaultCodeLanguage
	}
	return req, true
}
