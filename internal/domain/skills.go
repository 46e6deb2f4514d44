package domain

import "strings"

// AddSkill appends skill to skills unless it is blank or already present.
// The input slice is never modified.
func AddSkill(skills []string, skill string) []string {
	skill = strings.TrimSpace(skill)
	out := append([]string(nil), skills...)
	if skill == "" {
		return out
	}
	for _, s := range skills {
		if s == skill {
			return out
		}
	}
	return append(out, skill)
}

// RemoveSkill returns skills without any entry equal to skill.
func RemoveSkill(skills []string, skill string) []string {
	out := make([]string, 0, len(skills))
	for _, s := range skills {
		if s != skill {
			out = append(out, s)
		}
	}
	return out
}
