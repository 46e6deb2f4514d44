package domain_test

import (
	"reflect"
	"testing"

	"devsocial/internal/domain"
)

func TestAddSkill(t *testing.T) {
	tests := []struct {
		name   string
		skills []string
		add    string
		want   []string
	}{
		{"append new", []string{"go"}, "rust", []string{"go", "rust"}},
		{"duplicate suppressed", []string{"go", "rust"}, "go", []string{"go", "rust"}},
		{"trimmed duplicate", []string{"go"}, "  go ", []string{"go"}},
		{"blank ignored", []string{"go"}, "   ", []string{"go"}},
		{"empty start", nil, "python", []string{"python"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := domain.AddSkill(tc.skills, tc.add)
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("AddSkill(%v, %q) = %v; want %v", tc.skills, tc.add, got, tc.want)
			}
		})
	}
}

func TestAddSkill_DoesNotAliasInput(t *testing.T) {
	in := make([]string, 1, 4)
	in[0] = "go"
	out := domain.AddSkill(in, "rust")
	out[0] = "changed"
	if in[0] != "go" {
		t.Fatalf("input slice was modified: %v", in)
	}
}

func TestRemoveSkill(t *testing.T) {
	got := domain.RemoveSkill([]string{"go", "rust", "go"}, "go")
	if !reflect.DeepEqual(got, []string{"rust"}) {
		t.Errorf("RemoveSkill = %v; want [rust]", got)
	}
}
