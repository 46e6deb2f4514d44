package domain_test

import (
	"errors"
	"reflect"
	"testing"

	"devsocial/internal/domain"
)

func TestValidate_Login(t *testing.T) {
	if err := domain.Validate(domain.LoginRequest{Email: "a@b.dev", Password: "pw"}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	err := domain.Validate(domain.LoginRequest{Email: "   ", Password: ""})
	var vErr *domain.ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if !reflect.DeepEqual(vErr.Fields, []string{"email", "password"}) {
		t.Errorf("unexpected fields %v", vErr.Fields)
	}
}

func TestValidate_Register(t *testing.T) {
	req := domain.RegisterRequest{Username: "ada", Email: "ada@x.dev", Password: "pw"}
	err := domain.Validate(req)
	var vErr *domain.ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if !reflect.DeepEqual(vErr.Fields, []string{"full_name"}) {
		t.Errorf("unexpected fields %v", vErr.Fields)
	}
}

func TestValidate_NewPostWhitespace(t *testing.T) {
	if err := domain.Validate(domain.NewPost{Content: " \n\t"}); err == nil {
		t.Fatal("expected whitespace-only content to be rejected")
	}
}

func TestValidate_CodeRequest(t *testing.T) {
	if err := domain.Validate(domain.CodeRequest{Code: "fmt.Println(1)"}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	err := domain.Validate(domain.CodeRequest{Code: "  \n", Language: "go"})
	var vErr *domain.ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if !reflect.DeepEqual(vErr.Fields, []string{"code"}) {
		t.Errorf("unexpected fields %v", vErr.Fields)
	}
}

func TestValidate_CareerRequestNeedsSkill(t *testing.T) {
	for _, skills := range [][]string{nil, {}, {" ", ""}} {
		err := domain.Validate(domain.CareerRequest{Skills: skills, Interests: "web"})
		var vErr *domain.ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("skills %q: expected ValidationError, got %v", skills, err)
		}
		if !reflect.DeepEqual(vErr.Fields, []string{"skills"}) {
			t.Errorf("skills %q: unexpected fields %v", skills, vErr.Fields)
		}
	}
	if err := domain.Validate(domain.CareerRequest{Skills: []string{"go"}}); err != nil {
		t.Errorf("expected no error, got %v", err)
	}
}
