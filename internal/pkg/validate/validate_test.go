package validate

import (
	"strings"
	"testing"
)

type signup struct {
	Name     string `json:"name"     validate:"required,min=2"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

func TestStruct_KeysByJSONName(t *testing.T) {
	fields := Struct(signup{Name: "a", Email: "not-an-email", Password: "short"})
	for _, key := range []string{"name", "email", "password"} {
		if !fields.Has(key) {
			t.Fatalf("missing %q in %v", key, fields)
		}
	}
	if got := fields["password"][0]; got != "password must be at least 8 characters" {
		t.Fatalf("password msg=%q", got)
	}
}

func TestStruct_Valid(t *testing.T) {
	if fields := Struct(signup{Name: "Ann", Email: "ann@example.com", Password: "longenough"}); len(fields) != 0 {
		t.Fatalf("fields=%v want none", fields)
	}
}

func TestVar(t *testing.T) {
	fields := Var("email", "nope", "email")
	if !fields.Has("email") || !strings.Contains(fields["email"][0], "valid email") {
		t.Fatalf("fields=%v", fields)
	}
	if fields := Var("email", "a@b.co", "email"); fields != nil {
		t.Fatalf("valid email rejected: %v", fields)
	}
}
