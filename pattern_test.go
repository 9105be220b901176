package relay

import (
	"testing"
)

func TestPattern_Match(t *testing.T) {
	t.Run("captures named parameters", func(t *testing.T) {
		p := ParsePattern("/user/:id/post/:postId")
		params, ok := p.Match("/user/42/post/7")
		if !ok {
			t.Fatal("expected structural match")
		}
		if params["id"] != "42" {
			t.Errorf("id = %q, want %q", params["id"], "42")
		}
		if params["postId"] != "7" {
			t.Errorf("postId = %q, want %q", params["postId"], "7")
		}
	})

	t.Run("literal segments compare exactly and case-sensitively", func(t *testing.T) {
		p := ParsePattern("/user/:id")
		if _, ok := p.Match("/User/42"); ok {
			t.Error("matched despite literal case mismatch")
		}
		if _, ok := p.Match("/account/42"); ok {
			t.Error("matched despite literal mismatch")
		}
	})

	t.Run("segment counts must be equal", func(t *testing.T) {
		p := ParsePattern("/user/:id")
		if _, ok := p.Match("/user/42/extra"); ok {
			t.Error("matched with too many segments")
		}
		if _, ok := p.Match("/user"); ok {
			t.Error("matched with too few segments")
		}
	})

	t.Run("empty segments are discarded", func(t *testing.T) {
		p := ParsePattern("user/:id/")
		params, ok := p.Match("//user//42")
		if !ok {
			t.Fatal("expected match after slash normalization")
		}
		if params["id"] != "42" {
			t.Errorf("id = %q, want %q", params["id"], "42")
		}
	})

	t.Run("root pattern matches root path only", func(t *testing.T) {
		p := ParsePattern("/")
		if _, ok := p.Match("/"); !ok {
			t.Error("root did not match root")
		}
		if _, ok := p.Match("/anything"); ok {
			t.Error("root matched a non-empty path")
		}
	})
}

func TestPattern_ParamNames(t *testing.T) {
	p := ParsePattern("/user/:id/post/:postId")
	names := p.ParamNames()
	if len(names) != 2 || names[0] != "id" || names[1] != "postId" {
		t.Errorf("ParamNames = %v, want [id postId]", names)
	}
}

func TestIntParam(t *testing.T) {
	t.Run("coerces a valid integer", func(t *testing.T) {
		n, err := IntParam(Params{"id": "42"}, "id")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if n != 42 {
			t.Errorf("n = %d, want 42", n)
		}
	})

	t.Run("failure names the parameter", func(t *testing.T) {
		_, err := IntParam(Params{"id": "abc"}, "id")
		if err == nil {
			t.Fatal("expected error")
		}
		verr, ok := err.(*ValidationError)
		if !ok {
			t.Fatalf("error type = %T, want *ValidationError", err)
		}
		if verr.Name != "id" {
			t.Errorf("Name = %q, want %q", verr.Name, "id")
		}
	})

	t.Run("missing capture is an error", func(t *testing.T) {
		if _, err := IntParam(Params{}, "id"); err == nil {
			t.Fatal("expected error for missing parameter")
		}
	})
}
