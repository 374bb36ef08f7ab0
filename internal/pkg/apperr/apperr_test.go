package apperr

import (
	"errors"
	"fmt"
	"testing"
)

func TestKindOf_WrappedError(t *testing.T) {
	err := fmt.Errorf("update article: %w", NotFound("article"))
	if got := KindOf(err); got != KindNotFound {
		t.Fatalf("kind=%v want=%v", got, KindNotFound)
	}
	if !IsNotFound(err) {
		t.Fatalf("IsNotFound=false want true")
	}
}

func TestKindOf_PlainErrorIsInternal(t *testing.T) {
	if got := KindOf(errors.New("boom")); got != KindInternal {
		t.Fatalf("kind=%v want=%v", got, KindInternal)
	}
	if IsNotFound(nil) || IsValidation(nil) || IsConflict(nil) {
		t.Fatalf("nil error must not match any kind")
	}
}

func TestStorage_UnwrapsCause(t *testing.T) {
	cause := errors.New("disk full")
	err := Storage(cause)
	if !errors.Is(err, cause) {
		t.Fatalf("errors.Is(storage, cause)=false")
	}
	if err.Error() != "image storage failed: disk full" {
		t.Fatalf("message=%q", err.Error())
	}
}

func TestFields_AddMergeKeys(t *testing.T) {
	f := Fields{}
	f.Add("title", "title is required")
	f.Merge(Fields{"body": {"body is required"}, "title": {"title is too long"}})
	if len(f["title"]) != 2 {
		t.Fatalf("title messages=%v want 2", f["title"])
	}
	keys := f.Keys()
	if len(keys) != 2 || keys[0] != "body" || keys[1] != "title" {
		t.Fatalf("keys=%v want [body title]", keys)
	}
	if !f.Has("body") || f.Has("image") {
		t.Fatalf("Has mismatch: %v", f)
	}
}
