package services_test

import (
	"errors"
	"strings"
	"testing"

	"shelver/internal/services"
)

func TestWrapIncludesContext(t *testing.T) {
	base := errors.New("boom")
	err := services.Wrap(services.ErrTransient, "reorganize", "move", "failed", base)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, services.ErrTransient) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to contain base error, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"reorganize", "move", "failed"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in error string %q", fragment, msg)
		}
	}
}

func TestWrapWithoutMarkerDefaultsToTransient(t *testing.T) {
	err := services.Wrap(nil, "", "", "", nil)
	if !errors.Is(err, services.ErrTransient) {
		t.Fatalf("expected transient marker, got %v", err)
	}
	if !strings.Contains(err.Error(), "service failure") {
		t.Fatalf("expected default detail, got %q", err.Error())
	}
}

func TestCodeMapping(t *testing.T) {
	cases := map[error]string{
		services.Wrap(services.ErrInvalidTaxonomy, "classify", "set", "bad", nil):     "invalid_taxonomy",
		services.Wrap(services.ErrBatchAlreadyRunning, "batch", "start", "busy", nil): "batch_already_running",
		services.Wrap(services.ErrCollisionUnresolved, "reorganize", "apply", "", nil): "collision_unresolved",
		services.Wrap(services.ErrNotFound, "library", "get", "", nil):                "not_found",
		errors.New("plain"): "internal",
	}
	for err, want := range cases {
		if got := services.Code(err); got != want {
			t.Fatalf("Code(%v) = %q, want %q", err, got, want)
		}
	}
	if got := services.Code(nil); got != "" {
		t.Fatalf("expected empty code for nil, got %q", got)
	}
}
