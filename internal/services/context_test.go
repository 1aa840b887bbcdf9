package services_test

import (
	"context"
	"testing"

	"shelver/internal/services"
)

func TestContextHelpers(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithEbookID(ctx, 42)
	ctx = services.WithStage(ctx, "classify")
	ctx = services.WithRunID(ctx, "run-1")
	ctx = services.WithRequestID(ctx, "req-123")

	if id, ok := services.EbookIDFromContext(ctx); !ok || id != 42 {
		t.Fatalf("unexpected ebook id: %v %v", id, ok)
	}
	if stage, ok := services.StageFromContext(ctx); !ok || stage != "classify" {
		t.Fatalf("unexpected stage: %v %v", stage, ok)
	}
	if run, ok := services.RunIDFromContext(ctx); !ok || run != "run-1" {
		t.Fatalf("unexpected run id: %v %v", run, ok)
	}
	if rid, ok := services.RequestIDFromContext(ctx); !ok || rid != "req-123" {
		t.Fatalf("unexpected request id: %v %v", rid, ok)
	}
}

func TestStageBlankPreservesContext(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithStage(ctx, "")
	if _, ok := services.StageFromContext(ctx); ok {
		t.Fatal("expected no stage value")
	}
	if _, ok := services.EbookIDFromContext(ctx); ok {
		t.Fatal("expected no ebook id")
	}
}
