package token

import (
	"context"
	"testing"
)

func TestRoundTrip(t *testing.T) {
	ctx := WithToken(context.Background(), "secret")
	if got := FromContext(ctx); got != "secret" {
		t.Fatalf("expected token to round-trip, got %q", got)
	}
}

func TestEmptyTokenNotStored(t *testing.T) {
	ctx := WithToken(context.Background(), "")
	if got := FromContext(ctx); got != "" {
		t.Fatalf("expected empty token, got %q", got)
	}
}

func TestMissingToken(t *testing.T) {
	if got := FromContext(context.Background()); got != "" {
		t.Fatalf("expected empty token for bare context, got %q", got)
	}
}
