package auth

import (
	"testing"
	"time"
)

func TestCodeIssueAndVerify(t *testing.T) {
	issuer := NewCodeIssuer()

	code, err := issuer.Issue("user@example.com")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if len(code) != 6 {
		t.Errorf("code length = %d; want 6", len(code))
	}

	if issuer.Verify("user@example.com", "000000") && code != "000000" {
		t.Error("wrong code accepted")
	}
	if !issuer.Verify("user@example.com", code) {
		t.Error("correct code rejected")
	}
	// Consumed on success.
	if issuer.Verify("user@example.com", code) {
		t.Error("code accepted twice")
	}
}

func TestCodeMismatchKeepsCode(t *testing.T) {
	issuer := NewCodeIssuer()

	code, err := issuer.Issue("user@example.com")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	// A mismatch must not consume the code: there is no retry limit.
	for i := 0; i < 10; i++ {
		if issuer.Verify("user@example.com", "999999") && code != "999999" {
			t.Fatal("wrong code accepted")
		}
	}
	if !issuer.Verify("user@example.com", code) {
		t.Error("correct code rejected after mismatches")
	}
}

func TestCodeReissueReplaces(t *testing.T) {
	issuer := NewCodeIssuer()

	first, err := issuer.Issue("user@example.com")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	second, err := issuer.Issue("user@example.com")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	if first != second && issuer.Verify("user@example.com", first) {
		t.Error("replaced code still accepted")
	}
	if first != second && !issuer.Verify("user@example.com", second) {
		t.Error("current code rejected")
	}
}

func TestCodeExpiryAndPrune(t *testing.T) {
	issuer := NewCodeIssuer()
	base := time.Now()
	issuer.now = func() time.Time { return base }

	code, err := issuer.Issue("user@example.com")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	issuer.now = func() time.Time { return base.Add(CodeTTL + time.Second) }
	if issuer.Verify("user@example.com", code) {
		t.Error("expired code accepted")
	}

	if removed := issuer.Prune(); removed != 1 {
		t.Errorf("Prune removed %d; want 1", removed)
	}
	if issuer.Outstanding() != 0 {
		t.Errorf("Outstanding = %d; want 0", issuer.Outstanding())
	}
}
