package auth

import (
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestGenerateVerify(t *testing.T) {
	m := NewJWTManager("secret", time.Hour)
	subject := uuid.New()

	token, err := m.Generate(subject)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	id, err := m.SubjectID(token)
	if err != nil {
		t.Fatalf("subject: %v", err)
	}
	if id != subject {
		t.Errorf("Expected %s, got %s", subject, id)
	}

	exp, err := m.Expiry(token)
	if err != nil {
		t.Fatalf("expiry: %v", err)
	}
	if d := time.Until(exp); d <= 0 || d > time.Hour {
		t.Errorf("Unexpected expiry in %s", d)
	}

	other, _ := m.Generate(subject)
	if other == token {
		t.Error("Expected distinct tokens")
	}
}

func TestVerifyRejectsForeignSecret(t *testing.T) {
	token, _ := NewJWTManager("one", time.Hour).Generate(uuid.New())

	if _, err := NewJWTManager("two", time.Hour).Verify(token); err == nil {
		t.Error("Expected verification to fail")
	}
}

func TestVerifyRejectsExpired(t *testing.T) {
	m := NewJWTManager("secret", -time.Minute)
	token, _ := m.Generate(uuid.New())

	if _, err := m.Verify(token); err == nil {
		t.Error("Expected expired token to fail")
	}
}

func TestExtractTokenFromHeader(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	if _, err := ExtractTokenFromHeader(req); !errors.Is(err, ErrInvalidHeader) {
		t.Errorf("Expected ErrInvalidHeader, got %v", err)
	}

	req.Header.Set("Authorization", "bearer abc")
	token, err := ExtractTokenFromHeader(req)
	if err != nil || token != "abc" {
		t.Errorf("Expected abc, got %q (%v)", token, err)
	}
}

func TestPasscodeChecker(t *testing.T) {
	p, err := NewPasscodeChecker("1234")
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if !p.Check("1234") {
		t.Error("Expected passcode to match")
	}
	if p.Check("4321") {
		t.Error("Expected wrong passcode to fail")
	}
}
