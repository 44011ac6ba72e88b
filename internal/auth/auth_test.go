package auth

import (
	"strings"
	"testing"
	"time"
)

func TestMagicLinkRoundTrip(t *testing.T) {
	m := MagicLink{Secret: []byte("test-secret"), BaseURL: "http://localhost:8080"}

	tok := m.Sign("owner@shop.test", time.Now().Add(time.Hour))
	email, err := m.Verify(tok)
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if email != "owner@shop.test" {
		t.Errorf("expected owner@shop.test, got %s", email)
	}
}

func TestMagicLinkExpired(t *testing.T) {
	m := MagicLink{Secret: []byte("test-secret")}

	tok := m.Sign("owner@shop.test", time.Now().Add(-time.Minute))
	if _, err := m.Verify(tok); err != ErrExpired {
		t.Errorf("expected ErrExpired, got %v", err)
	}
}

func TestMagicLinkTampered(t *testing.T) {
	m := MagicLink{Secret: []byte("test-secret")}
	other := MagicLink{Secret: []byte("other-secret")}

	tok := other.Sign("owner@shop.test", time.Now().Add(time.Hour))
	if _, err := m.Verify(tok); err != ErrBadSig {
		t.Errorf("expected ErrBadSig, got %v", err)
	}

	if _, err := m.Verify("not-a-token"); err != ErrBadToken {
		t.Errorf("expected ErrBadToken, got %v", err)
	}
}

func TestMagicLinkURL(t *testing.T) {
	m := MagicLink{Secret: []byte("s"), BaseURL: "https://dash.shop.test"}

	u := m.URL("owner@shop.test", time.Hour)
	if !strings.HasPrefix(u, "https://dash.shop.test/auth/callback?token=") {
		t.Errorf("unexpected URL: %s", u)
	}
}

func TestStateSignerRoundTrip(t *testing.T) {
	s := StateSigner{Secret: []byte("test-secret")}

	state := s.Sign("merchant-123", time.Now().Add(30*time.Minute))
	v, ok := s.Verify(state)
	if !ok {
		t.Fatal("Verify rejected a valid state")
	}
	if v != "merchant-123" {
		t.Errorf("expected merchant-123, got %s", v)
	}
}

func TestStateSignerRejects(t *testing.T) {
	s := StateSigner{Secret: []byte("test-secret")}

	if _, ok := s.Verify("garbage"); ok {
		t.Error("accepted garbage state")
	}
	expired := s.Sign("v", time.Now().Add(-time.Minute))
	if _, ok := s.Verify(expired); ok {
		t.Error("accepted expired state")
	}
	forged := StateSigner{Secret: []byte("wrong")}.Sign("v", time.Now().Add(time.Hour))
	if _, ok := s.Verify(forged); ok {
		t.Error("accepted forged state")
	}
}
