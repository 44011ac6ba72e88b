package email

import (
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestLogSender(t *testing.T) {
	var buf strings.Builder
	l := LogSender{Log: zerolog.New(&buf)}

	if err := l.Send("owner@shop.test", "Sign in", "<p>link</p>"); err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "owner@shop.test") || !strings.Contains(out, "Sign in") {
		t.Errorf("log output missing fields: %s", out)
	}
}

func TestNewSMTPSender(t *testing.T) {
	s := NewSMTPSender("localhost:1025", "no-reply@shoplite.local")
	if s.Addr != "localhost:1025" || s.From != "no-reply@shoplite.local" {
		t.Errorf("unexpected sender config: %+v", s)
	}
}
