// Package auth implements HMAC-signed sign-in links and the signed state
// parameter for the OAuth flow. Tokens are self-contained; nothing is stored
// server-side until the callback upserts the merchant.
package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"net/url"
	"strconv"
	"strings"
	"time"
)

var (
	ErrBadToken = errors.New("malformed token")
	ErrBadSig   = errors.New("invalid signature")
	ErrExpired  = errors.New("token expired")
)

// MagicLink signs and verifies one-time sign-in tokens for merchant emails.
type MagicLink struct {
	Secret  []byte
	BaseURL string
}

// Sign produces "base64(email|exp).base64(hmac)".
func (m MagicLink) Sign(email string, exp time.Time) string {
	msg := email + "|" + strconv.FormatInt(exp.Unix(), 10)
	payload := base64.RawURLEncoding.EncodeToString([]byte(msg))
	return payload + "." + m.mac(msg)
}

// Verify checks the signature and expiry and returns the merchant email.
func (m MagicLink) Verify(token string) (string, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 2 {
		return "", ErrBadToken
	}
	raw, err := base64.RawURLEncoding.DecodeString(parts[0])
	if err != nil {
		return "", ErrBadToken
	}
	if !hmac.Equal([]byte(m.mac(string(raw))), []byte(parts[1])) {
		return "", ErrBadSig
	}

	fields := strings.SplitN(string(raw), "|", 2)
	if len(fields) != 2 {
		return "", ErrBadToken
	}
	email := strings.TrimSpace(fields[0])
	ts, err := strconv.ParseInt(fields[1], 10, 64)
	if err != nil || email == "" {
		return "", ErrBadToken
	}
	if time.Now().After(time.Unix(ts, 0)) {
		return "", ErrExpired
	}
	return email, nil
}

// URL builds the full callback URL carrying a token valid for ttl.
func (m MagicLink) URL(email string, ttl time.Duration) string {
	u, _ := url.Parse(m.BaseURL)
	u.Path = "/auth/callback"
	q := u.Query()
	q.Set("token", m.Sign(email, time.Now().Add(ttl)))
	u.RawQuery = q.Encode()
	return u.String()
}

func (m MagicLink) mac(msg string) string {
	h := hmac.New(sha256.New, m.Secret)
	h.Write([]byte(msg))
	return base64.RawURLEncoding.EncodeToString(h.Sum(nil))
}
