package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"strconv"
	"strings"
	"time"
)

// StateSigner signs the OAuth state parameter so the callback can trust the
// round-tripped value without server-side storage.
type StateSigner struct {
	Secret []byte
}

// Sign binds value to an expiry and signs both.
func (s StateSigner) Sign(value string, exp time.Time) string {
	msg := value + "|" + strconv.FormatInt(exp.Unix(), 10)
	mac := hmac.New(sha256.New, s.Secret)
	mac.Write([]byte(msg))
	sig := base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
	return base64.RawURLEncoding.EncodeToString([]byte(msg)) + "." + sig
}

// Verify returns the embedded value if the signature checks out and the state
// has not expired.
func (s StateSigner) Verify(state string) (string, bool) {
	parts := strings.SplitN(state, ".", 2)
	if len(parts) != 2 {
		return "", false
	}
	raw, err := base64.RawURLEncoding.DecodeString(parts[0])
	if err != nil {
		return "", false
	}
	mac := hmac.New(sha256.New, s.Secret)
	mac.Write(raw)
	expected := base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
	if !hmac.Equal([]byte(expected), []byte(parts[1])) {
		return "", false
	}

	fields := strings.SplitN(string(raw), "|", 2)
	if len(fields) != 2 {
		return "", false
	}
	expUnix, err := strconv.ParseInt(fields[1], 10, 64)
	if err != nil || time.Now().After(time.Unix(expUnix, 0)) {
		return "", false
	}
	return fields[0], true
}
