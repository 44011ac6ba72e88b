package routes

import (
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// magic-link sign-in: the merchant is upserted on request so the callback
// only has to look them up.

func (s *Server) handleMagicLink(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "bad request body", http.StatusBadRequest)
		return
	}
	emailAddr := strings.TrimSpace(body.Email)
	if emailAddr == "" {
		http.Error(w, "email required", http.StatusBadRequest)
		return
	}

	if _, err := s.DB.UpsertMerchantByEmail(r.Context(), emailAddr); err != nil {
		s.respondErr(w, r, err, "could not issue sign-in link")
		return
	}

	link := s.Magic.URL(emailAddr, 2*time.Hour)
	if s.Email != nil {
		html := `<p>Click to sign in to your dashboard:</p><p><a href="` + link + `">Sign in</a></p>`
		if err := s.Email.Send(emailAddr, "Your shoplite sign-in link", html); err != nil {
			s.Log.Error().Err(err).Str("email", emailAddr).Msg("send sign-in link")
		}
	}
	s.Log.Info().Str("email", emailAddr).Msg("sign-in link issued")
	s.respond(w, http.StatusAccepted, map[string]string{"status": "sent"})
}

func (s *Server) handleAuthCallback(w http.ResponseWriter, r *http.Request) {
	tok := r.URL.Query().Get("token")
	if un, err := url.QueryUnescape(tok); err == nil {
		tok = un
	}

	emailAddr, err := s.Magic.Verify(tok)
	if err != nil {
		s.Log.Warn().Err(err).Msg("sign-in token rejected")
		http.Error(w, "invalid or expired token", http.StatusUnauthorized)
		return
	}
	m, err := s.DB.GetMerchantByEmail(r.Context(), emailAddr)
	if err != nil {
		s.Log.Warn().Err(err).Str("email", emailAddr).Msg("merchant lookup failed")
		http.Error(w, "invalid or expired token", http.StatusUnauthorized)
		return
	}
	s.Sess.Put(r.Context(), "merchant_id", m.ID.String())
	http.Redirect(w, r, "/", http.StatusFound)
}

// Google sign-in, as an alternative to the emailed link. The state parameter
// is HMAC-signed so the callback needs no server-side state.

func (s *Server) handleGoogleStart(w http.ResponseWriter, r *http.Request) {
	if s.Google == nil {
		http.Error(w, "google sign-in not configured", http.StatusNotFound)
		return
	}
	state := s.State.Sign("login", time.Now().Add(30*time.Minute))
	http.Redirect(w, r, s.Google.AuthCodeURL(state), http.StatusFound)
}

func (s *Server) handleGoogleCallback(w http.ResponseWriter, r *http.Request) {
	if s.Google == nil {
		http.Error(w, "google sign-in not configured", http.StatusNotFound)
		return
	}
	if _, ok := s.State.Verify(r.URL.Query().Get("state")); !ok {
		http.Error(w, "invalid state", http.StatusBadRequest)
		return
	}

	tok, err := s.Google.Exchange(r.Context(), r.URL.Query().Get("code"))
	if err != nil {
		s.respondErr(w, r, err, "could not exchange token")
		return
	}

	client := s.Google.Client(r.Context(), tok)
	resp, err := client.Get("https://www.googleapis.com/oauth2/v2/userinfo")
	if err != nil {
		s.respondErr(w, r, err, "could not fetch profile")
		return
	}
	defer resp.Body.Close() //nolint:errcheck
	if resp.StatusCode != http.StatusOK {
		s.Log.Error().Int("status", resp.StatusCode).Msg("google userinfo")
		http.Error(w, "could not fetch profile", http.StatusBadGateway)
		return
	}
	emailAddr, err := decodeEmail(resp.Body)
	if err != nil || emailAddr == "" {
		s.Log.Error().Err(err).Msg("decode google profile")
		http.Error(w, "could not fetch profile", http.StatusBadGateway)
		return
	}

	m, err := s.DB.UpsertMerchantByEmail(r.Context(), emailAddr)
	if err != nil {
		s.respondErr(w, r, err, "could not sign in")
		return
	}
	s.Sess.Put(r.Context(), "merchant_id", m.ID.String())
	http.Redirect(w, r, "/", http.StatusFound)
}

func decodeEmail(body io.Reader) (string, error) {
	var profile struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(body).Decode(&profile); err != nil {
		return "", err
	}
	return profile.Email, nil
}
