package server

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/dmaguire/streaks/internal/logger"
	"github.com/go-chi/chi/v5"
	"golang.org/x/oauth2"
)

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	provider, ok := s.authProviders[id]
	if !ok {
		http.Error(w, "unknown provider", http.StatusNotFound)
		return
	}

	// Generate PKCE challenge
	verifier := make([]byte, 48)
	if _, err := rand.Read(verifier); err != nil {
		http.Error(w, "pkce gen failed", http.StatusInternalServerError)
		return
	}
	verifierStr := base64.RawURLEncoding.EncodeToString(verifier)
	hash := sha256.Sum256([]byte(verifierStr))
	challenge := base64.RawURLEncoding.EncodeToString(hash[:])

	// Generate state
	stateBytes := make([]byte, 16)
	if _, err := rand.Read(stateBytes); err != nil {
		http.Error(w, "state gen failed", http.StatusInternalServerError)
		return
	}
	st := hex.EncodeToString(stateBytes)

	// Capture return path (sanitize to keep it relative)
	ret := r.URL.Query().Get("return")
	if ret == "" {
		ret = "/"
	} else if u, err := url.Parse(ret); err != nil || u.IsAbs() || u.Host != "" {
		ret = "/"
	}

	provider.state.Put(st, authState{
		Verifier: verifierStr,
		Return:   ret,
		ExpireAt: time.Now().Add(5 * time.Minute),
	})

	authURL := provider.oauth2.AuthCodeURL(
		st,
		oauth2.SetAuthURLParam("code_challenge", challenge),
		oauth2.SetAuthURLParam("code_challenge_method", "S256"),
	)
	RecordAuthEvent("login", "started", id)
	http.Redirect(w, r, authURL, http.StatusFound)
}

func (s *Server) callback(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	provider, ok := s.authProviders[id]
	if !ok {
		http.Error(w, "unknown provider", http.StatusNotFound)
		return
	}
	st := r.URL.Query().Get("state")
	if st == "" {
		http.Error(w, "missing state", http.StatusBadRequest)
		return
	}
	code := r.URL.Query().Get("code")
	if code == "" {
		http.Error(w, "missing code", http.StatusBadRequest)
		return
	}

	saved, ok := provider.state.GetAndDelete(st)
	if !ok || saved.Verifier == "" {
		http.Error(w, "invalid or expired state", http.StatusBadRequest)
		return
	}

	tok, err := provider.oauth2.Exchange(
		r.Context(),
		code,
		oauth2.SetAuthURLParam("code_verifier", saved.Verifier),
	)
	if err != nil {
		RecordAuthEvent("login", "exchange_failed", id)
		http.Error(w, "code exchange failed", http.StatusBadGateway)
		return
	}
	rawIDToken, ok := tok.Extra("id_token").(string)
	if !ok || rawIDToken == "" {
		http.Error(w, "no id_token in response", http.StatusBadGateway)
		return
	}
	if _, err := provider.idVerifier.Verify(r.Context(), rawIDToken); err != nil {
		RecordAuthEvent("login", "verify_failed", id)
		http.Error(w, "id_token invalid", http.StatusUnauthorized)
		return
	}

	// Set session cookie
	prefixedToken := id + ":" + rawIDToken
	val, err := s.sessionCookie.Encode("session", prefixedToken)
	if err != nil {
		logger.Error("Failed to encode session cookie", "error", err)
		http.Error(w, "session encoding failed", http.StatusInternalServerError)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     "session",
		Value:    val,
		Path:     "/",
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(sessionMaxAge.Seconds()),
	})

	RecordAuthEvent("login", "success", id)
	http.Redirect(w, r, saved.Return, http.StatusFound)
}

func (s *Server) logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     "session",
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	})
	logger.Info("User logout completed")
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) simpleLogin(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, `<h1>Login</h1><style>button{display:block;margin:10px 0;padding:10px 20px;}</style>`)
	for id := range s.authProviders {
		fmt.Fprintf(w, `<form action="/auth/login/%s"><button>%s</button></form>`, id, s.authProviders[id].name)
	}
}

// getAPIToken echoes the provider-prefixed token from the session cookie so
// a logged-in browser session can hand it to the CLI.
func (s *Server) getAPIToken(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie("session")
	if err != nil {
		http.Error(w, "not logged in", http.StatusUnauthorized)
		return
	}

	var prefixedToken string
	if err := s.sessionCookie.Decode("session", cookie.Value, &prefixedToken); err != nil {
		http.Error(w, "invalid session cookie", http.StatusUnauthorized)
		return
	}

	w.Header().Set("Content-Type", "text/plain")
	w.Write([]byte(prefixedToken))
}

// createAPIKey mints a new API key for the authenticated user. The raw
// key is returned exactly once; only its hash is stored.
func (s *Server) createAPIKey(w http.ResponseWriter, r *http.Request) {
	userID := userIDFromContext(s.cfg.AuthEnabled, r)
	if userID == "" {
		http.Error(w, `{"error": "unauthorized"}`, http.StatusUnauthorized)
		return
	}

	apiKey, err := generateAPIKey()
	if err != nil {
		logger.Error("Failed to generate API key", "error", err)
		http.Error(w, `{"error": "failed to generate API key"}`, http.StatusInternalServerError)
		return
	}

	keyHash := hashAPIKey(apiKey)
	if err := s.store.PutAPIKey(keyHash, userID); err != nil {
		logger.Error("Failed to store API key", "error", err)
		http.Error(w, `{"error": "failed to store API key"}`, http.StatusInternalServerError)
		return
	}

	logger.Info("API key created", "userID", userID, "keyHash", truncateHash(keyHash))
	writeJSON(w, http.StatusCreated, APIKeyResponse{APIKey: apiKey})
}
