package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/opentransit/stationwatch/internal/provider"
	"github.com/opentransit/stationwatch/internal/service"
	"github.com/opentransit/stationwatch/pkg/httpx"
	"github.com/opentransit/stationwatch/pkg/sessionx"
	"github.com/opentransit/stationwatch/pkg/slogx"
)

// AuthHandler serves the sign-in, session verification and logout
// endpoints.
type AuthHandler struct {
	SignInService *service.SignInService
}

type signInRequest struct {
	Code         string `json:"code"`
	RedirectURI  string `json:"redirectUri"`
	CodeVerifier string `json:"codeVerifier"`
}

type signInResponse struct {
	User         UserResponse `json:"user"`
	SessionToken string       `json:"sessionToken"`
}

// HandleSignIn serves POST /v1/auth/signin. It exchanges a provider
// authorization code (with PKCE verifier) for a local user and session
// token. Failure kinds map to distinct error codes so the client can tell
// "re-prompt sign-in" from "something is broken".
func (h *AuthHandler) HandleSignIn(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req signInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	req.Code = strings.TrimSpace(req.Code)
	req.RedirectURI = strings.TrimSpace(req.RedirectURI)
	req.CodeVerifier = strings.TrimSpace(req.CodeVerifier)
	if req.Code == "" || req.RedirectURI == "" || req.CodeVerifier == "" {
		writeError(w, http.StatusBadRequest, "invalid_request",
			"code, redirectUri and codeVerifier are required")
		return
	}

	result, err := h.SignInService.SignIn(ctx, service.SignInRequest{
		Code:         req.Code,
		RedirectURI:  req.RedirectURI,
		CodeVerifier: req.CodeVerifier,
	})
	if err != nil {
		if rejected, ok := provider.IsRejected(err); ok {
			// Surface the provider's own description verbatim; a generic
			// message makes PKCE and redirect mismatches undiagnosable.
			writeError(w, http.StatusBadRequest, rejected.Code, rejected.Description)
			return
		}
		if errors.Is(err, provider.ErrIncompleteIdentity) {
			writeError(w, http.StatusBadRequest, "incomplete_identity",
				"provider account has no email address")
			return
		}
		log.Error("sign-in failed", "err", err)
		writeError(w, http.StatusInternalServerError, "server_error", "authentication failed")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, signInResponse{
		User:         toUserResponse(result.User),
		SessionToken: result.SessionToken,
	})
}

type verifySessionRequest struct {
	SessionToken string `json:"sessionToken"`
}

type verifySessionResponse struct {
	User UserResponse `json:"user"`
}

// HandleVerify serves POST /v1/auth/verify. Verification is local
// (signature and expiry) plus one user lookup; the failure kinds stay
// distinct so clients can silently re-prompt on expiry while tampering can
// be flagged.
func (h *AuthHandler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req verifySessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.SessionToken == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "sessionToken is required")
		return
	}

	user, err := h.SignInService.VerifySession(ctx, req.SessionToken)
	if err != nil {
		switch {
		case errors.Is(err, sessionx.ErrMalformed):
			writeError(w, http.StatusUnauthorized, "malformed_token", "session token is malformed")
		case errors.Is(err, sessionx.ErrExpired):
			writeError(w, http.StatusUnauthorized, "session_expired", "session has expired")
		case errors.Is(err, sessionx.ErrTampered):
			log.Warn("session verification failed: invalid signature")
			writeError(w, http.StatusUnauthorized, "invalid_signature", "session token is invalid")
		case errors.Is(err, service.ErrUserNotFound):
			writeError(w, http.StatusUnauthorized, "user_not_found", "user no longer exists")
		default:
			log.Error("session verification failed", "err", err)
			writeError(w, http.StatusInternalServerError, "server_error", "verification failed")
		}
		return
	}

	httpx.WriteJSON(w, http.StatusOK, verifySessionResponse{User: toUserResponse(user)})
}

// HandleLogout serves POST /v1/auth/logout. Sessions are stateless, so
// there is nothing to invalidate server-side; the client discards its
// token.
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, map[string]bool{"success": true})
}
