package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/opentransit/stationwatch/internal/domain"
	"github.com/opentransit/stationwatch/internal/provider"
	"github.com/opentransit/stationwatch/internal/store"
	"github.com/opentransit/stationwatch/pkg/idx"
	"github.com/opentransit/stationwatch/pkg/sessionx"
	"github.com/opentransit/stationwatch/pkg/slogx"
)

// ErrUserNotFound reports a validly signed, unexpired session token whose
// subject no longer exists (e.g. the account was removed administratively).
var ErrUserNotFound = errors.New("user_not_found")

// SignInRequest is the per-attempt input supplied by the caller. None of it
// is persisted; the authorization code is single-use.
type SignInRequest struct {
	Code         string
	RedirectURI  string
	CodeVerifier string
}

// SignInResult pairs the resolved local user with a freshly issued session
// token.
type SignInResult struct {
	User         domain.User
	SessionToken string
}

// SignInService runs the external-identity sign-in sequence: exchange the
// authorization code, fetch the provider identity, resolve it to a local
// user, issue a session token. Each step strictly depends on the previous
// one's output, so the composition is plain sequential calls with
// early-return; the first failing step's error is returned unchanged so
// callers can distinguish failure kinds. Nothing is retried here: codes are
// single-use and resolution is idempotent, so blind retries are unsafe or
// pointless.
type SignInService struct {
	Provider *provider.Client
	Store    store.Store
	Sessions *sessionx.Codec
}

func (s *SignInService) SignIn(ctx context.Context, req SignInRequest) (*SignInResult, error) {
	log := slogx.FromContext(ctx)

	token, err := s.Provider.ExchangeCode(ctx, req.Code, req.CodeVerifier, req.RedirectURI)
	if err != nil {
		return nil, err
	}

	identity, err := s.Provider.FetchIdentity(ctx, token.Token)
	if err != nil {
		return nil, err
	}

	user, created, err := s.resolveUser(ctx, identity)
	if err != nil {
		return nil, err
	}

	sessionToken, err := s.Sessions.Issue(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to issue session token: %w", err)
	}

	log.Info("sign-in completed", "user_id", user.ID, "new_user", created)

	return &SignInResult{
		User:         user,
		SessionToken: sessionToken,
	}, nil
}

// resolveUser maps an external identity to the durable local user record,
// creating one on first sign-in. An existing user is returned unchanged:
// name and image are never overwritten on repeat sign-ins. Two first-time
// sign-ins racing on the same email are settled by the users table's email
// uniqueness constraint; the loser re-fetches and returns the winner's row,
// so the operation is idempotent from the caller's perspective.
func (s *SignInService) resolveUser(
	ctx context.Context,
	identity *provider.ExternalIdentity,
) (domain.User, bool, error) {
	users := s.Store.Users()

	user, err := users.GetUserByEmail(ctx, identity.Email)
	if err == nil {
		return user, false, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return domain.User{}, false, err
	}

	newUser := domain.User{
		ID:    idx.New().String(),
		Name:  identity.Username,
		Email: identity.Email,
		Image: identity.AvatarURL,
	}

	err = users.CreateUser(ctx, newUser)
	switch {
	case err == nil:
		// Re-read so the caller sees the database-assigned timestamps.
		user, err = users.GetUserByEmail(ctx, identity.Email)
		return user, true, err
	case errors.Is(err, store.ErrAlreadyExists):
		// Lost the race; the row exists now. Worst case was one wasted
		// insert attempt.
		user, err = users.GetUserByEmail(ctx, identity.Email)
		return user, false, err
	default:
		return domain.User{}, false, err
	}
}

// VerifySession checks a presented session token and loads the user it
// identifies. Codec failures (malformed, tampered, expired) pass through
// unchanged; a token whose subject row is gone fails with ErrUserNotFound.
func (s *SignInService) VerifySession(ctx context.Context, token string) (domain.User, error) {
	sess, err := s.Sessions.Verify(token)
	if err != nil {
		return domain.User{}, err
	}

	user, err := s.Store.Users().GetUserByID(ctx, sess.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, ErrUserNotFound
		}
		return domain.User{}, err
	}

	return user, nil
}
