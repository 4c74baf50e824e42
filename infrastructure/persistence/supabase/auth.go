package supabase

import (
	"context"

	"github.com/supabase-community/gotrue-go/types"
	supa "github.com/supabase-community/supabase-go"

	"github.com/aurelia-hq/aurelia-backend/pkg/auth"
	"github.com/aurelia-hq/aurelia-backend/pkg/errors"
)

// AuthVerifier resolves bearer tokens to identities via the Supabase auth
// endpoint.
type AuthVerifier struct {
	client *supa.Client
}

// NewAuthVerifier creates a token verifier backed by Supabase auth.
func NewAuthVerifier(client *supa.Client) *AuthVerifier {
	return &AuthVerifier{client: client}
}

// Verify forwards the token to the auth provider. The provider call does
// not take a context; its HTTP client bounds the request internally.
func (v *AuthVerifier) Verify(_ context.Context, token string) (*auth.Identity, error) {
	user, err := v.client.Auth.WithToken(token).GetUser()
	if err != nil {
		return nil, errors.NewUnauthorizedError("Authentication failed: " + err.Error())
	}
	return &auth.Identity{ID: user.ID.String(), Email: user.Email}, nil
}

// AuthService wraps the credential endpoints of the auth provider for the
// public signup/signin routes.
type AuthService struct {
	client *supa.Client
}

// NewAuthService creates an auth service backed by Supabase auth.
func NewAuthService(client *supa.Client) *AuthService {
	return &AuthService{client: client}
}

// SignUp registers a new user with the auth provider.
func (s *AuthService) SignUp(email, password, fullName string) (*types.SignupResponse, error) {
	resp, err := s.client.Auth.Signup(types.SignupRequest{
		Email:    email,
		Password: password,
		Data:     map[string]interface{}{"full_name": fullName},
	})
	if err != nil {
		return nil, errors.NewExternalError("sign up failed", err)
	}
	return resp, nil
}

// SignIn exchanges credentials for a session.
func (s *AuthService) SignIn(email, password string) (types.Session, error) {
	session, err := s.client.SignInWithEmailPassword(email, password)
	if err != nil {
		return types.Session{}, errors.NewExternalError("sign in failed", err)
	}
	return session, nil
}

// SignOut revokes the session behind the given token.
func (s *AuthService) SignOut(token string) error {
	if err := s.client.Auth.WithToken(token).Logout(); err != nil {
		return errors.NewExternalError("sign out failed", err)
	}
	return nil
}

// GetUser resolves the token to the provider's user record.
func (s *AuthService) GetUser(token string) (*types.UserResponse, error) {
	user, err := s.client.Auth.WithToken(token).GetUser()
	if err != nil {
		return nil, errors.NewUnauthorizedError("Authentication failed: " + err.Error())
	}
	return user, nil
}
