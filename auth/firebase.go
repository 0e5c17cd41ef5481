package auth

import (
	"context"
	"fmt"
	"os"

	firebase "firebase.google.com/go"
	fbauth "firebase.google.com/go/auth"
	"google.golang.org/api/option"
)

// TokenVerifier checks an identity-provider token and returns the verified
// identity. The production implementation is Firebase; tests use stubs.
type TokenVerifier interface {
	Verify(ctx context.Context, idToken string) (*Identity, error)
}

// Identity is what the storefront needs from the auth service's user object.
type Identity struct {
	UserID  string
	Email   string
	Name    string
	Picture string
	Role    string
}

type firebaseVerifier struct {
	client    *fbauth.Client
	projectID string
}

// NewFirebaseVerifier initializes the identity provider from
// FIREBASE_CREDENTIALS_JSON and FIREBASE_PROJECT_ID. Returns nil (no error)
// when the provider is not configured, in which case only guest sessions
// work.
func NewFirebaseVerifier(ctx context.Context) (TokenVerifier, error) {
	credsJSON := os.Getenv("FIREBASE_CREDENTIALS_JSON")
	projectID := os.Getenv("FIREBASE_PROJECT_ID")
	if credsJSON == "" || projectID == "" {
		return nil, nil
	}

	opt := option.WithCredentialsJSON([]byte(credsJSON))
	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: projectID}, opt)
	if err != nil {
		return nil, fmt.Errorf("init firebase app: %w", err)
	}
	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("init firebase auth client: %w", err)
	}
	return &firebaseVerifier{client: client, projectID: projectID}, nil
}

func (v *firebaseVerifier) Verify(ctx context.Context, idToken string) (*Identity, error) {
	token, err := v.client.VerifyIDTokenAndCheckRevoked(ctx, idToken)
	if err != nil {
		return nil, fmt.Errorf("verify id token: %w", err)
	}
	if token.Audience != v.projectID {
		return nil, fmt.Errorf("verify id token: wrong audience")
	}

	identity := &Identity{UserID: token.UID}
	if email, ok := token.Claims["email"].(string); ok {
		identity.Email = email
	}
	if name, ok := token.Claims["name"].(string); ok {
		identity.Name = name
	}
	if picture, ok := token.Claims["picture"].(string); ok {
		identity.Picture = picture
	}
	if role, ok := token.Claims["role"].(string); ok {
		identity.Role = role
	}
	return identity, nil
}
