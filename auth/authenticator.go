package auth

import (
	"context"
)

// Auther orchestrates credential verification and token minting.
type Auther struct {
	provider     IdentityProvider
	tokenService TokenService
	logger       Logger
}

// NewAuthenticator creates an Authenticator from an identity provider and a
// token service.
func NewAuthenticator(provider IdentityProvider, tokenService TokenService, logger Logger) *Auther {
	if logger == nil {
		logger = defLogger{}
	}
	return &Auther{
		provider:     provider,
		tokenService: tokenService,
		logger:       logger,
	}
}

// Login verifies the given credentials and returns a signed access token.
func (a *Auther) Login(ctx context.Context, identifier, password string) (string, error) {
	identity, err := a.provider.VerifyIdentity(ctx, identifier, password)
	if err != nil {
		a.logger.Warn("Login failed for %s", identifier)
		return "", err
	}

	token, err := a.tokenService.Generate(identity)
	if err != nil {
		a.logger.Error("Login token generation failed for %s", identifier)
		return "", err
	}

	return token, nil
}

// Impersonate mints a token for an identity without checking credentials.
// Callers are expected to have authorized the operation themselves.
func (a *Auther) Impersonate(ctx context.Context, identifier string) (string, error) {
	identity, err := a.provider.FindIdentityByIdentifier(ctx, identifier)
	if err != nil {
		return "", err
	}
	return a.tokenService.Generate(identity)
}

// TokenService exposes the underlying token codec.
func (a *Auther) TokenService() TokenService {
	return a.tokenService
}
