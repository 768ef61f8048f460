package auth

import (
	"context"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
)

// UserStore is the subset of the user repository the provider needs.
type UserStore interface {
	GetByIdentifier(ctx context.Context, identifier string, criteria ...repository.SelectCriteria) (*User, error)
}

// UserProvider resolves and verifies identities against a user store.
type UserProvider struct {
	store  UserStore
	hasher PasswordAuthenticator
	logger Logger
}

// NewUserProvider creates an IdentityProvider backed by the given store.
func NewUserProvider(store UserStore, hasher PasswordAuthenticator, logger Logger) *UserProvider {
	if hasher == nil {
		hasher = defaultHasher
	}
	if logger == nil {
		logger = defLogger{}
	}
	return &UserProvider{
		store:  store,
		hasher: hasher,
		logger: logger,
	}
}

// VerifyIdentity checks the given credentials and returns the matching
// identity. A lookup miss and a password mismatch return the same error so
// callers cannot distinguish which credential was wrong. The active flag is
// checked only after the password matched, so a disabled account still
// requires valid credentials to learn it is disabled.
func (p *UserProvider) VerifyIdentity(ctx context.Context, identifier, password string) (Identity, error) {
	user, err := p.store.GetByIdentifier(ctx, identifier)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			p.logger.Debug("VerifyIdentity lookup miss for %s", identifier)
			return nil, ErrMismatchedHashAndPassword
		}
		return nil, errors.Wrap(err, errors.CategoryOperation, "identity lookup failed")
	}

	if err := p.hasher.ComparePasswordAndHash(password, user.PasswordHash); err != nil {
		return nil, err
	}

	if !user.IsActive {
		return nil, ErrAccountInactive
	}

	return identityFromUser(user), nil
}

// FindIdentityByIdentifier resolves an identity without verifying
// credentials. Used for impersonation and token minting by trusted callers.
func (p *UserProvider) FindIdentityByIdentifier(ctx context.Context, identifier string) (Identity, error) {
	user, err := p.store.GetByIdentifier(ctx, identifier)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, ErrIdentityNotFound
		}
		return nil, errors.Wrap(err, errors.CategoryOperation, "identity lookup failed")
	}
	return identityFromUser(user), nil
}

type authIdentity struct {
	id       string
	username string
	email    string
	role     string
}

func identityFromUser(user *User) authIdentity {
	return authIdentity{
		id:       user.ID.String(),
		username: user.Username,
		email:    user.Email,
		role:     string(user.Role),
	}
}

func (a authIdentity) ID() string       { return a.id }
func (a authIdentity) Username() string { return a.username }
func (a authIdentity) Email() string    { return a.email }
func (a authIdentity) Role() string     { return a.role }
