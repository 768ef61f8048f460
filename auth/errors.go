package auth

import (
	"strings"

	"github.com/goliatone/go-errors"
)

// Text codes surfaced alongside rich errors so transport adapters and
// clients can branch without string matching.
const (
	TextCodeInvalidCreds        = "AUTH_INVALID_CREDENTIALS"
	TextCodeAccountInactive     = "AUTH_ACCOUNT_INACTIVE"
	TextCodeTokenExpired        = "AUTH_TOKEN_EXPIRED"
	TextCodeTokenMalformed      = "AUTH_TOKEN_MALFORMED"
	TextCodeForbidden           = "AUTH_FORBIDDEN"
	TextCodeDuplicateEmail      = "AUTH_DUPLICATE_EMAIL"
	TextCodeDuplicateUsername   = "AUTH_DUPLICATE_USERNAME"
	TextCodeIdentityNotFound    = "AUTH_IDENTITY_NOT_FOUND"
	TextCodeEmptyPassword       = "AUTH_EMPTY_PASSWORD"
	TextCodeStoreUnavailable    = "AUTH_STORE_UNAVAILABLE"
	TextCodeInvalidRegistration = "AUTH_INVALID_REGISTRATION"
)

// ErrIdentityNotFound is the error we return for non found identities
var ErrIdentityNotFound = errors.New("identity not found", errors.CategoryNotFound).
	WithTextCode(TextCodeIdentityNotFound).
	WithCode(errors.CodeNotFound)

// ErrMismatchedHashAndPassword covers both an unknown identifier and a
// wrong password. The two paths must stay merged so callers cannot probe
// which identifiers exist.
var ErrMismatchedHashAndPassword = errors.New("the credentials provided are invalid", errors.CategoryAuth).
	WithTextCode(TextCodeInvalidCreds).
	WithCode(errors.CodeUnauthorized)

// ErrAccountInactive is returned after a correct password for a deactivated
// account. Disclosed only post-verification, so it leaks nothing to guessers.
var ErrAccountInactive = errors.New("account is inactive", errors.CategoryAuth).
	WithTextCode(TextCodeAccountInactive).
	WithCode(errors.CodeUnauthorized)

// ErrTokenExpired is returned when a token's expiry timestamp has passed
var ErrTokenExpired = errors.New("token is expired", errors.CategoryAuth).
	WithTextCode(TextCodeTokenExpired).
	WithCode(errors.CodeUnauthorized)

// ErrTokenMalformed covers bad signatures, unexpected signing methods, and
// tokens missing required claims
var ErrTokenMalformed = errors.New("token is malformed", errors.CategoryAuth).
	WithTextCode(TextCodeTokenMalformed).
	WithCode(errors.CodeUnauthorized)

// ErrForbidden is returned when a valid token carries an insufficient role
var ErrForbidden = errors.New("not enough permissions", errors.CategoryAuthz).
	WithTextCode(TextCodeForbidden).
	WithCode(errors.CodeForbidden)

// ErrDuplicateEmail rejects registration against an email already on record
var ErrDuplicateEmail = errors.New("email already registered", errors.CategoryConflict).
	WithTextCode(TextCodeDuplicateEmail).
	WithCode(errors.CodeConflict)

// ErrDuplicateUsername rejects registration against a taken username
var ErrDuplicateUsername = errors.New("username already taken", errors.CategoryConflict).
	WithTextCode(TextCodeDuplicateUsername).
	WithCode(errors.CodeConflict)

// ErrNoEmptyString rejects hashing an empty password
var ErrNoEmptyString = errors.New("password must not be empty", errors.CategoryValidation).
	WithTextCode(TextCodeEmptyPassword).
	WithCode(errors.CodeBadRequest)

// ErrStoreUnavailable wraps collaborator failures that merit a retry by the
// caller. It is the only 5xx-class member of the taxonomy.
var ErrStoreUnavailable = errors.New("user store unavailable", errors.CategoryOperation).
	WithTextCode(TextCodeStoreUnavailable)

// IsTokenExpiredError will check for expired tokens, including errors
// bubbled up from the JWT library as plain strings.
func IsTokenExpiredError(err error) bool {
	if err == nil {
		return false
	}

	var rich *errors.Error
	if errors.As(err, &rich) && rich.TextCode == TextCodeTokenExpired {
		return true
	}

	return strings.Contains(err.Error(), "token is expired")
}

// IsMalformedError will check for error message
func IsMalformedError(err error) bool {
	if err == nil {
		return false
	}

	var rich *errors.Error
	if errors.As(err, &rich) && rich.TextCode == TextCodeTokenMalformed {
		return true
	}

	return strings.Contains(err.Error(), "token is malformed") ||
		strings.Contains(err.Error(), "missing or malformed JWT")
}

// IsInvalidCredentials reports whether err is the merged credentials error.
func IsInvalidCredentials(err error) bool {
	if err == nil {
		return false
	}

	var rich *errors.Error
	return errors.As(err, &rich) && rich.TextCode == TextCodeInvalidCreds
}

// IsDuplicateIdentifier reports whether err is either uniqueness rejection.
func IsDuplicateIdentifier(err error) bool {
	if err == nil {
		return false
	}

	var rich *errors.Error
	if !errors.As(err, &rich) {
		return false
	}

	return rich.TextCode == TextCodeDuplicateEmail || rich.TextCode == TextCodeDuplicateUsername
}
