package auth

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"
	"unicode"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/goliatone/hashid/pkg/hashid"
	"github.com/nyaruka/phonenumbers"
	"github.com/uptrace/bun"
)

var passwordSpecialChars = regexp.MustCompile(`[!@#$%^&*(),.?":{}|<>]`)

// RegisterUserMessage carries a registration request.
type RegisterUserMessage struct {
	Name      string `json:"name"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Role      string `json:"role"`
	Password  string `json:"password"`
	UseHashid bool   `json:"-"`
}

func (e RegisterUserMessage) Type() string { return "user.register" }

// Validate enforces the account payload policy. Each password rule carries
// its own message so clients can tell the user which requirement failed.
func (e RegisterUserMessage) Validate() error {
	return validation.ValidateStruct(&e,
		validation.Field(&e.Username,
			validation.Required,
			validation.Length(5, 30),
		),
		validation.Field(&e.Name,
			validation.Required,
			validation.Length(2, 30),
		),
		validation.Field(&e.Email,
			validation.Required,
			is.Email,
		),
		validation.Field(&e.Phone,
			validation.By(validPhoneNumber),
		),
		validation.Field(&e.Role,
			validation.By(validRole),
		),
		validation.Field(&e.Password,
			validation.Required,
			validation.Length(8, 72),
			validation.By(hasUppercase),
			validation.By(hasLowercase),
			validation.By(hasDigit),
			validation.Match(passwordSpecialChars).
				Error("must contain at least one special character"),
		),
	)
}

func hasUppercase(value any) error {
	return hasRuneClass(value, unicode.IsUpper, "must contain at least one uppercase letter")
}

func hasLowercase(value any) error {
	return hasRuneClass(value, unicode.IsLower, "must contain at least one lowercase letter")
}

func hasDigit(value any) error {
	return hasRuneClass(value, unicode.IsDigit, "must contain at least one digit")
}

func hasRuneClass(value any, class func(rune) bool, msg string) error {
	s, _ := value.(string)
	for _, r := range s {
		if class(r) {
			return nil
		}
	}
	return errors.New(msg)
}

func validPhoneNumber(value any) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	if _, err := phonenumbers.Parse(s, "US"); err != nil {
		return errors.New("must be a valid phone number")
	}
	return nil
}

func validRole(value any) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	if !UserRole(s).IsValid() {
		return errors.New("must be a valid role")
	}
	return nil
}

// RegisterUserHandler creates accounts with hashed credentials.
type RegisterUserHandler struct {
	repo   RepositoryManager
	hasher PasswordAuthenticator
	logger Logger
}

func NewRegisterUserHandler(repo RepositoryManager, hasher PasswordAuthenticator, logger Logger) *RegisterUserHandler {
	if hasher == nil {
		hasher = defaultHasher
	}
	if logger == nil {
		logger = defLogger{}
	}
	return &RegisterUserHandler{
		repo:   repo,
		hasher: hasher,
		logger: logger,
	}
}

func (h *RegisterUserHandler) Execute(ctx context.Context, event RegisterUserMessage) (*User, error) {
	select {
	case <-ctx.Done():
		return nil, goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during user registration",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *RegisterUserHandler) execute(ctx context.Context, event RegisterUserMessage) (*User, error) {
	if err := event.Validate(); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryValidation, "invalid registration payload").
			WithTextCode(TextCodeInvalidRegistration)
	}

	user := &User{}
	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	err := h.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if err := h.checkDuplicatesTx(ctx, tx, event); err != nil {
			return err
		}

		hash, err := h.hasher.HashPassword(event.Password)
		if err != nil {
			var richErr *goerrors.Error
			if goerrors.As(err, &richErr) {
				return goerrors.Wrap(richErr, goerrors.CategoryValidation, "invalid password provided")
			}
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to hash password")
		}

		user.PasswordHash = hash
		user.Email = event.Email
		user.Phone = event.Phone
		user.Name = event.Name
		user.Username = getUsername(event.Username, event.Email)
		user.Role = UserRole(event.Role)
		user.IsActive = true
		if event.UseHashid {
			if id, err := hashid.NewUUID(event.Email); err == nil {
				user.ID = id
			}
		}

		if user, err = h.repo.Users().CreateTx(ctx, tx, user); err != nil {
			if dup := duplicateIdentifierError(err); dup != nil {
				return dup
			}
			return goerrors.Wrap(err, goerrors.CategoryConflict, "could not create user")
		}

		return nil
	})

	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return nil, richErr
		}

		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "user registration transaction failed")
	}

	return user, nil
}

func (h *RegisterUserHandler) checkDuplicatesTx(ctx context.Context, tx bun.Tx, event RegisterUserMessage) error {
	if _, err := h.repo.Users().GetByIdentifierTx(ctx, tx, event.Email); err == nil {
		return ErrDuplicateEmail
	} else if !repository.IsRecordNotFound(err) {
		return goerrors.Wrap(err, goerrors.CategoryOperation, "duplicate email check failed")
	}

	username := getUsername(event.Username, event.Email)
	if _, err := h.repo.Users().GetByIdentifierTx(ctx, tx, username); err == nil {
		return ErrDuplicateUsername
	} else if !repository.IsRecordNotFound(err) {
		return goerrors.Wrap(err, goerrors.CategoryOperation, "duplicate username check failed")
	}

	return nil
}

// duplicateIdentifierError maps driver level unique violations to the
// duplicate account errors. The pre-insert checks cover the common path,
// this catches the race between check and insert.
func duplicateIdentifierError(err error) *goerrors.Error {
	if err == nil {
		return nil
	}

	msg := strings.ToLower(err.Error())
	if !strings.Contains(msg, "unique") && !strings.Contains(msg, "duplicate") {
		return nil
	}

	if strings.Contains(msg, "email") {
		return ErrDuplicateEmail
	}
	if strings.Contains(msg, "username") {
		return ErrDuplicateUsername
	}

	return goerrors.Wrap(err, goerrors.CategoryConflict, "account already exists").
		WithTextCode(TextCodeDuplicateEmail)
}

func getUsername(username, email string) string {
	if username != "" {
		return username
	}

	if strings.Contains(email, "@") {
		username = strings.Split(email, "@")[0]
	}

	return username
}
