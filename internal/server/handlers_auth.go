package server

import (
	"github.com/gofiber/fiber/v2"
	goerrors "github.com/goliatone/go-errors"

	"admindash/auth"
)

// LoginRequest is the JSON login payload.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// TokenResponse is the bearer token envelope.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// AuthController serves the authentication endpoints.
type AuthController struct {
	auther   auth.Authenticator
	register *auth.RegisterUserHandler
	repo     auth.RepositoryManager
	cfg      auth.Config
}

func NewAuthController(auther auth.Authenticator, register *auth.RegisterUserHandler, repo auth.RepositoryManager, cfg auth.Config) *AuthController {
	return &AuthController{
		auther:   auther,
		register: register,
		repo:     repo,
		cfg:      cfg,
	}
}

// Register mounts the auth routes. The me endpoint goes through the given
// guard, everything else is public.
func (ctrl *AuthController) Register(router fiber.Router, guard fiber.Handler) {
	group := router.Group("/auth")
	group.Post("/register", ctrl.RegisterUser)
	group.Post("/login", ctrl.Login)
	group.Post("/token", ctrl.Token)
	group.Get("/me", guard, ctrl.Me)
}

// RegisterUser creates a new account from a JSON payload.
func (ctrl *AuthController) RegisterUser(c *fiber.Ctx) error {
	message := auth.RegisterUserMessage{}
	if err := c.BodyParser(&message); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryBadInput, "invalid registration payload")
	}

	user, err := ctrl.register.Execute(c.Context(), message)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"user": user.Public(),
	})
}

// Login authenticates a JSON email and password payload.
func (ctrl *AuthController) Login(c *fiber.Ctx) error {
	payload := LoginRequest{}
	if err := c.BodyParser(&payload); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryBadInput, "invalid login payload")
	}

	return ctrl.issueToken(c, payload.Email, payload.Password)
}

// Token authenticates an OAuth2 style form payload. The username form field
// carries the email.
func (ctrl *AuthController) Token(c *fiber.Ctx) error {
	identifier := c.FormValue("username")
	password := c.FormValue("password")

	return ctrl.issueToken(c, identifier, password)
}

func (ctrl *AuthController) issueToken(c *fiber.Ctx, identifier, password string) error {
	if identifier == "" || password == "" {
		return auth.ErrMismatchedHashAndPassword
	}

	token, err := ctrl.auther.Login(c.Context(), identifier, password)
	if err != nil {
		return err
	}

	return c.JSON(TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
	})
}

// Me returns the profile of the authenticated user.
func (ctrl *AuthController) Me(c *fiber.Ctx) error {
	claims, ok := auth.GetFiberClaims(c, ctrl.cfg.GetContextKey())
	if !ok {
		return auth.ErrTokenMalformed
	}

	user, err := ctrl.repo.Users().GetByIdentifier(c.Context(), claims.UserID())
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryAuth, "could not resolve user").
			WithTextCode(auth.TextCodeIdentityNotFound)
	}

	return c.JSON(user.Public())
}
