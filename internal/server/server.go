package server

import (
	"context"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/uptrace/bun"

	"admindash/auth"
	"admindash/internal/config"
	"admindash/internal/content"
	"admindash/internal/stats"
	"admindash/middleware/jwtware"
)

// Server wires the HTTP surface of the dashboard API.
type Server struct {
	app    *fiber.App
	cfg    *config.Config
	logger *slog.Logger

	repo     auth.RepositoryManager
	auther   auth.Authenticator
	tokens   auth.TokenService
	register *auth.RegisterUserHandler
}

// New builds a fully wired server on top of the given database handle.
func New(cfg *config.Config, db *bun.DB, logger *slog.Logger) *Server {
	authLog := NewAuthLogger(logger)

	repo := auth.NewRepositoryManager(db)
	hasher := auth.NewPasswordHasher(cfg.GetBcryptCost())
	provider := auth.NewUserProvider(repo.Users(), hasher, authLog)
	tokens := auth.NewTokenService(
		[]byte(cfg.GetSigningKey()),
		cfg.GetTokenExpiration(),
		cfg.GetIssuer(),
		cfg.GetAudience(),
		authLog,
	)
	auther := auth.NewAuthenticator(provider, tokens, authLog)
	register := auth.NewRegisterUserHandler(repo, hasher, authLog)

	app := fiber.New(fiber.Config{
		AppName:      "Admin Dashboard API",
		ErrorHandler: ErrorHandler(logger),
	})

	app.Use(recover.New())
	app.Use(requestid.New())
	if origins := cfg.CORSAllowOrigins(); origins != "" {
		app.Use(cors.New(cors.Config{
			AllowOrigins:     origins,
			AllowCredentials: true,
		}))
	} else {
		app.Use(cors.New())
	}
	app.Use(RequestTimer(logger))

	srv := &Server{
		app:      app,
		cfg:      cfg,
		logger:   logger,
		repo:     repo,
		auther:   auther,
		tokens:   tokens,
		register: register,
	}

	srv.registerRoutes(db)

	return srv
}

func (s *Server) registerRoutes(db *bun.DB) {
	s.app.Get("/", s.root)
	s.app.Get("/healthz", s.health(db))

	api := s.app.Group("/api")

	guard := s.Guard()

	authCtrl := NewAuthController(s.auther, s.register, s.repo, s.cfg)
	authCtrl.Register(api, guard)

	if s.cfg.Content.Enabled {
		posts := content.NewPostRepository(db)
		quotes := content.NewQuoteRepository(db)

		contentCtrl := content.NewController(posts, quotes, s.cfg.GetContextKey())
		contentCtrl.Register(api, guard)

		statsCtrl := stats.NewController(stats.NewService(posts, quotes), s.cfg.GetContextKey())
		statsCtrl.Register(api, guard)
	}
}

// Guard returns the authentication middleware. It only authenticates; role
// checks belong to the protected handlers.
func (s *Server) Guard() fiber.Handler {
	return jwtware.New(jwtware.Config{
		TokenValidator: tokenValidatorAdapter{s.tokens},
		ContextKey:     s.cfg.GetContextKey(),
		TokenLookup:    s.cfg.GetTokenLookup(),
		AuthScheme:     s.cfg.GetAuthScheme(),
		ContextEnricher: func(ctx context.Context, claims jwtware.AuthClaims) context.Context {
			if authClaims, ok := claims.(auth.AuthClaims); ok {
				return auth.WithClaimsContext(ctx, authClaims)
			}
			return ctx
		},
	})
}

func (s *Server) root(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"message": "Welcome to the Admin Dashboard API",
		"version": "0.1.0",
		"status":  "active",
	})
}

func (s *Server) health(db *bun.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := db.PingContext(c.Context()); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"status":   "degraded",
				"database": "disconnected",
			})
		}
		return c.JSON(fiber.Map{
			"status":   "healthy",
			"database": "connected",
		})
	}
}

// App exposes the fiber application, mainly for tests.
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen starts serving on the configured address.
func (s *Server) Listen() error {
	s.logger.Info("http server listening", "addr", s.cfg.Server.Addr)
	return s.app.Listen(s.cfg.Server.Addr)
}

// Shutdown drains in-flight requests and stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

// tokenValidatorAdapter bridges the auth token service to the middleware
// validator interface.
type tokenValidatorAdapter struct {
	tokens auth.TokenService
}

func (a tokenValidatorAdapter) Validate(tokenString string) (jwtware.AuthClaims, error) {
	claims, err := a.tokens.Validate(tokenString)
	if err != nil {
		return nil, err
	}
	return claims, nil
}
