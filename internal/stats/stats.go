package stats

import (
	"context"

	"github.com/gofiber/fiber/v2"
	goerrors "github.com/goliatone/go-errors"

	"admindash/auth"
	"admindash/internal/content"
)

// DashboardStats is the aggregate reported to the admin dashboard.
type DashboardStats struct {
	QuoteAPIRequests int    `json:"quote_api_requests"`
	BlogPosts        int    `json:"blog_posts"`
	BlogViews        int    `json:"blog_views"`
	Uptime           string `json:"uptime"`
}

// Service aggregates dashboard statistics. Post counts come from storage,
// the request and uptime figures are placeholders until a metrics backend
// is wired in.
type Service struct {
	posts  *content.PostRepository
	quotes *content.QuoteRepository
}

func NewService(posts *content.PostRepository, quotes *content.QuoteRepository) *Service {
	return &Service{posts: posts, quotes: quotes}
}

func (s *Service) Dashboard(ctx context.Context) (*DashboardStats, error) {
	blogPosts := 0
	if s.posts != nil {
		count, err := s.posts.Count(ctx)
		if err != nil {
			return nil, goerrors.Wrap(err, goerrors.CategoryOperation, "failed to count posts")
		}
		blogPosts = count
	}

	return &DashboardStats{
		QuoteAPIRequests: 1243,
		BlogPosts:        blogPosts,
		BlogViews:        5678,
		Uptime:           "99.9%",
	}, nil
}

// Controller serves the statistics endpoints.
type Controller struct {
	service    *Service
	contextKey string
}

func NewController(service *Service, contextKey string) *Controller {
	return &Controller{service: service, contextKey: contextKey}
}

// Register mounts the stats routes behind the given authentication guard.
// The handler checks the admin role itself.
func (ctrl *Controller) Register(router fiber.Router, guard fiber.Handler) {
	group := router.Group("/stats")
	group.Get("/dashboard", guard, ctrl.Dashboard)
}

func (ctrl *Controller) Dashboard(c *fiber.Ctx) error {
	if err := auth.RequireMinimumRole(c, ctrl.contextKey, auth.RoleAdmin); err != nil {
		return err
	}

	dashboard, err := ctrl.service.Dashboard(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(dashboard)
}
