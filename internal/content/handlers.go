package content

import (
	"database/sql"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/gofiber/fiber/v2"
	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"

	"admindash/auth"
)

// PostPayload is the request body for creating or updating posts.
type PostPayload struct {
	Title   string `json:"title"`
	Excerpt string `json:"excerpt"`
	Content string `json:"content"`
	Author  string `json:"author"`
	Status  string `json:"status"`
}

func (p PostPayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Title, validation.Required, validation.Length(1, 200)),
		validation.Field(&p.Content, validation.Required),
		validation.Field(&p.Author, validation.Required),
		validation.Field(&p.Status, validation.In("", string(PostStatusDraft), string(PostStatusPublished))),
	)
}

// QuotePayload is the request body for creating or updating quotes.
type QuotePayload struct {
	Text     string `json:"text"`
	Author   string `json:"author"`
	Category string `json:"category"`
}

func (p QuotePayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Text, validation.Required),
		validation.Field(&p.Author, validation.Required),
	)
}

// Controller serves the blog post and quote endpoints.
type Controller struct {
	posts      *PostRepository
	quotes     *QuoteRepository
	contextKey string
}

func NewController(posts *PostRepository, quotes *QuoteRepository, contextKey string) *Controller {
	return &Controller{posts: posts, quotes: quotes, contextKey: contextKey}
}

// Register mounts the content routes. Reads are public, writes require an
// authenticated request; each write handler checks the admin role itself.
func (ctrl *Controller) Register(router fiber.Router, guard fiber.Handler) {
	posts := router.Group("/posts")
	posts.Get("/", ctrl.ListPosts)
	posts.Get("/:id", ctrl.GetPost)
	posts.Post("/", guard, ctrl.CreatePost)
	posts.Put("/:id", guard, ctrl.UpdatePost)
	posts.Delete("/:id", guard, ctrl.DeletePost)
	posts.Patch("/:id/publish", guard, ctrl.PublishPost)

	quotes := router.Group("/quotes")
	quotes.Get("/", ctrl.ListQuotes)
	quotes.Get("/:id", ctrl.GetQuote)
	quotes.Post("/", guard, ctrl.CreateQuote)
	quotes.Put("/:id", guard, ctrl.UpdateQuote)
	quotes.Delete("/:id", guard, ctrl.DeleteQuote)
}

func (ctrl *Controller) requireAdmin(c *fiber.Ctx) error {
	return auth.RequireMinimumRole(c, ctrl.contextKey, auth.RoleAdmin)
}

func (ctrl *Controller) ListPosts(c *fiber.Ctx) error {
	skip := c.QueryInt("skip", 0)
	limit := c.QueryInt("limit", 100)

	posts, err := ctrl.posts.List(c.Context(), skip, limit)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryOperation, "failed to list posts")
	}
	return c.JSON(posts)
}

func (ctrl *Controller) GetPost(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	post, err := ctrl.posts.GetByID(c.Context(), id)
	if err != nil {
		return postLookupError(err)
	}
	return c.JSON(post)
}

func (ctrl *Controller) CreatePost(c *fiber.Ctx) error {
	if err := ctrl.requireAdmin(c); err != nil {
		return err
	}

	payload := PostPayload{}
	if err := c.BodyParser(&payload); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryBadInput, "invalid post payload")
	}
	if err := payload.Validate(); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryValidation, "invalid post payload")
	}

	post := &Post{
		Title:   payload.Title,
		Excerpt: payload.Excerpt,
		Content: payload.Content,
		Author:  payload.Author,
		Status:  PostStatus(payload.Status),
	}

	post, err := ctrl.posts.Create(c.Context(), post)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryOperation, "failed to create post")
	}
	return c.Status(fiber.StatusCreated).JSON(post)
}

func (ctrl *Controller) UpdatePost(c *fiber.Ctx) error {
	if err := ctrl.requireAdmin(c); err != nil {
		return err
	}

	id, err := parseID(c)
	if err != nil {
		return err
	}

	payload := PostPayload{}
	if err := c.BodyParser(&payload); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryBadInput, "invalid post payload")
	}
	if err := payload.Validate(); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryValidation, "invalid post payload")
	}

	post, err := ctrl.posts.GetByID(c.Context(), id)
	if err != nil {
		return postLookupError(err)
	}

	post.Title = payload.Title
	post.Excerpt = payload.Excerpt
	post.Content = payload.Content
	post.Author = payload.Author
	if payload.Status != "" {
		post.Status = PostStatus(payload.Status)
	}

	post, err = ctrl.posts.Update(c.Context(), post)
	if err != nil {
		return postLookupError(err)
	}
	return c.JSON(post)
}

func (ctrl *Controller) DeletePost(c *fiber.Ctx) error {
	if err := ctrl.requireAdmin(c); err != nil {
		return err
	}

	id, err := parseID(c)
	if err != nil {
		return err
	}

	if err := ctrl.posts.Delete(c.Context(), id); err != nil {
		return postLookupError(err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (ctrl *Controller) PublishPost(c *fiber.Ctx) error {
	if err := ctrl.requireAdmin(c); err != nil {
		return err
	}

	id, err := parseID(c)
	if err != nil {
		return err
	}

	post, err := ctrl.posts.Publish(c.Context(), id)
	if err != nil {
		return postLookupError(err)
	}
	return c.JSON(post)
}

func (ctrl *Controller) ListQuotes(c *fiber.Ctx) error {
	skip := c.QueryInt("skip", 0)
	limit := c.QueryInt("limit", 100)

	quotes, err := ctrl.quotes.List(c.Context(), skip, limit)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryOperation, "failed to list quotes")
	}
	return c.JSON(quotes)
}

func (ctrl *Controller) GetQuote(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	quote, err := ctrl.quotes.GetByID(c.Context(), id)
	if err != nil {
		return quoteLookupError(err)
	}
	return c.JSON(quote)
}

func (ctrl *Controller) CreateQuote(c *fiber.Ctx) error {
	if err := ctrl.requireAdmin(c); err != nil {
		return err
	}

	payload := QuotePayload{}
	if err := c.BodyParser(&payload); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryBadInput, "invalid quote payload")
	}
	if err := payload.Validate(); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryValidation, "invalid quote payload")
	}

	quote := &Quote{
		Text:     payload.Text,
		Author:   payload.Author,
		Category: payload.Category,
	}

	quote, err := ctrl.quotes.Create(c.Context(), quote)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryOperation, "failed to create quote")
	}
	return c.Status(fiber.StatusCreated).JSON(quote)
}

func (ctrl *Controller) UpdateQuote(c *fiber.Ctx) error {
	if err := ctrl.requireAdmin(c); err != nil {
		return err
	}

	id, err := parseID(c)
	if err != nil {
		return err
	}

	payload := QuotePayload{}
	if err := c.BodyParser(&payload); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryBadInput, "invalid quote payload")
	}
	if err := payload.Validate(); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryValidation, "invalid quote payload")
	}

	quote, err := ctrl.quotes.GetByID(c.Context(), id)
	if err != nil {
		return quoteLookupError(err)
	}

	quote.Text = payload.Text
	quote.Author = payload.Author
	quote.Category = payload.Category

	quote, err = ctrl.quotes.Update(c.Context(), quote)
	if err != nil {
		return quoteLookupError(err)
	}
	return c.JSON(quote)
}

func (ctrl *Controller) DeleteQuote(c *fiber.Ctx) error {
	if err := ctrl.requireAdmin(c); err != nil {
		return err
	}

	id, err := parseID(c)
	if err != nil {
		return err
	}

	if err := ctrl.quotes.Delete(c.Context(), id); err != nil {
		return quoteLookupError(err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func parseID(c *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.Nil, goerrors.Wrap(err, goerrors.CategoryBadInput, "invalid id")
	}
	return id, nil
}

func postLookupError(err error) error {
	if err == sql.ErrNoRows {
		return goerrors.New("Post not found", goerrors.CategoryNotFound)
	}
	return goerrors.Wrap(err, goerrors.CategoryOperation, "post lookup failed")
}

func quoteLookupError(err error) error {
	if err == sql.ErrNoRows {
		return goerrors.New("Quote not found", goerrors.CategoryNotFound)
	}
	return goerrors.Wrap(err, goerrors.CategoryOperation, "quote lookup failed")
}
