package content

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// PostRepository implements post persistence using Bun.
type PostRepository struct {
	db *bun.DB
}

func NewPostRepository(db *bun.DB) *PostRepository {
	return &PostRepository{db: db}
}

func (r *PostRepository) List(ctx context.Context, skip, limit int) ([]*Post, error) {
	var models []*Post
	err := r.db.NewSelect().
		Model(&models).
		Order("created_at DESC").
		Offset(skip).
		Limit(limit).
		Scan(ctx)
	if err != nil {
		if err == sql.ErrNoRows {
			return []*Post{}, nil
		}
		return nil, err
	}
	if models == nil {
		models = []*Post{}
	}
	return models, nil
}

func (r *PostRepository) GetByID(ctx context.Context, id uuid.UUID) (*Post, error) {
	model := &Post{}
	err := r.db.NewSelect().
		Model(model).
		Where("?TableAlias.id = ?", id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return model, nil
}

func (r *PostRepository) Create(ctx context.Context, post *Post) (*Post, error) {
	if post.ID == uuid.Nil {
		post.ID = uuid.New()
	}
	if post.Status == "" {
		post.Status = PostStatusDraft
	}
	now := time.Now()
	post.CreatedAt = &now
	post.UpdatedAt = &now

	_, err := r.db.NewInsert().Model(post).Exec(ctx)
	if err != nil {
		return nil, err
	}
	return post, nil
}

func (r *PostRepository) Update(ctx context.Context, post *Post) (*Post, error) {
	now := time.Now()
	post.UpdatedAt = &now

	res, err := r.db.NewUpdate().
		Model(post).
		WherePK().
		Exec(ctx)
	if err != nil {
		return nil, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, sql.ErrNoRows
	}
	return post, nil
}

func (r *PostRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.NewDelete().
		Model((*Post)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Publish transitions a post to the published state and stamps the time.
func (r *PostRepository) Publish(ctx context.Context, id uuid.UUID) (*Post, error) {
	post, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	post.Status = PostStatusPublished
	post.PublishedAt = &now
	post.UpdatedAt = &now

	_, err = r.db.NewUpdate().
		Model(post).
		Column("status", "published_at", "updated_at").
		WherePK().
		Exec(ctx)
	if err != nil {
		return nil, err
	}
	return post, nil
}

func (r *PostRepository) Count(ctx context.Context) (int, error) {
	return r.db.NewSelect().Model((*Post)(nil)).Count(ctx)
}

func (r *PostRepository) CountByStatus(ctx context.Context, status PostStatus) (int, error) {
	return r.db.NewSelect().
		Model((*Post)(nil)).
		Where("status = ?", status).
		Count(ctx)
}

// QuoteRepository implements quote persistence using Bun.
type QuoteRepository struct {
	db *bun.DB
}

func NewQuoteRepository(db *bun.DB) *QuoteRepository {
	return &QuoteRepository{db: db}
}

func (r *QuoteRepository) List(ctx context.Context, skip, limit int) ([]*Quote, error) {
	var models []*Quote
	err := r.db.NewSelect().
		Model(&models).
		Order("created_at DESC").
		Offset(skip).
		Limit(limit).
		Scan(ctx)
	if err != nil {
		if err == sql.ErrNoRows {
			return []*Quote{}, nil
		}
		return nil, err
	}
	if models == nil {
		models = []*Quote{}
	}
	return models, nil
}

func (r *QuoteRepository) GetByID(ctx context.Context, id uuid.UUID) (*Quote, error) {
	model := &Quote{}
	err := r.db.NewSelect().
		Model(model).
		Where("?TableAlias.id = ?", id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return model, nil
}

func (r *QuoteRepository) Create(ctx context.Context, quote *Quote) (*Quote, error) {
	if quote.ID == uuid.Nil {
		quote.ID = uuid.New()
	}
	now := time.Now()
	quote.CreatedAt = &now
	quote.UpdatedAt = &now

	_, err := r.db.NewInsert().Model(quote).Exec(ctx)
	if err != nil {
		return nil, err
	}
	return quote, nil
}

func (r *QuoteRepository) Update(ctx context.Context, quote *Quote) (*Quote, error) {
	now := time.Now()
	quote.UpdatedAt = &now

	res, err := r.db.NewUpdate().
		Model(quote).
		WherePK().
		Exec(ctx)
	if err != nil {
		return nil, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, sql.ErrNoRows
	}
	return quote, nil
}

func (r *QuoteRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.NewDelete().
		Model((*Quote)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *QuoteRepository) Count(ctx context.Context) (int, error) {
	return r.db.NewSelect().Model((*Quote)(nil)).Count(ctx)
}
