package content

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// PostStatus is the publication state of a blog post.
type PostStatus string

const (
	PostStatusDraft     PostStatus = "draft"
	PostStatusPublished PostStatus = "published"
)

// Post is a blog post managed from the dashboard.
type Post struct {
	bun.BaseModel `bun:"table:posts,alias:pst"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Title         string     `bun:"title,notnull" json:"title"`
	Excerpt       string     `bun:"excerpt" json:"excerpt,omitempty"`
	Content       string     `bun:"content,notnull" json:"content"`
	Author        string     `bun:"author,notnull" json:"author"`
	Status        PostStatus `bun:"status,notnull,default:'draft'" json:"status"`
	PublishedAt   *time.Time `bun:"published_at,nullzero" json:"published_at,omitempty"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}

// Quote is a quote entry served by the dashboard.
type Quote struct {
	bun.BaseModel `bun:"table:quotes,alias:qte"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Text          string     `bun:"text,notnull" json:"text"`
	Author        string     `bun:"author,notnull" json:"author"`
	Category      string     `bun:"category" json:"category,omitempty"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}
