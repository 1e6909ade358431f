package models

import "time"

// ContentStatus gates public visibility of content rows.
type ContentStatus string

const (
	StatusDraft     ContentStatus = "draft"
	StatusPublished ContentStatus = "published"
	StatusArchived  ContentStatus = "archived"
)

// Valid reports whether s is a known content status.
func (s ContentStatus) Valid() bool {
	switch s {
	case StatusDraft, StatusPublished, StatusArchived:
		return true
	}
	return false
}

// CategoryKind scopes a category to the content it groups.
type CategoryKind string

const (
	CategoryProduct CategoryKind = "product"
	CategoryService CategoryKind = "service"
	CategoryProject CategoryKind = "project"
	CategoryBlog    CategoryKind = "blog"
)

// Valid reports whether k is a known category kind.
func (k CategoryKind) Valid() bool {
	switch k {
	case CategoryProduct, CategoryService, CategoryProject, CategoryBlog:
		return true
	}
	return false
}

// Category groups products, services, projects or blog posts.
type Category struct {
	ID          uint          `gorm:"primaryKey" json:"id"`
	Name        string        `gorm:"size:120;not null" json:"name"`
	Slug        string        `gorm:"size:120;not null;uniqueIndex" json:"slug"`
	Description string        `gorm:"type:text" json:"description"`
	Kind        CategoryKind  `gorm:"size:20;not null;default:'product';index" json:"kind"`
	Status      ContentStatus `gorm:"size:20;not null;default:'published'" json:"status"`
	SortOrder   int           `gorm:"not null;default:0" json:"sortOrder"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
}

// Product is a sellable item; licenses reference it.
type Product struct {
	ID          uint          `gorm:"primaryKey" json:"id"`
	Name        string        `gorm:"size:200;not null" json:"name"`
	Slug        string        `gorm:"size:120;not null;uniqueIndex" json:"slug"`
	Summary     string        `gorm:"size:500" json:"summary"`
	Description string        `gorm:"type:text" json:"description"`
	PriceCents  int64         `gorm:"not null;default:0" json:"priceCents"`
	Currency    string        `gorm:"size:3;not null;default:'USD'" json:"currency"`
	ImageURL    string        `gorm:"size:500" json:"imageUrl"`
	DownloadURL string        `gorm:"size:500" json:"downloadUrl,omitempty"`
	Version     string        `gorm:"size:40" json:"version"`
	Features    []string      `gorm:"serializer:json;type:text" json:"features"`
	CategoryID  *uint         `gorm:"index" json:"categoryId"`
	Category    *Category     `gorm:"constraint:OnDelete:SET NULL" json:"category,omitempty"`
	Status      ContentStatus `gorm:"size:20;not null;default:'draft';index" json:"status"`
	IsFeatured  bool          `gorm:"not null" json:"isFeatured"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
}

// Service is an offered professional service.
type Service struct {
	ID             uint          `gorm:"primaryKey" json:"id"`
	Title          string        `gorm:"size:200;not null" json:"title"`
	Slug           string        `gorm:"size:120;not null;uniqueIndex" json:"slug"`
	Summary        string        `gorm:"size:500" json:"summary"`
	Description    string        `gorm:"type:text" json:"description"`
	Icon           string        `gorm:"size:80" json:"icon"`
	PriceFromCents int64         `gorm:"not null;default:0" json:"priceFromCents"`
	Features       []string      `gorm:"serializer:json;type:text" json:"features"`
	SortOrder      int           `gorm:"not null;default:0" json:"sortOrder"`
	Status         ContentStatus `gorm:"size:20;not null;default:'draft';index" json:"status"`
	IsFeatured     bool          `gorm:"not null" json:"isFeatured"`
	CreatedAt      time.Time     `json:"createdAt"`
	UpdatedAt      time.Time     `json:"updatedAt"`
}

// Project is a portfolio entry.
type Project struct {
	ID           uint          `gorm:"primaryKey" json:"id"`
	Title        string        `gorm:"size:200;not null" json:"title"`
	Slug         string        `gorm:"size:120;not null;uniqueIndex" json:"slug"`
	Summary      string        `gorm:"size:500" json:"summary"`
	Description  string        `gorm:"type:text" json:"description"`
	ClientName   string        `gorm:"size:120" json:"clientName"`
	ProjectURL   string        `gorm:"size:500" json:"projectUrl"`
	ImageURL     string        `gorm:"size:500" json:"imageUrl"`
	Technologies []string      `gorm:"serializer:json;type:text" json:"technologies"`
	CategoryID   *uint         `gorm:"index" json:"categoryId"`
	Category     *Category     `gorm:"constraint:OnDelete:SET NULL" json:"category,omitempty"`
	CompletedAt  *time.Time    `json:"completedAt"`
	Status       ContentStatus `gorm:"size:20;not null;default:'draft';index" json:"status"`
	IsFeatured   bool          `gorm:"not null" json:"isFeatured"`
	CreatedAt    time.Time     `json:"createdAt"`
	UpdatedAt    time.Time     `json:"updatedAt"`
}

// BlogPost is an article. Content holds sanitised HTML.
type BlogPost struct {
	ID          uint          `gorm:"primaryKey" json:"id"`
	Title       string        `gorm:"size:300;not null" json:"title"`
	Slug        string        `gorm:"size:120;not null;uniqueIndex" json:"slug"`
	Excerpt     string        `gorm:"size:500" json:"excerpt"`
	Content     string        `gorm:"type:text" json:"content"`
	CoverImage  string        `gorm:"size:500" json:"coverImage"`
	AuthorID    *uint         `gorm:"index" json:"authorId"`
	Author      *User         `gorm:"constraint:OnDelete:SET NULL" json:"author,omitempty"`
	CategoryID  *uint         `gorm:"index" json:"categoryId"`
	Category    *Category     `gorm:"constraint:OnDelete:SET NULL" json:"category,omitempty"`
	Tags        []string      `gorm:"serializer:json;type:text" json:"tags"`
	Status      ContentStatus `gorm:"size:20;not null;default:'draft';index" json:"status"`
	PublishedAt *time.Time    `json:"publishedAt"`
	ViewCount   int64         `gorm:"not null;default:0" json:"viewCount"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
}

// TableName specifies the table name for GORM.
func (BlogPost) TableName() string {
	return "blog_posts"
}
