package domain

import "time"

// DefaultAIModel is used when a generation request names no model
const DefaultAIModel = "gpt-3.5-turbo"

// ContentType is the kind of text being generated
type ContentType string

const (
	ContentTypeBlog    ContentType = "blog"
	ContentTypeProduct ContentType = "product"
	ContentTypeLanding ContentType = "landing"
	ContentTypeSocial  ContentType = "social"
)

// Valid reports whether t is one of the supported content types
func (t ContentType) Valid() bool {
	switch t {
	case ContentTypeBlog, ContentTypeProduct, ContentTypeLanding, ContentTypeSocial:
		return true
	}
	return false
}

// ContentStatus is the publishing state of a content record
type ContentStatus string

const (
	ContentStatusDraft     ContentStatus = "draft"
	ContentStatusPublished ContentStatus = "published"
	ContentStatusScheduled ContentStatus = "scheduled"
)

// Content is a generated text owned by its creator
type Content struct {
	ID           string        `json:"id" bson:"_id"`
	Title        string        `json:"title" bson:"title"`
	Body         string        `json:"content" bson:"content"`
	Keywords     []string      `json:"keywords" bson:"keywords"`
	Language     string        `json:"language" bson:"language"`
	ContentType  ContentType   `json:"contentType" bson:"content_type"`
	WordCount    int           `json:"wordCount" bson:"word_count"`
	SEOScore     *int          `json:"seoScore,omitempty" bson:"seo_score,omitempty"`
	Status       ContentStatus `json:"status" bson:"status"`
	PublishDate  *time.Time    `json:"publishDate,omitempty" bson:"publish_date,omitempty"`
	WPSiteID     string        `json:"wpSiteId,omitempty" bson:"wp_site_id,omitempty"`
	WPPostID     string        `json:"wpPostId,omitempty" bson:"wp_post_id,omitempty"`
	WPPostURL    string        `json:"wpPostUrl,omitempty" bson:"wp_post_url,omitempty"`
	Translations []Translation `json:"translations" bson:"translations"`
	CreatorID    string        `json:"creator" bson:"creator"`
	AIModel      string        `json:"aiModel" bson:"ai_model"`
	CreatedAt    time.Time     `json:"createdAt" bson:"created_at"`
	UpdatedAt    time.Time     `json:"updatedAt" bson:"updated_at"`
}

// IsPublished returns true if the content went out to a WordPress site
func (c *Content) IsPublished() bool {
	return c.Status == ContentStatusPublished || c.Status == ContentStatusScheduled
}

// Translation is a localized variant of a content record
type Translation struct {
	Language string `json:"language" bson:"language"`
	Title    string `json:"title" bson:"title"`
	Body     string `json:"content" bson:"content"`
	WPPostID string `json:"wpPostId,omitempty" bson:"wp_post_id,omitempty"`
}

// GenerateRequest represents a content generation request
type GenerateRequest struct {
	Keywords    []string    `json:"keywords" validate:"required,min=1,dive,required"`
	ContentType ContentType `json:"contentType" validate:"required,oneof=blog product landing social"`
	WordCount   int         `json:"wordCount" validate:"required,gt=0"`
	Language    string      `json:"language" validate:"omitempty,min=2,max=10"`
	AIModel     string      `json:"aiModel"`
}

// ContentUpdate carries the content fields a user may edit
type ContentUpdate struct {
	Title    *string        `json:"title,omitempty" validate:"omitempty,min=1"`
	Body     *string        `json:"content,omitempty" validate:"omitempty,min=1"`
	Keywords []string       `json:"keywords,omitempty" validate:"omitempty,dive,required"`
	Status   *ContentStatus `json:"status,omitempty"`
}

// ContentUpdateFields lists the keys accepted by a content update
var ContentUpdateFields = []string{"title", "content", "keywords", "status"}

// ContentPublish marks a content record as sent to a WordPress site
type ContentPublish struct {
	SiteID      string
	PostID      string
	PostURL     string
	Status      ContentStatus
	PublishDate *time.Time
}
