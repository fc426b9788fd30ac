package domain

import "time"

// PublishAction is the kind of remote call made for a content record
type PublishAction string

const (
	PublishActionPublish  PublishAction = "publish"
	PublishActionSchedule PublishAction = "schedule"
)

// PublishOutcome is the result of a remote publish attempt
type PublishOutcome string

const (
	PublishSucceeded PublishOutcome = "succeeded"
	PublishFailed    PublishOutcome = "failed"
)

// PublishRecord is one entry of the publish audit history
type PublishRecord struct {
	ID           string         `json:"id"`
	ContentID    string         `json:"contentId"`
	UserID       string         `json:"userId"`
	SiteID       string         `json:"siteId"`
	Action       PublishAction  `json:"action"`
	Status       PublishOutcome `json:"status"`
	WPPostID     string         `json:"wpPostId,omitempty"`
	WPPostURL    string         `json:"wpPostUrl,omitempty"`
	ScheduledFor *time.Time     `json:"scheduledFor,omitempty"`
	ErrorMessage string         `json:"errorMessage,omitempty"`
	CreatedAt    time.Time      `json:"createdAt"`
}

// PublishRequest represents a publish-now request
type PublishRequest struct {
	SiteID string `json:"siteId" validate:"required"`
}

// ScheduleRequest represents a scheduled publication request
type ScheduleRequest struct {
	SiteID      string    `json:"siteId" validate:"required"`
	PublishDate time.Time `json:"publishDate" validate:"required"`
}

// PublishResult is returned after a successful publish
type PublishResult struct {
	Message   string `json:"message"`
	WPPostID  string `json:"wpPostId"`
	WPPostURL string `json:"wpPostUrl"`
}

// ScheduleResult is returned after a successful schedule
type ScheduleResult struct {
	Message       string    `json:"message"`
	WPPostID      string    `json:"wpPostId"`
	ScheduledDate time.Time `json:"scheduledDate"`
}
