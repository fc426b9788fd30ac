package domain

import (
	"sort"
	"time"
)

// DefaultLanguage is used when neither the request nor the user sets one
const DefaultLanguage = "fr"

// DefaultMonthlyLimit is the generation quota granted at registration
const DefaultMonthlyLimit = 100

// User represents a platform user
type User struct {
	ID                string                   `json:"id" bson:"_id"`
	Email             string                   `json:"email" bson:"email"`
	PasswordHash      string                   `json:"-" bson:"password_hash"`
	Name              string                   `json:"name" bson:"name"`
	PreferredLanguage string                   `json:"preferredLanguage" bson:"preferred_language"`
	APIUsage          APIUsage                 `json:"apiUsage" bson:"api_usage"`
	WPSites           map[string]WordPressSite `json:"-" bson:"wp_sites"`
	CreatedAt         time.Time                `json:"createdAt" bson:"created_at"`
	UpdatedAt         time.Time                `json:"updatedAt" bson:"updated_at"`
}

// APIUsage tracks generation calls against the monthly cap
type APIUsage struct {
	CurrentUsage int `json:"currentUsage" bson:"current_usage"`
	MonthlyLimit int `json:"monthlyLimit" bson:"monthly_limit"`
}

// Exhausted reports whether no generation slot is left
func (u APIUsage) Exhausted() bool {
	return u.CurrentUsage >= u.MonthlyLimit
}

// WordPressSite holds the credentials of a registered WordPress site.
// AppPassword is kept encrypted at rest.
type WordPressSite struct {
	ID          string    `json:"id" bson:"id"`
	URL         string    `json:"url" bson:"url"`
	Username    string    `json:"username" bson:"username"`
	AppPassword string    `json:"-" bson:"app_password"`
	AddedAt     time.Time `json:"addedAt" bson:"added_at"`
}

// Site returns the registered site with the given id
func (u *User) Site(id string) (WordPressSite, bool) {
	site, ok := u.WPSites[id]
	return site, ok
}

// Sites returns registered sites in registration order
func (u *User) Sites() []WordPressSite {
	sites := make([]WordPressSite, 0, len(u.WPSites))
	for _, s := range u.WPSites {
		sites = append(sites, s)
	}
	sort.Slice(sites, func(i, j int) bool {
		return sites[i].AddedAt.Before(sites[j].AddedAt)
	})
	return sites
}

// UserCreate represents user registration data
type UserCreate struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,max=72"`
	Name     string `json:"name" validate:"required,max=255"`
}

// UserLogin represents login credentials
type UserLogin struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UserUpdate carries the profile fields a user may change
type UserUpdate struct {
	Name              *string `json:"name,omitempty" validate:"omitempty,min=1,max=255"`
	Password          *string `json:"password,omitempty" validate:"omitempty,min=1,max=72"`
	PreferredLanguage *string `json:"preferredLanguage,omitempty" validate:"omitempty,min=2,max=10"`
}

// ProfileChanges is a validated profile update with the password already hashed
type ProfileChanges struct {
	Name              *string
	PasswordHash      *string
	PreferredLanguage *string
}

// Empty reports whether the update changes nothing
func (c ProfileChanges) Empty() bool {
	return c.Name == nil && c.PasswordHash == nil && c.PreferredLanguage == nil
}

// ProfileUpdateFields lists the keys accepted by a profile update
var ProfileUpdateFields = []string{"name", "password", "preferredLanguage"}

// TokenPair represents JWT token pair
type TokenPair struct {
	AccessToken  string `json:"token"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    int64  `json:"expiresIn"`
}

// AuthResult is returned by register and login
type AuthResult struct {
	User *User `json:"user"`
	TokenPair
}

// SiteCreate represents a WordPress site registration request
type SiteCreate struct {
	URL         string `json:"url" validate:"required,url"`
	Username    string `json:"username" validate:"required"`
	AppPassword string `json:"appPassword" validate:"required"`
}
