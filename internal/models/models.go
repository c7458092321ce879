// Package models holds the database models.
package models

import (
	"time"

	"gorm.io/datatypes"
)

// User is an admin account. Only admins exist; the public side is anonymous.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `json:"name"`
	Email     string    `gorm:"uniqueIndex;size:255" json:"email"`
	Password  string    `json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Project struct {
	ID           uint                        `gorm:"primaryKey" json:"id"`
	Title        string                      `gorm:"size:255;not null" json:"title"`
	Slug         string                      `gorm:"size:255;not null;uniqueIndex" json:"slug"`
	Category     *string                     `gorm:"size:255" json:"category"`
	Client       *string                     `gorm:"size:255" json:"client"`
	Role         *string                     `gorm:"size:255" json:"role"`
	Year         *string                     `gorm:"size:4" json:"year"`
	Description  *string                     `json:"description"`
	Content      *string                     `json:"content"`   // markdown body
	Thumbnail    *string                     `json:"thumbnail"` // storage path
	VideoURL     *string                     `json:"video_url"`
	LiveURL      *string                     `json:"live_url"`
	GithubURL    *string                     `json:"github_url"`
	Technologies datatypes.JSONSlice[string] `json:"technologies"`
	IsFeatured   bool                        `gorm:"not null;default:false" json:"is_featured"`
	SortOrder    int                         `gorm:"not null;default:0;index" json:"sort_order"`
	PublishedAt  *time.Time                  `json:"published_at"`
	CreatedAt    time.Time                   `gorm:"index" json:"created_at"`
	UpdatedAt    time.Time                   `json:"updated_at"`
}

type Skill struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:255;not null" json:"name"`
	Slug        string    `gorm:"size:255;not null;uniqueIndex" json:"slug"`
	Category    string    `gorm:"size:255;not null" json:"category"`
	Proficiency int       `gorm:"not null;default:0" json:"proficiency"` // 0..100
	SortOrder   int       `gorm:"not null;default:0" json:"sort_order"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Experience struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	Company     string          `gorm:"size:255;not null" json:"company"`
	Role        string          `gorm:"size:255;not null" json:"role"`
	Location    *string         `gorm:"size:255" json:"location"`
	Description *string         `json:"description"`
	StartDate   datatypes.Date  `gorm:"not null;index" json:"start_date"`
	EndDate     *datatypes.Date `json:"end_date"`
	IsCurrent   bool            `gorm:"not null;default:false" json:"is_current"`
	CompanyLogo *string         `json:"company_logo"` // storage path
	SortOrder   int             `gorm:"not null;default:0" json:"sort_order"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// Resource is a downloadable or purchasable asset. Free resources link to
// FileURL, paid ones to PurchaseLink.
type Resource struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Title         string    `gorm:"size:255;not null" json:"title"`
	Slug          string    `gorm:"size:255;not null;uniqueIndex" json:"slug"`
	Category      string    `gorm:"size:255;not null" json:"category"`
	Description   *string   `json:"description"`
	IsFree        bool      `gorm:"not null" json:"is_free"` // defaults to true in the store
	Price         *string   `gorm:"size:255" json:"price"`
	PurchaseLink  *string   `json:"purchase_link"`
	FileURL       *string   `json:"file_url"`  // external, never rewritten
	Thumbnail     *string   `json:"thumbnail"` // storage path
	DownloadCount int       `gorm:"not null;default:0" json:"download_count"`
	IsFeatured    bool      `gorm:"not null;default:false" json:"is_featured"`
	CreatedAt     time.Time `gorm:"index" json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Contact is a message sent through the public contact form.
type Contact struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	Name      string     `gorm:"size:255;not null" json:"name"`
	Email     string     `gorm:"size:255;not null" json:"email"`
	Subject   *string    `gorm:"size:255" json:"subject"`
	Message   string     `gorm:"not null" json:"message"`
	ReadAt    *time.Time `gorm:"index" json:"read_at"`
	CreatedAt time.Time  `gorm:"index" json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

type Visit struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	IPAddress   string    `gorm:"size:45;index" json:"ip_address"`
	URL         string    `json:"url"`
	UserAgent   string    `json:"user_agent"`
	CountryCode *string   `gorm:"size:8;index" json:"country_code"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// All lists every model for AutoMigrate.
func All() []interface{} {
	return []interface{}{&User{}, &Project{}, &Skill{}, &Experience{}, &Resource{}, &Contact{}, &Visit{}}
}
