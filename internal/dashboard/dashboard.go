// Package dashboard assembles the admin overview. Every number is read fresh
// with its own query; the reads are not isolated from each other.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/aTrapDeer/portfolio-backend/internal/models"
)

const (
	recentLimit  = 5
	topCountries = 4
)

type Counts struct {
	Projects   int64 `json:"projects"`
	Skills     int64 `json:"skills"`
	Experience int64 `json:"experience"`
	Resources  int64 `json:"resources"`
	Messages   int64 `json:"messages"` // unread
}

type RecentProject struct {
	ID        uint      `json:"id"`
	Title     string    `json:"title"`
	Category  *string   `json:"category"`
	CreatedAt time.Time `json:"created_at"`
	Thumbnail *string   `json:"thumbnail"`
}

type RecentMessage struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Subject   *string   `json:"subject"`
	CreatedAt time.Time `json:"created_at"`
}

type CountryCount struct {
	CountryCode string `json:"country_code"`
	Total       int64  `json:"total"`
}

type VisitorStats struct {
	TotalVisits    int64          `json:"total_visits"`
	UniqueVisitors int64          `json:"unique_visitors"`
	TopRegions     []CountryCount `json:"top_regions"`
}

type Summary struct {
	Counts         Counts          `json:"counts"`
	RecentProjects []RecentProject `json:"recent_projects"`
	RecentMessages []RecentMessage `json:"recent_messages"`
	VisitorStats   VisitorStats    `json:"visitor_stats"`
	LastUpdate     time.Time       `json:"last_update"`
}

type Aggregator struct {
	db  *gorm.DB
	now func() time.Time
}

func New(db *gorm.DB, now func() time.Time) *Aggregator {
	if now == nil {
		now = time.Now
	}
	return &Aggregator{db: db, now: now}
}

func (a *Aggregator) Summary(ctx context.Context) (*Summary, error) {
	db := a.db.WithContext(ctx)
	s := &Summary{
		RecentProjects: []RecentProject{},
		RecentMessages: []RecentMessage{},
	}

	counts := []struct {
		model any
		dst   *int64
		where string
	}{
		{&models.Project{}, &s.Counts.Projects, ""},
		{&models.Skill{}, &s.Counts.Skills, ""},
		{&models.Experience{}, &s.Counts.Experience, ""},
		{&models.Resource{}, &s.Counts.Resources, ""},
		{&models.Contact{}, &s.Counts.Messages, "read_at IS NULL"},
	}
	for _, c := range counts {
		q := db.Model(c.model)
		if c.where != "" {
			q = q.Where(c.where)
		}
		if err := q.Count(c.dst).Error; err != nil {
			return nil, fmt.Errorf("count: %w", err)
		}
	}

	if err := db.Model(&models.Project{}).
		Select("id", "title", "category", "created_at", "thumbnail").
		Order("created_at DESC").Order("id DESC").
		Limit(recentLimit).
		Scan(&s.RecentProjects).Error; err != nil {
		return nil, fmt.Errorf("recent projects: %w", err)
	}

	if err := db.Model(&models.Contact{}).
		Select("id", "name", "email", "subject", "created_at").
		Where("read_at IS NULL").
		Order("created_at DESC").Order("id DESC").
		Limit(recentLimit).
		Scan(&s.RecentMessages).Error; err != nil {
		return nil, fmt.Errorf("recent messages: %w", err)
	}

	stats, err := a.visitorStats(db)
	if err != nil {
		return nil, err
	}
	s.VisitorStats = stats

	last, err := a.lastUpdate(db)
	if err != nil {
		return nil, err
	}
	s.LastUpdate = last
	return s, nil
}

func (a *Aggregator) visitorStats(db *gorm.DB) (VisitorStats, error) {
	stats := VisitorStats{TopRegions: []CountryCount{}}
	if err := db.Model(&models.Visit{}).Count(&stats.TotalVisits).Error; err != nil {
		return stats, fmt.Errorf("count visits: %w", err)
	}
	if err := db.Model(&models.Visit{}).Distinct("ip_address").Count(&stats.UniqueVisitors).Error; err != nil {
		return stats, fmt.Errorf("count unique visitors: %w", err)
	}
	if err := db.Model(&models.Visit{}).
		Select("country_code, COUNT(*) AS total").
		Where("country_code IS NOT NULL AND country_code <> ''").
		Group("country_code").
		Order("total DESC").Order("country_code ASC").
		Limit(topCountries).
		Scan(&stats.TopRegions).Error; err != nil {
		return stats, fmt.Errorf("top regions: %w", err)
	}
	return stats, nil
}

// lastUpdate is the newest updated_at across projects, skills and
// experiences, or now when all three are empty.
func (a *Aggregator) lastUpdate(db *gorm.DB) (time.Time, error) {
	var latest time.Time
	for _, model := range []any{&models.Project{}, &models.Skill{}, &models.Experience{}} {
		var row struct{ UpdatedAt time.Time }
		err := db.Model(model).Select("updated_at").Order("updated_at DESC").Take(&row).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			continue
		}
		if err != nil {
			return time.Time{}, fmt.Errorf("last update: %w", err)
		}
		if row.UpdatedAt.After(latest) {
			latest = row.UpdatedAt
		}
	}
	if latest.IsZero() {
		return a.now().UTC(), nil
	}
	return latest.UTC(), nil
}
