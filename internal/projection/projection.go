// Package projection shapes stored records into the public API
// representation: stored paths become absolute URLs, optional fields get
// their display fallbacks and internal-only fields are left out.
package projection

import (
	"bytes"
	"fmt"
	"strconv"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/aTrapDeer/portfolio-backend/internal/models"
	"github.com/aTrapDeer/portfolio-backend/internal/storage"
)

// DefaultCategory is shown for projects without a category.
const DefaultCategory = "Development"

type Builder struct {
	assetBase string
	md        goldmark.Markdown
}

// New returns a Builder resolving stored paths against assetBase, the public
// origin of the API (e.g. "https://api.example.com").
func New(assetBase string) *Builder {
	return &Builder{
		assetBase: assetBase,
		md:        goldmark.New(goldmark.WithExtensions(extension.GFM)),
	}
}

// ProjectSummary is a project in listings. It never carries the body.
type ProjectSummary struct {
	ID          uint     `json:"id"`
	Title       string   `json:"title"`
	Slug        string   `json:"slug"`
	Description *string  `json:"description"`
	Thumbnail   *string  `json:"thumbnail"`
	Year        string   `json:"year"`
	Category    string   `json:"category"`
	Client      *string  `json:"client"`
	Role        *string  `json:"role"`
	VideoURL    *string  `json:"video_url"`
	Tags        []string `json:"tags"`
	LiveURL     *string  `json:"live_url"`
	IsFeatured  bool     `json:"is_featured"`
}

type ProjectDetail struct {
	ProjectSummary
	Content     *string `json:"content"`
	ContentHTML string  `json:"content_html"`
	GithubURL   *string `json:"github_url"`
}

func (b *Builder) ProjectSummary(p models.Project) ProjectSummary {
	year := strconv.Itoa(p.CreatedAt.Year())
	if p.Year != nil && *p.Year != "" {
		year = *p.Year
	}
	category := DefaultCategory
	if p.Category != nil && *p.Category != "" {
		category = *p.Category
	}
	tags := []string(p.Technologies)
	if tags == nil {
		tags = []string{}
	}
	return ProjectSummary{
		ID:          p.ID,
		Title:       p.Title,
		Slug:        p.Slug,
		Description: p.Description,
		Thumbnail:   b.url(p.Thumbnail),
		Year:        year,
		Category:    category,
		Client:      p.Client,
		Role:        p.Role,
		VideoURL:    p.VideoURL,
		Tags:        tags,
		LiveURL:     p.LiveURL,
		IsFeatured:  p.IsFeatured,
	}
}

func (b *Builder) Projects(ps []models.Project) []ProjectSummary {
	out := make([]ProjectSummary, 0, len(ps))
	for _, p := range ps {
		out = append(out, b.ProjectSummary(p))
	}
	return out
}

// ProjectDetail adds the markdown body, rendered to HTML alongside the raw
// text.
func (b *Builder) ProjectDetail(p models.Project) (ProjectDetail, error) {
	d := ProjectDetail{
		ProjectSummary: b.ProjectSummary(p),
		Content:        p.Content,
		GithubURL:      p.GithubURL,
	}
	if p.Content != nil && *p.Content != "" {
		var buf bytes.Buffer
		if err := b.md.Convert([]byte(*p.Content), &buf); err != nil {
			return d, fmt.Errorf("render project content: %w", err)
		}
		d.ContentHTML = buf.String()
	}
	return d, nil
}

type ResourceView struct {
	ID            uint      `json:"id"`
	Title         string    `json:"title"`
	Slug          string    `json:"slug"`
	Category      string    `json:"category"`
	Description   *string   `json:"description"`
	IsFree        bool      `json:"is_free"`
	Price         *string   `json:"price"`
	PurchaseLink  *string   `json:"purchase_link"`
	FileURL       *string   `json:"file_url"`
	Thumbnail     *string   `json:"thumbnail"`
	DownloadCount int       `json:"download_count"`
	IsFeatured    bool      `json:"is_featured"`
	CreatedAt     time.Time `json:"created_at"`
}

// Resource keeps file_url as stored; it points at external hosting.
func (b *Builder) Resource(r models.Resource) ResourceView {
	return ResourceView{
		ID:            r.ID,
		Title:         r.Title,
		Slug:          r.Slug,
		Category:      r.Category,
		Description:   r.Description,
		IsFree:        r.IsFree,
		Price:         r.Price,
		PurchaseLink:  r.PurchaseLink,
		FileURL:       r.FileURL,
		Thumbnail:     b.url(r.Thumbnail),
		DownloadCount: r.DownloadCount,
		IsFeatured:    r.IsFeatured,
		CreatedAt:     r.CreatedAt,
	}
}

func (b *Builder) Resources(rs []models.Resource) []ResourceView {
	out := make([]ResourceView, 0, len(rs))
	for _, r := range rs {
		out = append(out, b.Resource(r))
	}
	return out
}

type SkillView struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Category    string `json:"category"`
	Proficiency int    `json:"proficiency"`
}

func (b *Builder) Skills(ss []models.Skill) []SkillView {
	out := make([]SkillView, 0, len(ss))
	for _, s := range ss {
		out = append(out, SkillView{
			ID:          s.ID,
			Name:        s.Name,
			Slug:        s.Slug,
			Category:    s.Category,
			Proficiency: s.Proficiency,
		})
	}
	return out
}

type ExperienceView struct {
	ID          uint    `json:"id"`
	Company     string  `json:"company"`
	Role        string  `json:"role"`
	Location    *string `json:"location"`
	Description *string `json:"description"`
	StartDate   string  `json:"start_date"`
	EndDate     *string `json:"end_date"`
	IsCurrent   bool    `json:"is_current"`
	CompanyLogo *string `json:"company_logo"`
}

func (b *Builder) Experiences(es []models.Experience) []ExperienceView {
	out := make([]ExperienceView, 0, len(es))
	for _, e := range es {
		v := ExperienceView{
			ID:          e.ID,
			Company:     e.Company,
			Role:        e.Role,
			Location:    e.Location,
			Description: e.Description,
			StartDate:   time.Time(e.StartDate).Format("2006-01-02"),
			IsCurrent:   e.IsCurrent,
			CompanyLogo: b.url(e.CompanyLogo),
		}
		if e.EndDate != nil && !e.IsCurrent {
			end := time.Time(*e.EndDate).Format("2006-01-02")
			v.EndDate = &end
		}
		out = append(out, v)
	}
	return out
}

// URL resolves a stored path; nil and empty paths stay nil.
func (b *Builder) URL(path *string) *string {
	return b.url(path)
}

func (b *Builder) url(path *string) *string {
	if path == nil || *path == "" {
		return nil
	}
	u := storage.PublicURL(b.assetBase, *path)
	return &u
}
