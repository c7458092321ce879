package content

import (
	"mime/multipart"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/aTrapDeer/portfolio-backend/internal/store"
	"github.com/aTrapDeer/portfolio-backend/internal/validation"
)

const dateLayout = "2006-01-02"

// Inputs are bound from JSON bodies or multipart forms. A nil member was not
// submitted and leaves the stored value unchanged on update. Unknown request
// fields are dropped by the binder.

type ProjectInput struct {
	Title        *string               `json:"title" form:"title" validate:"required,notblank,max=255"`
	Slug         *string               `json:"slug" form:"slug" validate:"omitempty,max=255,slug"`
	Category     *string               `json:"category" form:"category" validate:"omitempty,max=255"`
	Client       *string               `json:"client" form:"client" validate:"omitempty,max=255"`
	Role         *string               `json:"role" form:"role" validate:"omitempty,max=255"`
	Year         *string               `json:"year" form:"year" validate:"omitempty,max=4"`
	Description  *string               `json:"description" form:"description"`
	Content      *string               `json:"content" form:"content"`
	LiveURL      *string               `json:"live_url" form:"live_url" validate:"omitempty,url"`
	GithubURL    *string               `json:"github_url" form:"github_url" validate:"omitempty,url"`
	VideoURL     *string               `json:"video_url" form:"video_url" validate:"omitempty,url"`
	IsFeatured   *bool                 `json:"is_featured" form:"is_featured"`
	SortOrder    *int                  `json:"sort_order" form:"sort_order"`
	PublishedAt  *string               `json:"published_at" form:"published_at" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	Technologies *[]string             `json:"technologies" form:"technologies" validate:"omitempty,dive,max=255"`
	Thumbnail    *multipart.FileHeader `json:"-" form:"thumbnail" validate:"-"`
}

func (in ProjectInput) fields() store.ProjectFields {
	f := store.ProjectFields{
		Title:       trimmed(in.Title),
		Category:    in.Category,
		Client:      in.Client,
		Role:        in.Role,
		Year:        in.Year,
		Description: in.Description,
		Content:     in.Content,
		LiveURL:     in.LiveURL,
		GithubURL:   in.GithubURL,
		VideoURL:    in.VideoURL,
		IsFeatured:  in.IsFeatured,
		SortOrder:   in.SortOrder,
	}
	if in.Technologies != nil {
		techs := make([]string, 0, len(*in.Technologies))
		for _, t := range *in.Technologies {
			if t = strings.TrimSpace(t); t != "" {
				techs = append(techs, t)
			}
		}
		f.Technologies = &techs
	}
	if in.PublishedAt != nil {
		var t time.Time
		if *in.PublishedAt != "" {
			t, _ = time.Parse(time.RFC3339, *in.PublishedAt)
		}
		f.PublishedAt = &t
	}
	return f
}

type SkillInput struct {
	Name        *string `json:"name" form:"name" validate:"required,notblank,max=255"`
	Slug        *string `json:"slug" form:"slug" validate:"omitempty,max=255,slug"`
	Category    *string `json:"category" form:"category" validate:"required,notblank,max=255"`
	Proficiency *int    `json:"proficiency" form:"proficiency" validate:"omitempty,min=0,max=100"`
	SortOrder   *int    `json:"sort_order" form:"sort_order"`
}

func (in SkillInput) fields() store.SkillFields {
	return store.SkillFields{
		Name:        trimmed(in.Name),
		Category:    trimmed(in.Category),
		Proficiency: in.Proficiency,
		SortOrder:   in.SortOrder,
	}
}

type ExperienceInput struct {
	Company     *string               `json:"company" form:"company" validate:"required,notblank,max=255"`
	Role        *string               `json:"role" form:"role" validate:"required,notblank,max=255"`
	Location    *string               `json:"location" form:"location" validate:"omitempty,max=255"`
	Description *string               `json:"description" form:"description"`
	StartDate   *string               `json:"start_date" form:"start_date" validate:"required,notblank,datetime=2006-01-02"`
	EndDate     *string               `json:"end_date" form:"end_date" validate:"omitempty,datetime=2006-01-02"`
	IsCurrent   *bool                 `json:"is_current" form:"is_current"`
	SortOrder   *int                  `json:"sort_order" form:"sort_order"`
	CompanyLogo *multipart.FileHeader `json:"-" form:"company_logo" validate:"-"`
}

func (in ExperienceInput) fields() store.ExperienceFields {
	f := store.ExperienceFields{
		Company:     trimmed(in.Company),
		Role:        trimmed(in.Role),
		Location:    in.Location,
		Description: in.Description,
		IsCurrent:   in.IsCurrent,
		SortOrder:   in.SortOrder,
	}
	if in.StartDate != nil {
		if t, err := time.Parse(dateLayout, *in.StartDate); err == nil {
			f.StartDate = &t
		}
	}
	if in.EndDate != nil {
		var t time.Time
		if *in.EndDate != "" {
			t, _ = time.Parse(dateLayout, *in.EndDate)
		}
		f.EndDate = &t
	}
	return f
}

type ResourceInput struct {
	Title        *string               `json:"title" form:"title" validate:"required,notblank,max=255"`
	Slug         *string               `json:"slug" form:"slug" validate:"omitempty,max=255,slug"`
	Category     *string               `json:"category" form:"category" validate:"required,notblank,max=255"`
	Description  *string               `json:"description" form:"description" validate:"required,notblank"`
	IsFree       *bool                 `json:"is_free" form:"is_free"`
	Price        *string               `json:"price" form:"price" validate:"omitempty,max=255,numeric"`
	PurchaseLink *string               `json:"purchase_link" form:"purchase_link" validate:"omitempty,url"`
	FileURL      *string               `json:"file_url" form:"file_url" validate:"omitempty,url"`
	IsFeatured   *bool                 `json:"is_featured" form:"is_featured"`
	Thumbnail    *multipart.FileHeader `json:"-" form:"thumbnail" validate:"-"`
}

func (in ResourceInput) fields() store.ResourceFields {
	return store.ResourceFields{
		Title:        trimmed(in.Title),
		Category:     trimmed(in.Category),
		Description:  in.Description,
		IsFree:       in.IsFree,
		Price:        trimmed(in.Price),
		PurchaseLink: in.PurchaseLink,
		FileURL:      in.FileURL,
		IsFeatured:   in.IsFeatured,
	}
}

// free reports the effective is_free flag; resources are free unless told
// otherwise.
func (in ResourceInput) free() bool {
	return in.IsFree == nil || *in.IsFree
}

type ContactInput struct {
	Name    *string `json:"name" form:"name" validate:"required,notblank,max=255"`
	Email   *string `json:"email" form:"email" validate:"required,notblank,email,max=255"`
	Subject *string `json:"subject" form:"subject" validate:"omitempty,max=255"`
	Message *string `json:"message" form:"message" validate:"required,notblank,max=5000"`
}

func (in ContactInput) fields() store.ContactFields {
	return store.ContactFields{
		Name:    trimmed(in.Name),
		Email:   trimmed(in.Email),
		Subject: trimmed(in.Subject),
		Message: in.Message,
	}
}

func registerRules(v *validation.Validator) {
	v.RegisterStructRules(experienceRules, ExperienceInput{})
	v.RegisterStructRules(resourceRules, ResourceInput{})
}

// experienceRules: end_date must be on or after start_date.
func experienceRules(sl validator.StructLevel) {
	in := sl.Current().Interface().(ExperienceInput)
	// A current role has its end date cleared, so it is not checked.
	if in.IsCurrent != nil && *in.IsCurrent {
		return
	}
	if in.StartDate == nil || in.EndDate == nil || *in.EndDate == "" {
		return
	}
	start, err1 := time.Parse(dateLayout, *in.StartDate)
	end, err2 := time.Parse(dateLayout, *in.EndDate)
	if err1 != nil || err2 != nil {
		return
	}
	if end.Before(start) {
		sl.ReportError(in.EndDate, "end_date", "EndDate", "after_or_equal", "start_date")
	}
}

// resourceRules: free resources need file_url, paid ones need price and
// purchase_link.
func resourceRules(sl validator.StructLevel) {
	in := sl.Current().Interface().(ResourceInput)
	if in.free() {
		if blank(in.FileURL) {
			sl.ReportError(in.FileURL, "file_url", "FileURL", "required_if_free", "")
		}
		return
	}
	if blank(in.Price) {
		sl.ReportError(in.Price, "price", "Price", "required_if_paid", "")
	}
	if blank(in.PurchaseLink) {
		sl.ReportError(in.PurchaseLink, "purchase_link", "PurchaseLink", "required_if_paid", "")
	}
}

func blank(s *string) bool {
	return s == nil || strings.TrimSpace(*s) == ""
}
