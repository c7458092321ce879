package content

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/aTrapDeer/portfolio-backend/internal/apperr"
	"github.com/aTrapDeer/portfolio-backend/internal/logger"
	"github.com/aTrapDeer/portfolio-backend/internal/models"
	"github.com/aTrapDeer/portfolio-backend/internal/storage"
	"github.com/aTrapDeer/portfolio-backend/internal/store"
	"github.com/aTrapDeer/portfolio-backend/internal/testutil"
)

var (
	ptr     = testutil.Ptr[string]
	pngData = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00\x90wS\xde")
)

type fixture struct {
	svc     *Service
	db      *gorm.DB
	root    string
	changes []string
}

func newFixture(t *testing.T, files storage.Storage) *fixture {
	t.Helper()
	db := testutil.NewDB(t)
	root := t.TempDir()
	if files == nil {
		local, err := storage.NewLocal(root, "http://localhost")
		require.NoError(t, err)
		files = local
	}
	fx := &fixture{db: db, root: root}
	stores := Stores{
		Projects:    store.NewProjectStore(db),
		Skills:      store.NewSkillStore(db),
		Experiences: store.NewExperienceStore(db),
		Resources:   store.NewResourceStore(db),
		Contacts:    store.NewContactStore(db, nil),
	}
	notify := NotifierFunc(func(_ context.Context, entity string) {
		fx.changes = append(fx.changes, entity)
	})
	fx.svc = NewService(stores, files, Limits{MaxImageBytes: 2 << 20, MaxThumbnailBytes: 5 << 20}, notify, logger.Nop())
	return fx
}

func (fx *fixture) exists(path string) bool {
	_, err := os.Stat(filepath.Join(fx.root, filepath.FromSlash(path)))
	return err == nil
}

func upload(t *testing.T, field, name string, data []byte) *multipart.FileHeader {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile(field, name)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&buf, w.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })
	return form.File[field][0]
}

func count(t *testing.T, db *gorm.DB, model any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(model).Count(&n).Error)
	return n
}

func TestSlugConflictRejectsSecondWrite(t *testing.T) {
	ctx := context.Background()

	t.Run("project", func(t *testing.T) {
		fx := newFixture(t, nil)
		p, err := fx.svc.CreateProject(ctx, ProjectInput{Title: ptr("My Project")})
		require.NoError(t, err)
		assert.Equal(t, "my-project", p.Slug)

		_, err = fx.svc.CreateProject(ctx, ProjectInput{Title: ptr("my   project!")})
		require.Error(t, err)
		assert.True(t, apperr.IsCode(err, apperr.CodeSlugTaken))
		assert.Contains(t, apperr.From(err).Fields, "slug")
		assert.EqualValues(t, 1, count(t, fx.db, &models.Project{}))
	})

	t.Run("skill", func(t *testing.T) {
		fx := newFixture(t, nil)
		_, err := fx.svc.CreateSkill(ctx, SkillInput{Name: ptr("Go Lang"), Category: ptr("Languages")})
		require.NoError(t, err)
		_, err = fx.svc.CreateSkill(ctx, SkillInput{Name: ptr("go_lang"), Category: ptr("Languages")})
		assert.True(t, apperr.IsCode(err, apperr.CodeSlugTaken))
		assert.EqualValues(t, 1, count(t, fx.db, &models.Skill{}))
	})

	t.Run("resource", func(t *testing.T) {
		fx := newFixture(t, nil)
		in := ResourceInput{
			Title: ptr("Sample Pack"), Category: ptr("Audio"), Description: ptr("drums"),
			FileURL: ptr("https://cdn.example.com/pack.zip"),
		}
		_, err := fx.svc.CreateResource(ctx, in)
		require.NoError(t, err)
		in.Title = ptr("Sample-Pack")
		_, err = fx.svc.CreateResource(ctx, in)
		assert.True(t, apperr.IsCode(err, apperr.CodeSlugTaken))
		assert.EqualValues(t, 1, count(t, fx.db, &models.Resource{}))
	})
}

func TestSlugUpdateExcludesOwnRow(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t, nil)

	p, err := fx.svc.CreateProject(ctx, ProjectInput{Title: ptr("Alpha"), Slug: ptr("alpha")})
	require.NoError(t, err)
	_, err = fx.svc.CreateProject(ctx, ProjectInput{Title: ptr("Beta")})
	require.NoError(t, err)

	_, err = fx.svc.UpdateProject(ctx, p.ID, ProjectInput{Title: ptr("Alpha 2"), Slug: ptr("alpha")})
	require.NoError(t, err)

	_, err = fx.svc.UpdateProject(ctx, p.ID, ProjectInput{Title: ptr("Alpha 2"), Slug: ptr("beta")})
	assert.True(t, apperr.IsCode(err, apperr.CodeSlugTaken))
}

func TestSuppliedSlugMustBeCanonical(t *testing.T) {
	fx := newFixture(t, nil)
	_, err := fx.svc.CreateProject(context.Background(), ProjectInput{Title: ptr("Site"), Slug: ptr("Not A Slug")})
	require.Error(t, err)
	assert.True(t, apperr.IsCode(err, apperr.CodeValidation))
	assert.Contains(t, apperr.From(err).Fields, "slug")
}

func TestUpdateWithoutUploadKeepsFile(t *testing.T) {
	ctx := context.Background()

	t.Run("project thumbnail", func(t *testing.T) {
		fx := newFixture(t, nil)
		p, err := fx.svc.CreateProject(ctx, ProjectInput{
			Title: ptr("Site"), Thumbnail: upload(t, "thumbnail", "a.png", pngData),
		})
		require.NoError(t, err)
		require.NotNil(t, p.Thumbnail)
		assert.True(t, strings.HasPrefix(*p.Thumbnail, "projects/"))
		assert.True(t, strings.HasSuffix(*p.Thumbnail, ".png"))
		assert.True(t, fx.exists(*p.Thumbnail))

		updated, err := fx.svc.UpdateProject(ctx, p.ID, ProjectInput{Title: ptr("Site v2")})
		require.NoError(t, err)
		require.NotNil(t, updated.Thumbnail)
		assert.Equal(t, *p.Thumbnail, *updated.Thumbnail)
		assert.True(t, fx.exists(*p.Thumbnail))
	})

	t.Run("experience logo", func(t *testing.T) {
		fx := newFixture(t, nil)
		e, err := fx.svc.CreateExperience(ctx, ExperienceInput{
			Company: ptr("ACME"), Role: ptr("Dev"), StartDate: ptr("2020-01-01"),
			CompanyLogo: upload(t, "company_logo", "logo.png", pngData),
		})
		require.NoError(t, err)
		require.NotNil(t, e.CompanyLogo)
		assert.True(t, strings.HasPrefix(*e.CompanyLogo, "experiences/"))

		updated, err := fx.svc.UpdateExperience(ctx, e.ID, ExperienceInput{
			Company: ptr("ACME Corp"), Role: ptr("Dev"), StartDate: ptr("2020-01-01"),
		})
		require.NoError(t, err)
		require.NotNil(t, updated.CompanyLogo)
		assert.Equal(t, *e.CompanyLogo, *updated.CompanyLogo)
	})

	t.Run("resource thumbnail", func(t *testing.T) {
		fx := newFixture(t, nil)
		r, err := fx.svc.CreateResource(ctx, ResourceInput{
			Title: ptr("Kit"), Category: ptr("Audio"), Description: ptr("d"),
			FileURL: ptr("https://e.com/kit.zip"), Thumbnail: upload(t, "thumbnail", "k.png", pngData),
		})
		require.NoError(t, err)
		require.NotNil(t, r.Thumbnail)
		assert.True(t, strings.HasPrefix(*r.Thumbnail, "resources/thumbnails/"))

		updated, err := fx.svc.UpdateResource(ctx, r.ID, ResourceInput{
			Title: ptr("Kit 2"), Category: ptr("Audio"), Description: ptr("d"),
		})
		require.NoError(t, err)
		require.NotNil(t, updated.Thumbnail)
		assert.Equal(t, *r.Thumbnail, *updated.Thumbnail)
		require.NotNil(t, updated.FileURL)
		assert.Equal(t, "https://e.com/kit.zip", *updated.FileURL)
	})
}

func TestUpdateWithUploadReplacesFile(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t, nil)

	p, err := fx.svc.CreateProject(ctx, ProjectInput{Title: ptr("Site"), Thumbnail: upload(t, "thumbnail", "a.png", pngData)})
	require.NoError(t, err)
	old := *p.Thumbnail

	updated, err := fx.svc.UpdateProject(ctx, p.ID, ProjectInput{Title: ptr("Site"), Thumbnail: upload(t, "thumbnail", "b.png", pngData)})
	require.NoError(t, err)
	require.NotNil(t, updated.Thumbnail)
	assert.NotEqual(t, old, *updated.Thumbnail)
	assert.True(t, fx.exists(*updated.Thumbnail))
	assert.False(t, fx.exists(old))
}

func TestRejectsNonImageUpload(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t, nil)

	_, err := fx.svc.CreateProject(ctx, ProjectInput{
		Title: ptr("Site"), Thumbnail: upload(t, "thumbnail", "notes.png", []byte("just some text")),
	})
	require.Error(t, err)
	assert.True(t, apperr.IsCode(err, apperr.CodeValidation))
	assert.Equal(t, "The thumbnail field must be an image.", apperr.From(err).Fields["thumbnail"])
	assert.EqualValues(t, 0, count(t, fx.db, &models.Project{}))

	entries, err := os.ReadDir(fx.root)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRejectsOversizedUpload(t *testing.T) {
	fx := newFixture(t, nil)
	fx.svc.limits.MaxImageBytes = 8

	_, err := fx.svc.CreateProject(context.Background(), ProjectInput{
		Title: ptr("Site"), Thumbnail: upload(t, "thumbnail", "a.png", pngData),
	})
	require.Error(t, err)
	assert.Contains(t, apperr.From(err).Fields["thumbnail"], "must not be greater than")
}

type failingStorage struct{ storage.Storage }

func (failingStorage) Save(context.Context, string, io.Reader, string) error {
	return errors.New("disk full")
}

func TestUploadFailureAbortsWrite(t *testing.T) {
	local, err := storage.NewLocal(t.TempDir(), "")
	require.NoError(t, err)
	fx := newFixture(t, failingStorage{local})

	_, err = fx.svc.CreateProject(context.Background(), ProjectInput{
		Title: ptr("Site"), Thumbnail: upload(t, "thumbnail", "a.png", pngData),
	})
	require.Error(t, err)
	assert.True(t, apperr.IsCode(err, apperr.CodeStorage))
	assert.EqualValues(t, 0, count(t, fx.db, &models.Project{}))
	assert.Empty(t, fx.changes)
}

func TestResourceFreeAndPaidRules(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t, nil)
	base := func() ResourceInput {
		return ResourceInput{Title: ptr("Kit"), Category: ptr("Audio"), Description: ptr("d")}
	}

	free := base()
	free.IsFree = testutil.Ptr(true)
	_, err := fx.svc.CreateResource(ctx, free)
	require.Error(t, err)
	assert.Contains(t, apperr.From(err).Fields, "file_url")

	defaulted := base()
	_, err = fx.svc.CreateResource(ctx, defaulted)
	require.Error(t, err)
	assert.Contains(t, apperr.From(err).Fields, "file_url")

	paid := base()
	paid.IsFree = testutil.Ptr(false)
	_, err = fx.svc.CreateResource(ctx, paid)
	require.Error(t, err)
	fields := apperr.From(err).Fields
	assert.Contains(t, fields, "price")
	assert.Contains(t, fields, "purchase_link")
	assert.NotContains(t, fields, "file_url")

	paid.Price = ptr("abc")
	paid.PurchaseLink = ptr("https://shop.example.com/kit")
	_, err = fx.svc.CreateResource(ctx, paid)
	require.Error(t, err)
	assert.Equal(t, "The price field must be a number.", apperr.From(err).Fields["price"])
	assert.EqualValues(t, 0, count(t, fx.db, &models.Resource{}))

	ok := base()
	ok.IsFree = testutil.Ptr(true)
	ok.FileURL = ptr("https://cdn.example.com/kit.zip")
	r, err := fx.svc.CreateResource(ctx, ok)
	require.NoError(t, err)
	assert.Equal(t, 0, r.DownloadCount)
	assert.True(t, r.IsFree)

	// Switching to paid on update still needs price and purchase link.
	_, err = fx.svc.UpdateResource(ctx, r.ID, ResourceInput{
		Title: ptr("Kit"), Category: ptr("Audio"), Description: ptr("d"), IsFree: testutil.Ptr(false),
	})
	require.Error(t, err)
	assert.Contains(t, apperr.From(err).Fields, "price")
}

func TestExperienceDates(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t, nil)

	_, err := fx.svc.CreateExperience(ctx, ExperienceInput{
		Company: ptr("ACME"), Role: ptr("Dev"), StartDate: ptr("2022-05-01"), EndDate: ptr("2021-01-01"),
	})
	require.Error(t, err)
	assert.Equal(t, "The end date field must be a date after or equal to start date.", apperr.From(err).Fields["end_date"])

	_, err = fx.svc.CreateExperience(ctx, ExperienceInput{
		Company: ptr("ACME"), Role: ptr("Dev"), StartDate: ptr("01/05/2022"),
	})
	require.Error(t, err)
	assert.Contains(t, apperr.From(err).Fields, "start_date")

	same, err := fx.svc.CreateExperience(ctx, ExperienceInput{
		Company: ptr("ACME"), Role: ptr("Dev"), StartDate: ptr("2022-05-01"), EndDate: ptr("2022-05-01"),
	})
	require.NoError(t, err)
	assert.NotNil(t, same.EndDate)

	current, err := fx.svc.CreateExperience(ctx, ExperienceInput{
		Company: ptr("Now Inc"), Role: ptr("Lead"), StartDate: ptr("2023-01-01"),
		EndDate: ptr("2024-01-01"), IsCurrent: testutil.Ptr(true),
	})
	require.NoError(t, err)
	assert.True(t, current.IsCurrent)
	assert.Nil(t, current.EndDate)

	// the end date is discarded for a current role, so its order is not checked
	reversed, err := fx.svc.CreateExperience(ctx, ExperienceInput{
		Company: ptr("Later Ltd"), Role: ptr("Lead"), StartDate: ptr("2023-01-01"),
		EndDate: ptr("2020-01-01"), IsCurrent: testutil.Ptr(true),
	})
	require.NoError(t, err)
	assert.Nil(t, reversed.EndDate)
}

func TestValidationCollectsAllFields(t *testing.T) {
	fx := newFixture(t, nil)
	_, err := fx.svc.CreateProject(context.Background(), ProjectInput{
		Title: ptr("  "), Year: ptr("20245"), LiveURL: ptr("not a url"),
	})
	require.Error(t, err)
	fields := apperr.From(err).Fields
	assert.Equal(t, "The title field is required.", fields["title"])
	assert.Contains(t, fields, "year")
	assert.Contains(t, fields, "live_url")
}

func TestDeleteRemovesStoredFile(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t, nil)

	r, err := fx.svc.CreateResource(ctx, ResourceInput{
		Title: ptr("Kit"), Category: ptr("Audio"), Description: ptr("d"),
		FileURL: ptr("https://e.com/kit.zip"), Thumbnail: upload(t, "thumbnail", "k.png", pngData),
	})
	require.NoError(t, err)
	require.True(t, fx.exists(*r.Thumbnail))

	require.NoError(t, fx.svc.DeleteResource(ctx, r.ID))
	assert.False(t, fx.exists(*r.Thumbnail))
	assert.EqualValues(t, 0, count(t, fx.db, &models.Resource{}))

	assert.True(t, apperr.IsNotFound(fx.svc.DeleteResource(ctx, r.ID)))
}

func TestUpdateMissingIsNotFound(t *testing.T) {
	fx := newFixture(t, nil)
	_, err := fx.svc.UpdateProject(context.Background(), 7, ProjectInput{Title: ptr("x")})
	assert.True(t, apperr.IsNotFound(err))
}

func TestChangesAreNotified(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t, nil)

	sk, err := fx.svc.CreateSkill(ctx, SkillInput{Name: ptr("Go"), Category: ptr("Languages"), Proficiency: testutil.Ptr(90)})
	require.NoError(t, err)
	_, err = fx.svc.UpdateSkill(ctx, sk.ID, SkillInput{Name: ptr("Go"), Category: ptr("Backend")})
	require.NoError(t, err)
	require.NoError(t, fx.svc.DeleteSkill(ctx, sk.ID))

	_, err = fx.svc.CreateSkill(ctx, SkillInput{Name: ptr("Rust"), Category: ptr("Languages"), Proficiency: testutil.Ptr(101)})
	require.Error(t, err)

	assert.Equal(t, []string{EntitySkills, EntitySkills, EntitySkills}, fx.changes)
}

func TestContactSubmission(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t, nil)

	_, err := fx.svc.SubmitContact(ctx, ContactInput{Name: ptr("Ann"), Email: ptr("nope"), Message: ptr("hi")})
	require.Error(t, err)
	assert.Contains(t, apperr.From(err).Fields, "email")

	c, err := fx.svc.SubmitContact(ctx, ContactInput{Name: ptr("Ann"), Email: ptr("ann@example.com"), Message: ptr("hi")})
	require.NoError(t, err)
	assert.Nil(t, c.ReadAt)

	read, err := fx.svc.MarkContactRead(ctx, c.ID)
	require.NoError(t, err)
	assert.NotNil(t, read.ReadAt)
}
