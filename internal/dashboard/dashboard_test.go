package dashboard

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/aTrapDeer/portfolio-backend/internal/models"
	"github.com/aTrapDeer/portfolio-backend/internal/testutil"
)

func setUpdatedAt(t *testing.T, db *gorm.DB, model any, id uint, at time.Time) {
	t.Helper()
	require.NoError(t, db.Model(model).Where("id = ?", id).UpdateColumn("updated_at", at).Error)
}

func TestLastUpdateFallsBackToNow(t *testing.T) {
	db := testutil.NewDB(t)
	clock := &testutil.Clock{Now: time.Date(2025, 3, 4, 5, 6, 7, 0, time.UTC)}

	s, err := New(db, clock.Func()).Summary(context.Background())
	require.NoError(t, err)
	assert.True(t, clock.Now.Equal(s.LastUpdate))
	assert.Empty(t, s.RecentProjects)
	assert.Empty(t, s.RecentMessages)
	assert.Empty(t, s.VisitorStats.TopRegions)
	assert.Zero(t, s.Counts)
}

func TestLastUpdateIsNewestAcrossTables(t *testing.T) {
	db := testutil.NewDB(t)
	clock := &testutil.Clock{Now: time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)}

	p := &models.Project{Title: "P", Slug: "p", Technologies: datatypes.JSONSlice[string]{}}
	sk := &models.Skill{Name: "Go", Slug: "go", Category: "Languages"}
	e := &models.Experience{Company: "ACME", Role: "Dev", StartDate: datatypes.Date(time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC))}
	require.NoError(t, db.Create(p).Error)
	require.NoError(t, db.Create(sk).Error)
	require.NoError(t, db.Create(e).Error)

	newest := time.Date(2024, 8, 9, 10, 11, 12, 0, time.UTC)
	setUpdatedAt(t, db, &models.Project{}, p.ID, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	setUpdatedAt(t, db, &models.Skill{}, sk.ID, newest)
	setUpdatedAt(t, db, &models.Experience{}, e.ID, time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC))

	// Resources do not count towards the last update.
	r := &models.Resource{Title: "R", Slug: "r", Category: "x", IsFree: true}
	require.NoError(t, db.Create(r).Error)
	setUpdatedAt(t, db, &models.Resource{}, r.ID, time.Date(2029, 1, 1, 0, 0, 0, 0, time.UTC))

	s, err := New(db, clock.Func()).Summary(context.Background())
	require.NoError(t, err)
	assert.True(t, newest.Equal(s.LastUpdate), "got %v", s.LastUpdate)
}

func TestSummaryCountsAndRecent(t *testing.T) {
	db := testutil.NewDB(t)
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 7; i++ {
		p := &models.Project{
			Title: fmt.Sprintf("P%d", i), Slug: fmt.Sprintf("p%d", i),
			Thumbnail: testutil.Ptr(fmt.Sprintf("projects/%d.png", i)), Technologies: datatypes.JSONSlice[string]{},
		}
		require.NoError(t, db.Create(p).Error)
		require.NoError(t, db.Model(p).UpdateColumn("created_at", base.Add(time.Duration(i)*time.Hour)).Error)
	}
	require.NoError(t, db.Create(&models.Skill{Name: "Go", Slug: "go", Category: "Languages"}).Error)

	readAt := base
	for i := 0; i < 3; i++ {
		c := &models.Contact{Name: fmt.Sprintf("C%d", i), Email: "c@example.com", Message: "hi"}
		if i == 0 {
			c.ReadAt = &readAt
		}
		require.NoError(t, db.Create(c).Error)
	}

	s, err := New(db, nil).Summary(context.Background())
	require.NoError(t, err)

	assert.Equal(t, Counts{Projects: 7, Skills: 1, Messages: 2}, s.Counts)
	require.Len(t, s.RecentProjects, 5)
	assert.Equal(t, "P6", s.RecentProjects[0].Title)
	assert.Equal(t, "P2", s.RecentProjects[4].Title)
	require.NotNil(t, s.RecentProjects[0].Thumbnail)
	assert.Equal(t, "projects/6.png", *s.RecentProjects[0].Thumbnail)

	require.Len(t, s.RecentMessages, 2)
	for _, m := range s.RecentMessages {
		assert.NotEqual(t, "C0", m.Name)
	}
}

func TestVisitorStats(t *testing.T) {
	db := testutil.NewDB(t)
	visits := []struct {
		ip, country string
	}{
		{"1.1.1.1", "US"}, {"1.1.1.1", "US"}, {"2.2.2.2", "US"},
		{"3.3.3.3", "DE"}, {"3.3.3.3", "DE"},
		{"4.4.4.4", "FR"},
		{"5.5.5.5", "JP"},
		{"6.6.6.6", "BR"},
		{"7.7.7.7", ""},
	}
	for _, v := range visits {
		visit := &models.Visit{IPAddress: v.ip, URL: "http://x/", UserAgent: "ua"}
		if v.country != "" {
			visit.CountryCode = testutil.Ptr(v.country)
		}
		require.NoError(t, db.Create(visit).Error)
	}
	require.NoError(t, db.Create(&models.Visit{IPAddress: "8.8.8.8", URL: "http://x/", CountryCode: testutil.Ptr("")}).Error)

	s, err := New(db, nil).Summary(context.Background())
	require.NoError(t, err)

	assert.EqualValues(t, 10, s.VisitorStats.TotalVisits)
	assert.EqualValues(t, 8, s.VisitorStats.UniqueVisitors)
	assert.Equal(t, []CountryCount{
		{CountryCode: "US", Total: 3},
		{CountryCode: "DE", Total: 2},
		{CountryCode: "BR", Total: 1},
		{CountryCode: "FR", Total: 1},
	}, s.VisitorStats.TopRegions)
}
