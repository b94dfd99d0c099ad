package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/scholarhub-api/internal/models"
)

type mockScholarshipRepo struct {
	items      map[string]*models.Scholarship
	lastFilter models.ScholarshipFilter
	lastUpdate models.ScholarshipUpdate
}

func (m *mockScholarshipRepo) List(ctx context.Context, filter models.ScholarshipFilter) ([]models.Scholarship, int, error) {
	m.lastFilter = filter
	var out []models.Scholarship
	for _, s := range m.items {
		if filter.PosterEmail != "" && s.PostedUserEmail != filter.PosterEmail {
			continue
		}
		out = append(out, *s)
	}
	return out, len(out), nil
}

func (m *mockScholarshipRepo) FindByID(ctx context.Context, id string) (*models.Scholarship, error) {
	if s, ok := m.items[id]; ok {
		copy := *s
		return &copy, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockScholarshipRepo) Create(ctx context.Context, s *models.Scholarship) error {
	s.ID = scholarshipFullID
	copy := *s
	m.items[s.ID] = &copy
	return nil
}

func (m *mockScholarshipRepo) Update(ctx context.Context, id string, update models.ScholarshipUpdate) (*models.Scholarship, error) {
	m.lastUpdate = update
	s, ok := m.items[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	if name, ok := update.Columns["scholarship_name"].(string); ok {
		s.ScholarshipName = name
	}
	copy := *s
	return &copy, nil
}

func (m *mockScholarshipRepo) Delete(ctx context.Context, id string) error {
	if _, ok := m.items[id]; !ok {
		return sql.ErrNoRows
	}
	delete(m.items, id)
	return nil
}

func TestScholarshipServiceCreatePosterMatch(t *testing.T) {
	repo := &mockScholarshipRepo{items: map[string]*models.Scholarship{}}
	svc := NewScholarshipService(repo, nil, nil)
	caller := models.Identity{Email: "mod@example.com"}
	req := models.CreateScholarshipRequest{
		ScholarshipName:     "Global Merit",
		UniversityName:      "Uni",
		UniversityWorldRank: 42,
		ApplicationFees:     25.5,
	}

	created, err := svc.Create(context.Background(), caller, req)
	require.NoError(t, err)
	assert.Equal(t, "mod@example.com", created.PostedUserEmail)
	assert.Equal(t, 42, created.UniversityWorldRank)
	assert.Equal(t, 25.5, created.ApplicationFees)

	req.PostedUserEmail = "other@example.com"
	_, err = svc.Create(context.Background(), caller, req)
	assert.Equal(t, 403, appErrorStatus(t, err))

	req.PostedUserEmail = "MOD@example.com"
	_, err = svc.Create(context.Background(), caller, req)
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), caller, models.CreateScholarshipRequest{UniversityName: "Uni"})
	assert.Equal(t, 400, appErrorStatus(t, err))
}

func TestScholarshipServiceGet(t *testing.T) {
	repo := &mockScholarshipRepo{items: map[string]*models.Scholarship{
		scholarshipFullID: {ID: scholarshipFullID, ScholarshipName: "Global Merit"},
	}}
	svc := NewScholarshipService(repo, nil, nil)

	item, err := svc.Get(context.Background(), scholarshipFullID)
	require.NoError(t, err)
	assert.Equal(t, "Global Merit", item.ScholarshipName)

	_, err = svc.Get(context.Background(), "123")
	assert.Equal(t, 400, appErrorStatus(t, err))
	assert.Equal(t, msgInvalidScholarshipID, appErrorMessage(t, err))

	_, err = svc.Get(context.Background(), applicationOneID)
	assert.Equal(t, 404, appErrorStatus(t, err))
	assert.Equal(t, msgScholarshipNotFound, appErrorMessage(t, err))
}

func TestScholarshipServiceUpdateOnlyDescriptiveColumns(t *testing.T) {
	repo := &mockScholarshipRepo{items: map[string]*models.Scholarship{
		scholarshipFullID: {ID: scholarshipFullID, ScholarshipName: "Old"},
	}}
	svc := NewScholarshipService(repo, nil, nil)

	name := "New"
	fee := models.FlexFloat(10)
	updated, err := svc.Update(context.Background(), scholarshipFullID, models.UpdateScholarshipRequest{ScholarshipName: &name, TuitionFees: &fee})
	require.NoError(t, err)
	assert.Equal(t, "New", updated.ScholarshipName)
	assert.Equal(t, map[string]interface{}{"scholarship_name": "New", "tuition_fees": 10.0}, repo.lastUpdate.Columns)

	_, err = svc.Update(context.Background(), applicationOneID, models.UpdateScholarshipRequest{ScholarshipName: &name})
	assert.Equal(t, 404, appErrorStatus(t, err))
}

func TestScholarshipServiceSearchAndPosted(t *testing.T) {
	repo := &mockScholarshipRepo{items: map[string]*models.Scholarship{
		scholarshipFullID: {ID: scholarshipFullID, PostedUserEmail: "mod@example.com"},
	}}
	svc := NewScholarshipService(repo, nil, nil)

	items, pagination, err := svc.Search(context.Background(), models.ScholarshipFilter{Search: "  merit ", Page: 2, PageSize: 5})
	require.NoError(t, err)
	assert.Len(t, items, 1)
	assert.Equal(t, "merit", repo.lastFilter.Search)
	assert.Equal(t, 2, pagination.Page)
	assert.Equal(t, 5, pagination.PageSize)

	posted, _, err := svc.ListPosted(context.Background(), "nobody@example.com", 1, 20)
	require.NoError(t, err)
	assert.Empty(t, posted)
	assert.NotNil(t, posted)

	require.NoError(t, svc.Delete(context.Background(), scholarshipFullID))
	assert.Equal(t, 404, appErrorStatus(t, svc.Delete(context.Background(), scholarshipFullID)))
}
