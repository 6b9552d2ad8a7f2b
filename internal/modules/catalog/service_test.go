package catalog

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	categories []Category
	products   []Product
	events     []Event
	err        error
	lastLimit  int
}

func (f *fakeRepo) ListActiveCategories(context.Context) ([]Category, error) {
	return f.categories, f.err
}

func (f *fakeRepo) ListActiveProducts(context.Context) ([]Product, error) {
	return f.products, f.err
}

func (f *fakeRepo) RecentEvents(_ context.Context, limit int) ([]Event, error) {
	f.lastLimit = limit
	return f.events, f.err
}

func (f *fakeRepo) ToggleProductActive(_ context.Context, id string) (*Product, error) {
	for i := range f.products {
		if f.products[i].ID == id {
			f.products[i].IsActive = !f.products[i].IsActive
			p := f.products[i]
			return &p, nil
		}
	}
	return nil, ErrProductNotFound
}

func newTestService(repo Repository) Service {
	return NewService(&Config{Repo: repo, Logger: slog.New(slog.NewTextHandler(io.Discard, nil))})
}

func TestListCategoriesWithProducts_SkipsEmptyCategories(t *testing.T) {
	repo := &fakeRepo{
		categories: []Category{{ID: "c1", Name: "Food"}, {ID: "c2", Name: "Toys"}},
		products: []Product{
			{ID: "p1", CategoryID: "c1", Name: "Rice"},
			{ID: "p2", CategoryID: "c1", Name: "Beans"},
		},
	}

	got, err := newTestService(repo).ListCategoriesWithProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Food", got[0].Name)
	assert.Len(t, got[0].Products, 2)
}

func TestRecentEvents_DefaultLimit(t *testing.T) {
	repo := &fakeRepo{}
	_, err := newTestService(repo).RecentEvents(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, 10, repo.lastLimit)
}

func TestRecentEvents_RepositoryFailureIsInternal(t *testing.T) {
	repo := &fakeRepo{err: errors.New("connection reset")}
	_, err := newTestService(repo).RecentEvents(context.Background(), 5)
	assert.ErrorIs(t, err, ErrInternal)
}

func TestToggleProductActive(t *testing.T) {
	repo := &fakeRepo{products: []Product{{ID: "p1", IsActive: true}}}
	svc := newTestService(repo)

	p, err := svc.ToggleProductActive(context.Background(), "p1")
	require.NoError(t, err)
	assert.False(t, p.IsActive)

	_, err = svc.ToggleProductActive(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrProductNotFound)
}
