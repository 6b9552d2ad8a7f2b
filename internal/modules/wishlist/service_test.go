package wishlist

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memRepo keeps desired items per user and joins them against a fixed product table.
type memRepo struct {
	products map[string]groupedRow // keyed by product id; UserID and Quantity unused
	items    map[string]map[string]int
}

func newMemRepo() *memRepo {
	return &memRepo{
		products: map[string]groupedRow{
			"p-rice":  {CategoryID: "c-food", CategoryName: "Food", ProductID: "p-rice", Name: "Rice", Currency: "USD"},
			"p-beans": {CategoryID: "c-food", CategoryName: "Food", ProductID: "p-beans", Name: "Beans", Currency: "USD"},
			"p-ball":  {CategoryID: "c-toys", CategoryName: "Toys", ProductID: "p-ball", Name: "Ball", Currency: "USD"},
		},
		items: map[string]map[string]int{},
	}
}

func (m *memRepo) ReplaceAll(_ context.Context, userID string, items []Item) error {
	for _, it := range items {
		if _, ok := m.products[it.ProductID]; !ok {
			return ErrUnknownProduct
		}
	}
	set := map[string]int{}
	for _, it := range items {
		set[it.ProductID] = it.Quantity
	}
	m.items[userID] = set
	return nil
}

func (m *memRepo) UpdateQuantity(_ context.Context, userID, productID string, quantity int) error {
	if _, ok := m.items[userID][productID]; !ok {
		return ErrItemNotFound
	}
	m.items[userID][productID] = quantity
	return nil
}

func (m *memRepo) Remove(_ context.Context, userID, productID string) error {
	if _, ok := m.items[userID][productID]; !ok {
		return ErrItemNotFound
	}
	delete(m.items[userID], productID)
	return nil
}

func (m *memRepo) ListGrouped(_ context.Context, userIDs []string) ([]groupedRow, error) {
	var rows []groupedRow
	for _, u := range userIDs {
		for pid, q := range m.items[u] {
			r := m.products[pid]
			r.UserID = u
			r.Quantity = q
			rows = append(rows, r)
		}
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].UserID != rows[j].UserID {
			return rows[i].UserID < rows[j].UserID
		}
		if rows[i].CategoryName != rows[j].CategoryName {
			return rows[i].CategoryName < rows[j].CategoryName
		}
		return rows[i].Name < rows[j].Name
	})
	return rows, nil
}

func newTestService(repo Repository) Service {
	return NewService(&Config{Repo: repo, Logger: slog.New(slog.NewTextHandler(io.Discard, nil))})
}

func TestReplaceAll_RemovesAbsentItems(t *testing.T) {
	ctx := context.Background()
	repo := newMemRepo()
	svc := newTestService(repo)

	require.NoError(t, svc.ReplaceAll(ctx, "u1", []Item{{ProductID: "p-rice", Quantity: 2}, {ProductID: "p-ball", Quantity: 1}}))
	require.NoError(t, svc.ReplaceAll(ctx, "u1", []Item{{ProductID: "p-beans", Quantity: 3}}))

	groups, err := svc.Grouped(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, "Food", groups[0].CategoryName)
	require.Len(t, groups[0].Items, 1)
	assert.Equal(t, "p-beans", groups[0].Items[0].ProductID)
	assert.Equal(t, 3, groups[0].Items[0].Quantity)
}

func TestReplaceAll_RejectsDuplicatesAndBadQuantities(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(newMemRepo())

	err := svc.ReplaceAll(ctx, "u1", []Item{{ProductID: "p-rice", Quantity: 1}, {ProductID: "p-rice", Quantity: 2}})
	assert.ErrorIs(t, err, ErrDuplicateProduct)

	err = svc.ReplaceAll(ctx, "u1", []Item{{ProductID: "p-rice", Quantity: 0}})
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	err = svc.ReplaceAll(ctx, "u1", []Item{{ProductID: "p-unknown", Quantity: 1}})
	assert.ErrorIs(t, err, ErrUnknownProduct)
}

func TestUpdateQuantityAndRemove(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(newMemRepo())
	require.NoError(t, svc.ReplaceAll(ctx, "u1", []Item{{ProductID: "p-rice", Quantity: 1}}))

	require.NoError(t, svc.UpdateQuantity(ctx, "u1", "p-rice", 7))
	assert.ErrorIs(t, svc.UpdateQuantity(ctx, "u1", "p-rice", 101), ErrInvalidQuantity)
	assert.ErrorIs(t, svc.UpdateQuantity(ctx, "u1", "p-ball", 1), ErrItemNotFound)

	require.NoError(t, svc.Remove(ctx, "u1", "p-rice"))
	assert.ErrorIs(t, svc.Remove(ctx, "u1", "p-rice"), ErrItemNotFound)
}

func TestGroupedFor_ReturnsEveryRequestedUser(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(newMemRepo())
	require.NoError(t, svc.ReplaceAll(ctx, "u1", []Item{{ProductID: "p-ball", Quantity: 1}, {ProductID: "p-rice", Quantity: 4}}))

	got, err := svc.GroupedFor(ctx, []string{"u1", "u2"})
	require.NoError(t, err)
	require.Len(t, got["u1"], 2)
	assert.Equal(t, "Food", got["u1"][0].CategoryName)
	assert.Equal(t, "Toys", got["u1"][1].CategoryName)
	assert.NotNil(t, got["u2"])
	assert.Empty(t, got["u2"])
}
