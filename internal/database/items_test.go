package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shareit/internal/domain"
	"shareit/internal/models"
)

func TestItemCreateAndUpdate(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	owner := seedUser(t, db, "Owner", "o@example.com")
	item := seedItem(t, db, owner.ID, "Drill", true)

	got, err := db.GetItemByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, item, got)
	assert.Nil(t, got.RequestID)

	item.Name = "Hammer drill"
	item.Available = false
	require.NoError(t, db.UpdateItem(ctx, item))

	got, err = db.GetItemByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, "Hammer drill", got.Name)
	assert.False(t, got.Available)

	err = db.UpdateItem(ctx, &models.Item{ID: 999, Name: "x", Description: "y"})
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestItemsByOwnerPaged(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	owner := seedUser(t, db, "Owner", "o@example.com")
	other := seedUser(t, db, "Other", "x@example.com")
	for _, name := range []string{"a", "b", "c"} {
		seedItem(t, db, owner.ID, name, true)
	}
	seedItem(t, db, other.ID, "d", true)

	all, err := db.GetItemsByOwner(ctx, owner.ID, domain.Unpaged)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "a", all[0].Name)

	page, err := db.GetItemsByOwner(ctx, owner.ID, domain.Page{Limit: 2, Offset: 2})
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "c", page[0].Name)

	n, err := db.CountItemsByOwner(ctx, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestSearchAvailableItems(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	owner := seedUser(t, db, "Owner", "o@example.com")
	drill := seedItem(t, db, owner.ID, "Drill", true)
	seedItem(t, db, owner.ID, "Old drill", false)
	saw := &models.Item{Name: "Saw", Description: "cuts like a DRILL never could", Available: true, OwnerID: owner.ID}
	require.NoError(t, db.CreateItem(ctx, saw))
	seedItem(t, db, owner.ID, "Ladder", true)

	found, err := db.SearchAvailableItems(ctx, "dRiLl", domain.Unpaged)
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, drill.ID, found[0].ID)
	assert.Equal(t, saw.ID, found[1].ID)

	found, err = db.SearchAvailableItems(ctx, "drill", domain.Page{Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, saw.ID, found[0].ID)

	found, err = db.SearchAvailableItems(ctx, "%", domain.Unpaged)
	require.NoError(t, err)
	assert.Empty(t, found)
}

func TestSearchAvailableItemsUnicode(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	owner := seedUser(t, db, "Owner", "o@example.com")
	drill := &models.Item{Name: "Дрель аккумуляторная", Description: "без зарядки", Available: true, OwnerID: owner.ID}
	require.NoError(t, db.CreateItem(ctx, drill))
	grinder := &models.Item{Name: "Болгарка", Description: "Режет лучше, чем ДРЕЛЬ", Available: true, OwnerID: owner.ID}
	require.NoError(t, db.CreateItem(ctx, grinder))
	cafe := &models.Item{Name: "Crème brûlée torch", Description: "kitchen", Available: true, OwnerID: owner.ID}
	require.NoError(t, db.CreateItem(ctx, cafe))

	tests := []struct {
		name string
		text string
		want []int64
	}{
		{name: "same case", text: "Дрель", want: []int64{drill.ID, grinder.ID}},
		{name: "lower case", text: "дрель", want: []int64{drill.ID, grinder.ID}},
		{name: "mixed case", text: "дРЕЛЬ", want: []int64{drill.ID, grinder.ID}},
		{name: "description only", text: "ЗАРЯДКИ", want: []int64{drill.ID}},
		{name: "name only", text: "болгар", want: []int64{grinder.ID}},
		{name: "accented latin", text: "CRÈME BRÛLÉE", want: []int64{cafe.ID}},
		{name: "no match", text: "пила", want: []int64{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			found, err := db.SearchAvailableItems(ctx, tt.text, domain.Unpaged)
			require.NoError(t, err)
			ids := make([]int64, 0, len(found))
			for _, it := range found {
				ids = append(ids, it.ID)
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestItemsByRequests(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	requester := seedUser(t, db, "Req", "r@example.com")
	owner := seedUser(t, db, "Owner", "o@example.com")
	req := &models.ItemRequest{Description: "need a drill", RequesterID: requester.ID, Created: time.Now()}
	require.NoError(t, db.CreateRequest(ctx, req))

	item := &models.Item{Name: "Drill", Description: "d", Available: true, OwnerID: owner.ID, RequestID: &req.ID}
	require.NoError(t, db.CreateItem(ctx, item))
	seedItem(t, db, owner.ID, "Unlinked", true)

	items, err := db.GetItemsByRequests(ctx, []int64{req.ID})
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.NotNil(t, items[0].RequestID)
	assert.Equal(t, req.ID, *items[0].RequestID)

	items, err = db.GetItemsByRequests(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, items)
}
