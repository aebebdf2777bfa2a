package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shareit/internal/domain"
	"shareit/internal/models"
)

func boolPtr(b bool) *bool { return &b }

func TestItemService_AddValidation(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	owner := e.user(t, "owner")

	_, err := e.items.AddItem(ctx, 999, &models.ItemDraft{Name: "a", Description: "b", Available: boolPtr(true)})
	requireKind(t, err, domain.ErrNotFound)

	tests := []struct {
		name  string
		draft models.ItemDraft
	}{
		{"blank name", models.ItemDraft{Description: "b", Available: boolPtr(true)}},
		{"blank description", models.ItemDraft{Name: "a", Description: " ", Available: boolPtr(true)}},
		{"missing available", models.ItemDraft{Name: "a", Description: "b"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.items.AddItem(ctx, owner.ID, &tt.draft)
			requireKind(t, err, domain.ErrValidation)
		})
	}

	missing := int64(42)
	_, err = e.items.AddItem(ctx, owner.ID, &models.ItemDraft{Name: "a", Description: "b", Available: boolPtr(true), RequestID: &missing})
	requireKind(t, err, domain.ErrNotFound)
}

func TestItemService_AddLinkedToRequest(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	owner := e.user(t, "owner")
	asker := e.user(t, "asker")

	req, err := e.requests.CreateRequest(ctx, asker.ID, &models.RequestDraft{Description: "need a tent"})
	require.NoError(t, err)

	view, err := e.items.AddItem(ctx, owner.ID, &models.ItemDraft{Name: "Tent", Description: "2p", Available: boolPtr(true), RequestID: &req.ID})
	require.NoError(t, err)
	require.NotNil(t, view.RequestID)
	assert.Equal(t, req.ID, *view.RequestID)
	assert.Empty(t, view.Comments)
}

func TestItemService_Update(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	owner := e.user(t, "owner")
	stranger := e.user(t, "stranger")
	item := e.item(t, owner.ID, "Drill", true)

	view, err := e.items.UpdateItem(ctx, item.ID, owner.ID, &models.ItemPatch{Available: boolPtr(false)})
	require.NoError(t, err)
	assert.Equal(t, "Drill", view.Name)
	assert.Equal(t, item.Description, view.Description)
	assert.False(t, view.Available)

	_, err = e.items.UpdateItem(ctx, item.ID, stranger.ID, &models.ItemPatch{Name: strPtr("Mine")})
	requireKind(t, err, domain.ErrNotFound)

	_, err = e.items.UpdateItem(ctx, 999, owner.ID, &models.ItemPatch{})
	requireKind(t, err, domain.ErrNotFound)

	_, err = e.items.UpdateItem(ctx, item.ID, 999, &models.ItemPatch{})
	requireKind(t, err, domain.ErrNotFound)

	_, err = e.items.UpdateItem(ctx, item.ID, owner.ID, &models.ItemPatch{Name: strPtr("")})
	requireKind(t, err, domain.ErrValidation)
}

func TestItemService_GetDecoratesOnlyForOwner(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	owner := e.user(t, "owner")
	booker := e.user(t, "booker")
	item := e.item(t, owner.ID, "Drill", true)

	past := e.booking(t, booker.ID, item.ID, testNow.Add(-72*time.Hour), testNow.Add(-48*time.Hour))
	next := e.booking(t, booker.ID, item.ID, testNow.Add(24*time.Hour), testNow.Add(48*time.Hour))
	later := e.booking(t, booker.ID, item.ID, testNow.Add(96*time.Hour), testNow.Add(120*time.Hour))
	for _, id := range []int64{past.ID, next.ID, later.ID} {
		_, err := e.bookings.ApproveBooking(ctx, owner.ID, id, true)
		require.NoError(t, err)
	}
	_, err := e.comments.PostComment(ctx, booker.ID, item.ID, &models.CommentDraft{Text: "solid"})
	require.NoError(t, err)

	ownerView, err := e.items.GetItem(ctx, item.ID, owner.ID)
	require.NoError(t, err)
	require.NotNil(t, ownerView.LastBooking)
	require.NotNil(t, ownerView.NextBooking)
	assert.Equal(t, past.ID, ownerView.LastBooking.ID)
	assert.Equal(t, next.ID, ownerView.NextBooking.ID)
	assert.Equal(t, booker.ID, ownerView.NextBooking.BookerID)
	require.Len(t, ownerView.Comments, 1)
	assert.Equal(t, "booker", ownerView.Comments[0].AuthorName)

	bookerView, err := e.items.GetItem(ctx, item.ID, booker.ID)
	require.NoError(t, err)
	assert.Nil(t, bookerView.LastBooking)
	assert.Nil(t, bookerView.NextBooking)
	assert.Len(t, bookerView.Comments, 1)

	_, err = e.items.GetItem(ctx, item.ID, 999)
	requireKind(t, err, domain.ErrNotFound)
	_, err = e.items.GetItem(ctx, 999, owner.ID)
	requireKind(t, err, domain.ErrNotFound)
}

func TestItemService_OwnerItemsAndSearch(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	owner := e.user(t, "owner")
	e.item(t, owner.ID, "Drill", true)
	e.item(t, owner.ID, "Old drill", false)
	e.item(t, owner.ID, "Saw", true)

	items, err := e.items.GetOwnerItems(ctx, owner.ID, 0, 10)
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, "Drill", items[0].Name)

	items, err = e.items.GetOwnerItems(ctx, owner.ID, 3, 2)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Saw", items[0].Name)

	_, err = e.items.GetOwnerItems(ctx, owner.ID, -1, 10)
	requireKind(t, err, domain.ErrValidation)
	_, err = e.items.GetOwnerItems(ctx, 999, 0, 10)
	requireKind(t, err, domain.ErrNotFound)

	found, err := e.items.SearchItems(ctx, "DRILL", 0, 10)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Drill", found[0].Name)

	found, err = e.items.SearchItems(ctx, "rent", 0, 10)
	require.NoError(t, err)
	assert.Len(t, found, 2)

	e.item(t, owner.ID, "Дрель", true)
	found, err = e.items.SearchItems(ctx, "дРЕЛЬ", 0, 10)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Дрель", found[0].Name)

	found, err = e.items.SearchItems(ctx, "   ", 0, 10)
	require.NoError(t, err)
	assert.Empty(t, found)

	_, err = e.items.SearchItems(ctx, "drill", 0, 0)
	requireKind(t, err, domain.ErrValidation)
}
