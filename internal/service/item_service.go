package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"shareit/internal/domain"
	"shareit/internal/models"
)

type ItemService struct {
	repo   domain.Repository
	logger *zerolog.Logger
	now    func() time.Time
}

func NewItemService(repo domain.Repository, logger *zerolog.Logger) *ItemService {
	return &ItemService{repo: repo, logger: logger, now: time.Now}
}

func (s *ItemService) AddItem(ctx context.Context, ownerID int64, draft *models.ItemDraft) (*models.ItemView, error) {
	if err := requireUser(ctx, s.repo, ownerID); err != nil {
		return nil, err
	}
	if blank(draft.Name) {
		return nil, domain.Validationf("name must not be blank")
	}
	if blank(draft.Description) {
		return nil, domain.Validationf("description must not be blank")
	}
	if draft.Available == nil {
		return nil, domain.Validationf("available must be set")
	}
	if draft.RequestID != nil {
		ok, err := s.repo.RequestExists(ctx, *draft.RequestID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, domain.NotFoundf("request %d not found", *draft.RequestID)
		}
	}

	item := &models.Item{
		Name:        draft.Name,
		Description: draft.Description,
		Available:   *draft.Available,
		OwnerID:     ownerID,
		RequestID:   draft.RequestID,
	}
	if err := s.repo.CreateItem(ctx, item); err != nil {
		return nil, err
	}
	s.logger.Info().Int64("item_id", item.ID).Int64("owner_id", ownerID).Msg("item created")
	return models.NewItemView(item), nil
}

func (s *ItemService) UpdateItem(ctx context.Context, itemID, ownerID int64, patch *models.ItemPatch) (*models.ItemView, error) {
	if err := requireUser(ctx, s.repo, ownerID); err != nil {
		return nil, err
	}
	item, err := s.repo.GetItemByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item.OwnerID != ownerID {
		return nil, domain.NotFoundf("item %d not found for user %d", itemID, ownerID)
	}

	if patch.Name != nil {
		if blank(*patch.Name) {
			return nil, domain.Validationf("name must not be blank")
		}
		item.Name = *patch.Name
	}
	if patch.Description != nil {
		if blank(*patch.Description) {
			return nil, domain.Validationf("description must not be blank")
		}
		item.Description = *patch.Description
	}
	if patch.Available != nil {
		item.Available = *patch.Available
	}

	if err := s.repo.UpdateItem(ctx, item); err != nil {
		return nil, err
	}
	views, err := s.decorate(ctx, []*models.Item{item}, ownerID)
	if err != nil {
		return nil, err
	}
	return views[0], nil
}

func (s *ItemService) GetItem(ctx context.Context, itemID, viewerID int64) (*models.ItemView, error) {
	item, err := s.repo.GetItemByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if err := requireUser(ctx, s.repo, viewerID); err != nil {
		return nil, err
	}
	views, err := s.decorate(ctx, []*models.Item{item}, viewerID)
	if err != nil {
		return nil, err
	}
	return views[0], nil
}

func (s *ItemService) GetOwnerItems(ctx context.Context, ownerID int64, from, size int) ([]*models.ItemView, error) {
	if err := requireUser(ctx, s.repo, ownerID); err != nil {
		return nil, err
	}
	page, err := domain.NewPage(from, size)
	if err != nil {
		return nil, err
	}
	items, err := s.repo.GetItemsByOwner(ctx, ownerID, page)
	if err != nil {
		return nil, err
	}
	return s.decorate(ctx, items, ownerID)
}

// SearchItems returns nothing for blank text.
func (s *ItemService) SearchItems(ctx context.Context, text string, from, size int) ([]*models.ItemView, error) {
	page, err := domain.NewPage(from, size)
	if err != nil {
		return nil, err
	}
	if blank(text) {
		return []*models.ItemView{}, nil
	}
	items, err := s.repo.SearchAvailableItems(ctx, text, page)
	if err != nil {
		return nil, err
	}
	return s.decorate(ctx, items, 0)
}

// decorate attaches comments to every item and, for items owned by viewerID,
// the last and next approved bookings.
func (s *ItemService) decorate(ctx context.Context, items []*models.Item, viewerID int64) ([]*models.ItemView, error) {
	views := make([]*models.ItemView, 0, len(items))
	if len(items) == 0 {
		return views, nil
	}

	ids := make([]int64, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ID)
	}
	comments, err := s.repo.GetCommentsByItems(ctx, ids)
	if err != nil {
		return nil, err
	}
	byItem := make(map[int64][]*models.CommentView, len(items))
	for _, c := range comments {
		byItem[c.ItemID] = append(byItem[c.ItemID], models.NewCommentView(c))
	}

	now := s.now().UTC()
	for _, it := range items {
		view := models.NewItemView(it)
		if cs, ok := byItem[it.ID]; ok {
			view.Comments = cs
		}
		if viewerID != 0 && it.OwnerID == viewerID {
			last, err := s.repo.GetLastBooking(ctx, it.ID, now)
			if err != nil {
				return nil, err
			}
			next, err := s.repo.GetNextBooking(ctx, it.ID, now)
			if err != nil {
				return nil, err
			}
			if last != nil {
				view.LastBooking = models.NewShortBooking(last)
			}
			if next != nil {
				view.NextBooking = models.NewShortBooking(next)
			}
		}
		views = append(views, view)
	}
	return views, nil
}
