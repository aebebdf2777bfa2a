package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"shareit/internal/domain"
	"shareit/internal/models"
)

type RequestService struct {
	repo   domain.Repository
	logger *zerolog.Logger
	now    func() time.Time
}

func NewRequestService(repo domain.Repository, logger *zerolog.Logger) *RequestService {
	return &RequestService{repo: repo, logger: logger, now: time.Now}
}

func (s *RequestService) CreateRequest(ctx context.Context, userID int64, draft *models.RequestDraft) (*models.RequestView, error) {
	if err := requireUser(ctx, s.repo, userID); err != nil {
		return nil, err
	}
	if blank(draft.Description) {
		return nil, domain.Validationf("description must not be blank")
	}

	request := &models.ItemRequest{
		Description: draft.Description,
		RequesterID: userID,
		Created:     s.now().UTC(),
	}
	if err := s.repo.CreateRequest(ctx, request); err != nil {
		return nil, err
	}
	views, err := s.decorate(ctx, []*models.ItemRequest{request})
	if err != nil {
		return nil, err
	}
	return views[0], nil
}

func (s *RequestService) GetOwnRequests(ctx context.Context, userID int64) ([]*models.RequestView, error) {
	if err := requireUser(ctx, s.repo, userID); err != nil {
		return nil, err
	}
	requests, err := s.repo.GetRequestsByRequester(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.decorate(ctx, requests)
}

// GetOtherRequests lists requests posted by anyone except userID.
func (s *RequestService) GetOtherRequests(ctx context.Context, userID int64, from, size int) ([]*models.RequestView, error) {
	page, err := domain.NewPage(from, size)
	if err != nil {
		return nil, err
	}
	if err := requireUser(ctx, s.repo, userID); err != nil {
		return nil, err
	}
	requests, err := s.repo.GetRequestsExcludingRequester(ctx, userID, page)
	if err != nil {
		return nil, err
	}
	return s.decorate(ctx, requests)
}

func (s *RequestService) GetRequest(ctx context.Context, userID, requestID int64) (*models.RequestView, error) {
	if err := requireUser(ctx, s.repo, userID); err != nil {
		return nil, err
	}
	request, err := s.repo.GetRequestByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	views, err := s.decorate(ctx, []*models.ItemRequest{request})
	if err != nil {
		return nil, err
	}
	return views[0], nil
}

func (s *RequestService) decorate(ctx context.Context, requests []*models.ItemRequest) ([]*models.RequestView, error) {
	views := make([]*models.RequestView, 0, len(requests))
	if len(requests) == 0 {
		return views, nil
	}

	ids := make([]int64, 0, len(requests))
	for _, r := range requests {
		ids = append(ids, r.ID)
	}
	items, err := s.repo.GetItemsByRequests(ctx, ids)
	if err != nil {
		return nil, err
	}
	byRequest := make(map[int64][]*models.ItemView, len(requests))
	for _, it := range items {
		if it.RequestID != nil {
			byRequest[*it.RequestID] = append(byRequest[*it.RequestID], models.NewItemView(it))
		}
	}

	for _, r := range requests {
		view := &models.RequestView{
			ID:          r.ID,
			Description: r.Description,
			Created:     models.NewDateTime(r.Created),
			Items:       byRequest[r.ID],
		}
		if view.Items == nil {
			view.Items = []*models.ItemView{}
		}
		views = append(views, view)
	}
	return views, nil
}
