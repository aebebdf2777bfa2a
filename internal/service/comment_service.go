package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"shareit/internal/domain"
	"shareit/internal/models"
)

type CommentService struct {
	repo   domain.Repository
	logger *zerolog.Logger
	now    func() time.Time
}

func NewCommentService(repo domain.Repository, logger *zerolog.Logger) *CommentService {
	return &CommentService{repo: repo, logger: logger, now: time.Now}
}

// PostComment is allowed only after the author's approved booking of the item has ended.
func (s *CommentService) PostComment(ctx context.Context, userID, itemID int64, draft *models.CommentDraft) (*models.CommentView, error) {
	author, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if _, err := s.repo.GetItemByID(ctx, itemID); err != nil {
		return nil, err
	}
	if blank(draft.Text) {
		return nil, domain.Validationf("text must not be blank")
	}

	now := s.now().UTC()
	ok, err := s.repo.HasFinishedBooking(ctx, itemID, userID, now)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.Validationf("user %d has no finished booking of item %d", userID, itemID)
	}

	comment := &models.Comment{
		Text:       draft.Text,
		ItemID:     itemID,
		AuthorID:   userID,
		AuthorName: author.Name,
		Created:    now,
	}
	if err := s.repo.CreateComment(ctx, comment); err != nil {
		return nil, err
	}
	return models.NewCommentView(comment), nil
}
