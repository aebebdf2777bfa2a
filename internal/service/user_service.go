package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"shareit/internal/domain"
	"shareit/internal/models"
)

type UserService struct {
	repo     domain.UserRepository
	validate *validator.Validate
	logger   *zerolog.Logger
}

func NewUserService(repo domain.UserRepository, logger *zerolog.Logger) *UserService {
	return &UserService{
		repo:     repo,
		validate: validator.New(),
		logger:   logger,
	}
}

func (s *UserService) CreateUser(ctx context.Context, user *models.User) (*models.User, error) {
	if blank(user.Name) {
		return nil, domain.Validationf("name must not be blank")
	}
	if err := s.checkEmail(user.Email); err != nil {
		return nil, err
	}

	created := &models.User{Name: user.Name, Email: user.Email}
	if err := s.repo.CreateUser(ctx, created); err != nil {
		return nil, err
	}
	s.logger.Info().Int64("user_id", created.ID).Msg("user created")
	return created, nil
}

func (s *UserService) UpdateUser(ctx context.Context, id int64, patch *models.UserPatch) (*models.User, error) {
	user, err := s.repo.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		if blank(*patch.Name) {
			return nil, domain.Validationf("name must not be blank")
		}
		user.Name = *patch.Name
	}
	if patch.Email != nil {
		if err := s.checkEmail(*patch.Email); err != nil {
			return nil, err
		}
		user.Email = *patch.Email
	}

	if err := s.repo.UpdateUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) DeleteUser(ctx context.Context, id int64) error {
	if err := s.repo.DeleteUser(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Int64("user_id", id).Msg("user deleted")
	return nil
}

func (s *UserService) GetUser(ctx context.Context, id int64) (*models.User, error) {
	return s.repo.GetUserByID(ctx, id)
}

func (s *UserService) GetAllUsers(ctx context.Context) ([]*models.User, error) {
	return s.repo.GetAllUsers(ctx)
}

func (s *UserService) checkEmail(email string) error {
	if blank(email) {
		return domain.Validationf("email must not be blank")
	}
	if err := s.validate.Var(email, "email"); err != nil {
		return domain.Validationf("invalid email %q", email)
	}
	return nil
}
