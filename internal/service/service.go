package service

import (
	"context"
	"strings"

	"shareit/internal/domain"
)

func requireUser(ctx context.Context, users domain.UserRepository, id int64) error {
	ok, err := users.UserExists(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return domain.NotFoundf("user %d not found", id)
	}
	return nil
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}
