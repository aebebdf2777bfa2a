package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"shareit/internal/domain"
	"shareit/internal/models"
)

const requestColumns = `id, description, requester_id, created`

func (db *DB) CreateRequest(ctx context.Context, request *models.ItemRequest) error {
	id, err := db.insertReturningID(ctx,
		`INSERT INTO requests (description, requester_id, created) VALUES (?, ?, ?)`,
		request.Description, request.RequesterID, request.Created.UTC())
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	request.ID = id
	return nil
}

func (db *DB) GetRequestByID(ctx context.Context, id int64) (*models.ItemRequest, error) {
	var r models.ItemRequest
	err := db.db.GetContext(ctx, &r, db.rebind(`SELECT `+requestColumns+` FROM requests WHERE id = ?`), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NotFoundf("request %d not found", id)
		}
		return nil, fmt.Errorf("failed to get request: %w", err)
	}
	r.Created = r.Created.UTC()
	return &r, nil
}

func (db *DB) GetRequestsByRequester(ctx context.Context, requesterID int64) ([]*models.ItemRequest, error) {
	return db.selectRequests(ctx,
		`SELECT `+requestColumns+` FROM requests WHERE requester_id = ? ORDER BY created, id`, requesterID)
}

func (db *DB) GetRequestsExcludingRequester(ctx context.Context, requesterID int64, page domain.Page) ([]*models.ItemRequest, error) {
	return db.selectRequests(ctx,
		`SELECT `+requestColumns+` FROM requests WHERE requester_id <> ? ORDER BY created, id`+pageClause(page), requesterID)
}

func (db *DB) RequestExists(ctx context.Context, id int64) (bool, error) {
	ok, err := db.exists(ctx, `SELECT COUNT(*) FROM requests WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("failed to check request: %w", err)
	}
	return ok, nil
}

func (db *DB) selectRequests(ctx context.Context, query string, args ...interface{}) ([]*models.ItemRequest, error) {
	requests := []*models.ItemRequest{}
	if err := db.db.SelectContext(ctx, &requests, db.rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to list requests: %w", err)
	}
	for _, r := range requests {
		r.Created = r.Created.UTC()
	}
	return requests, nil
}
