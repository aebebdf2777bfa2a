package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"shareit/internal/domain"
	"shareit/internal/models"
)

const itemColumns = `id, name, description, available, owner_id, request_id`

func (db *DB) CreateItem(ctx context.Context, item *models.Item) error {
	id, err := db.insertReturningID(ctx,
		`INSERT INTO items (name, description, available, owner_id, request_id) VALUES (?, ?, ?, ?, ?)`,
		item.Name, item.Description, item.Available, item.OwnerID, item.RequestID)
	if err != nil {
		return fmt.Errorf("failed to create item: %w", err)
	}
	item.ID = id
	return nil
}

// UpdateItem overwrites the mutable fields; owner and request link are fixed.
func (db *DB) UpdateItem(ctx context.Context, item *models.Item) error {
	res, err := db.db.ExecContext(ctx,
		db.rebind(`UPDATE items SET name = ?, description = ?, available = ? WHERE id = ?`),
		item.Name, item.Description, item.Available, item.ID)
	if err != nil {
		return fmt.Errorf("failed to update item: %w", err)
	}
	return expectAffected(res, "item", item.ID)
}

func (db *DB) GetItemByID(ctx context.Context, id int64) (*models.Item, error) {
	var item models.Item
	err := db.db.GetContext(ctx, &item, db.rebind(`SELECT `+itemColumns+` FROM items WHERE id = ?`), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NotFoundf("item %d not found", id)
		}
		return nil, fmt.Errorf("failed to get item: %w", err)
	}
	return &item, nil
}

func (db *DB) GetItemsByOwner(ctx context.Context, ownerID int64, page domain.Page) ([]*models.Item, error) {
	items := []*models.Item{}
	query := `SELECT ` + itemColumns + ` FROM items WHERE owner_id = ? ORDER BY id` + pageClause(page)
	if err := db.db.SelectContext(ctx, &items, db.rebind(query), ownerID); err != nil {
		return nil, fmt.Errorf("failed to list owner items: %w", err)
	}
	return items, nil
}

func (db *DB) CountItemsByOwner(ctx context.Context, ownerID int64) (int, error) {
	var n int
	if err := db.db.GetContext(ctx, &n, db.rebind(`SELECT COUNT(*) FROM items WHERE owner_id = ?`), ownerID); err != nil {
		return 0, fmt.Errorf("failed to count owner items: %w", err)
	}
	return n, nil
}

func (db *DB) GetItemsByRequests(ctx context.Context, requestIDs []int64) ([]*models.Item, error) {
	items := []*models.Item{}
	if len(requestIDs) == 0 {
		return items, nil
	}
	query, args, err := sqlx.In(`SELECT `+itemColumns+` FROM items WHERE request_id IN (?) ORDER BY id`, requestIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to build items query: %w", err)
	}
	if err := db.db.SelectContext(ctx, &items, db.rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to list request items: %w", err)
	}
	return items, nil
}

// SearchAvailableItems matches text as a case-insensitive substring of name
// or description among available items.
func (db *DB) SearchAvailableItems(ctx context.Context, text string, page domain.Page) ([]*models.Item, error) {
	items := []*models.Item{}
	pattern := likePattern(text)
	upper := db.upperFunc()
	query := `SELECT ` + itemColumns + ` FROM items
		WHERE (` + upper + `(name) LIKE ? ESCAPE '\' OR ` + upper + `(description) LIKE ? ESCAPE '\')
		AND available = ?
		ORDER BY id` + pageClause(page)
	if err := db.db.SelectContext(ctx, &items, db.rebind(query), pattern, pattern, true); err != nil {
		return nil, fmt.Errorf("failed to search items: %w", err)
	}
	return items, nil
}
