package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"shareit/internal/models"
)

func (db *DB) CreateComment(ctx context.Context, comment *models.Comment) error {
	id, err := db.insertReturningID(ctx,
		`INSERT INTO comments (text, item_id, author_id, created) VALUES (?, ?, ?, ?)`,
		comment.Text, comment.ItemID, comment.AuthorID, comment.Created.UTC())
	if err != nil {
		return fmt.Errorf("failed to create comment: %w", err)
	}
	comment.ID = id
	return nil
}

// GetCommentsByItems returns the comments on itemIDs with author names, oldest first.
func (db *DB) GetCommentsByItems(ctx context.Context, itemIDs []int64) ([]*models.Comment, error) {
	comments := []*models.Comment{}
	if len(itemIDs) == 0 {
		return comments, nil
	}
	query, args, err := sqlx.In(`SELECT c.id, c.text, c.item_id, c.author_id, u.name AS author_name, c.created
		FROM comments c
		JOIN users u ON u.id = c.author_id
		WHERE c.item_id IN (?)
		ORDER BY c.created, c.id`, itemIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to build comments query: %w", err)
	}
	if err := db.db.SelectContext(ctx, &comments, db.rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	for _, c := range comments {
		c.Created = c.Created.UTC()
	}
	return comments, nil
}
