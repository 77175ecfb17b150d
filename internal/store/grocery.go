package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dukerupert/grocerybuddy/internal/model"
)

// GroceryStore persists grocery items. Every method that touches an existing
// item filters on both id and owner; a row owned by someone else behaves
// exactly like a missing row.
type GroceryStore struct {
	db *sql.DB
}

func NewGroceryStore(db *sql.DB) *GroceryStore {
	return &GroceryStore{db: db}
}

func scanItem(row scanner) (*model.GroceryItem, error) {
	var item model.GroceryItem
	var completed int
	err := row.Scan(
		&item.ID, &item.OwnerID, &item.Name, &item.Category, &item.Quantity,
		&completed, &item.CreatedAt, &item.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	item.Completed = completed != 0
	return &item, nil
}

const itemCols = `id, owner_id, name, category, quantity, completed, created_at, updated_at`

// ListItems returns the owner's items, newest first.
func (s *GroceryStore) ListItems(ctx context.Context, ownerID int64) ([]model.GroceryItem, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+itemCols+` FROM grocery_items WHERE owner_id = ? ORDER BY created_at DESC, id DESC`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()

	items := []model.GroceryItem{}
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

// GetItem returns nil, nil when no item with id belongs to ownerID.
func (s *GroceryStore) GetItem(ctx context.Context, ownerID, id int64) (*model.GroceryItem, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+itemCols+` FROM grocery_items WHERE id = ? AND owner_id = ?`,
		id, ownerID,
	)
	item, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	return item, nil
}

func (s *GroceryStore) CreateItem(ctx context.Context, ownerID int64, name string, category model.Category, quantity int) (*model.GroceryItem, error) {
	ts := now()
	result, err := s.db.ExecContext(ctx,
		`INSERT INTO grocery_items (owner_id, name, category, quantity, completed, created_at, updated_at)
		 VALUES (?, ?, ?, ?, 0, ?, ?)`,
		ownerID, name, string(category), quantity, ts, ts,
	)
	if err != nil {
		return nil, constraintErr("insert item", err, "Item already exists")
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetItem(ctx, ownerID, id)
}

// UpdateItem applies the non-nil fields of patch. An empty patch returns the
// item unchanged. Returns nil, nil if the item is not the owner's.
func (s *GroceryStore) UpdateItem(ctx context.Context, ownerID, id int64, patch model.ItemPatch) (*model.GroceryItem, error) {
	if patch.Empty() {
		return s.GetItem(ctx, ownerID, id)
	}

	var name, category sql.NullString
	var quantity sql.NullInt64
	if patch.Name != nil {
		name = sql.NullString{String: *patch.Name, Valid: true}
	}
	if patch.Category != nil {
		category = sql.NullString{String: string(*patch.Category), Valid: true}
	}
	if patch.Quantity != nil {
		quantity = sql.NullInt64{Int64: int64(*patch.Quantity), Valid: true}
	}

	result, err := s.db.ExecContext(ctx,
		`UPDATE grocery_items SET
			name = COALESCE(?, name),
			category = COALESCE(?, category),
			quantity = COALESCE(?, quantity),
			updated_at = ?
		 WHERE id = ? AND owner_id = ?`,
		name, category, quantity, now(), id, ownerID,
	)
	if err != nil {
		return nil, constraintErr("update item", err, "Item already exists")
	}
	if n, err := result.RowsAffected(); err != nil {
		return nil, fmt.Errorf("rows affected: %w", err)
	} else if n == 0 {
		return nil, nil
	}
	return s.GetItem(ctx, ownerID, id)
}

// ToggleCompleted flips the completed flag in a single statement.
func (s *GroceryStore) ToggleCompleted(ctx context.Context, ownerID, id int64) (*model.GroceryItem, error) {
	result, err := s.db.ExecContext(ctx,
		`UPDATE grocery_items SET completed = 1 - completed, updated_at = ? WHERE id = ? AND owner_id = ?`,
		now(), id, ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("toggle item: %w", err)
	}
	if n, err := result.RowsAffected(); err != nil {
		return nil, fmt.Errorf("rows affected: %w", err)
	} else if n == 0 {
		return nil, nil
	}
	return s.GetItem(ctx, ownerID, id)
}

// DeleteItem removes one item and returns it as it was before deletion.
func (s *GroceryStore) DeleteItem(ctx context.Context, ownerID, id int64) (*model.GroceryItem, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	row := tx.QueryRowContext(ctx,
		`SELECT `+itemCols+` FROM grocery_items WHERE id = ? AND owner_id = ?`,
		id, ownerID,
	)
	item, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM grocery_items WHERE id = ? AND owner_id = ?`, id, ownerID); err != nil {
		return nil, fmt.Errorf("delete item: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return item, nil
}

func (s *GroceryStore) ClearCompleted(ctx context.Context, ownerID int64) (int64, error) {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM grocery_items WHERE owner_id = ? AND completed = 1`, ownerID)
	if err != nil {
		return 0, fmt.Errorf("clear completed: %w", err)
	}
	return result.RowsAffected()
}

func (s *GroceryStore) ClearAll(ctx context.Context, ownerID int64) (int64, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM grocery_items WHERE owner_id = ?`, ownerID)
	if err != nil {
		return 0, fmt.Errorf("clear all: %w", err)
	}
	return result.RowsAffected()
}
