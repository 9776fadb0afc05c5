package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/fdg312/mealboard/internal/storage"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type groceryListsStorage struct {
	pool *pgxpool.Pool
}

func newGroceryListsStorage(pool *pgxpool.Pool) *groceryListsStorage {
	return &groceryListsStorage{pool: pool}
}

const listColumns = `id::text, name,
	to_char(week_start, 'YYYY-MM-DD'), to_char(start_date, 'YYYY-MM-DD'), to_char(end_date, 'YYYY-MM-DD'),
	created_at, updated_at`

func scanList(row pgx.Row) (storage.GroceryList, error) {
	var list storage.GroceryList
	err := row.Scan(
		&list.ID,
		&list.Name,
		&list.WeekStart,
		&list.StartDate,
		&list.EndDate,
		&list.CreatedAt,
		&list.UpdatedAt,
	)
	return list, err
}

func (s *groceryListsStorage) CreateGroceryList(ctx context.Context, list *storage.GroceryList) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO grocery_lists (name, week_start, start_date, end_date)
		VALUES ($1, $2::date, $3::date, $4::date)
		RETURNING ` + listColumns

	created, err := scanList(tx.QueryRow(ctx, query, list.Name, list.WeekStart, list.StartDate, list.EndDate))
	if err != nil {
		return fmt.Errorf("failed to create grocery list: %w", err)
	}

	if err := insertItems(ctx, tx, created.ID, list.Items); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	created.Items = list.Items
	*list = created
	return nil
}

func (s *groceryListsStorage) GetGroceryList(ctx context.Context, id string) (storage.GroceryList, bool, error) {
	query := `SELECT ` + listColumns + ` FROM grocery_lists WHERE id::text = $1`

	list, err := scanList(s.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return storage.GroceryList{}, false, nil
	}
	if err != nil {
		return storage.GroceryList{}, false, fmt.Errorf("failed to get grocery list: %w", err)
	}

	items, err := s.listItems(ctx, []string{list.ID})
	if err != nil {
		return storage.GroceryList{}, false, err
	}
	list.Items = items[list.ID]
	return list, true, nil
}

func (s *groceryListsStorage) ListGroceryLists(ctx context.Context) ([]storage.GroceryList, error) {
	query := `SELECT ` + listColumns + ` FROM grocery_lists ORDER BY seq DESC`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list grocery lists: %w", err)
	}
	defer rows.Close()

	lists := []storage.GroceryList{}
	for rows.Next() {
		list, err := scanList(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan grocery list: %w", err)
		}
		lists = append(lists, list)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating grocery lists: %w", rows.Err())
	}

	ids := make([]string, len(lists))
	for i, l := range lists {
		ids[i] = l.ID
	}
	items, err := s.listItems(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range lists {
		lists[i].Items = items[lists[i].ID]
	}
	return lists, nil
}

func (s *groceryListsStorage) AddGroceryItem(ctx context.Context, listID string, item *storage.GroceryItem) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	// the row lock serializes position assignment per list
	var id string
	err = tx.QueryRow(ctx, `SELECT id::text FROM grocery_lists WHERE id::text = $1 FOR UPDATE`, listID).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return storage.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to lock grocery list: %w", err)
	}

	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	query := `
		INSERT INTO grocery_items (id, list_id, position, name, category, quantity, notes, checked, source)
		SELECT $1::uuid, $2::uuid, COALESCE(MAX(position) + 1, 0), $3, $4, $5, $6, $7, $8
		FROM grocery_items WHERE list_id = $2::uuid
	`
	_, err = tx.Exec(ctx, query, item.ID, id, item.Name, item.Category, item.Quantity, item.Notes, item.Checked, item.Source)
	if err != nil {
		return fmt.Errorf("failed to insert grocery item: %w", err)
	}

	if err := touchList(ctx, tx, id); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (s *groceryListsStorage) SetGroceryItemChecked(ctx context.Context, listID, itemID string, checked bool) error {
	return s.itemStatement(ctx, listID,
		`UPDATE grocery_items SET checked = $3 WHERE list_id::text = $1 AND id::text = $2`,
		itemID, checked)
}

func (s *groceryListsStorage) DeleteGroceryItem(ctx context.Context, listID, itemID string) error {
	return s.itemStatement(ctx, listID,
		`DELETE FROM grocery_items WHERE list_id::text = $1 AND id::text = $2`,
		itemID)
}

// itemStatement runs a single-row item statement and bumps the list's updated_at
// in one transaction. Zero affected rows maps to ErrNotFound.
func (s *groceryListsStorage) itemStatement(ctx context.Context, listID, query string, args ...any) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, query, append([]any{listID}, args...)...)
	if err != nil {
		return fmt.Errorf("failed to update grocery item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}

	if err := touchList(ctx, tx, listID); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func touchList(ctx context.Context, tx pgx.Tx, listID string) error {
	if _, err := tx.Exec(ctx, `UPDATE grocery_lists SET updated_at = now() WHERE id::text = $1`, listID); err != nil {
		return fmt.Errorf("failed to touch grocery list: %w", err)
	}
	return nil
}

func (s *groceryListsStorage) DeleteGroceryList(ctx context.Context, id string) error {
	// grocery_items rows go with ON DELETE CASCADE
	_, err := s.pool.Exec(ctx, `DELETE FROM grocery_lists WHERE id::text = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete grocery list: %w", err)
	}
	return nil
}

func insertItems(ctx context.Context, tx pgx.Tx, listID string, items []storage.GroceryItem) error {
	query := `
		INSERT INTO grocery_items (id, list_id, position, name, category, quantity, notes, checked, source)
		VALUES ($1::uuid, $2::uuid, $3, $4, $5, $6, $7, $8, $9)
	`
	for i := range items {
		if items[i].ID == "" {
			items[i].ID = uuid.New().String()
		}
		item := items[i]
		_, err := tx.Exec(ctx, query, item.ID, listID, i, item.Name, item.Category, item.Quantity, item.Notes, item.Checked, item.Source)
		if err != nil {
			return fmt.Errorf("failed to insert grocery item: %w", err)
		}
	}
	return nil
}

func (s *groceryListsStorage) listItems(ctx context.Context, listIDs []string) (map[string][]storage.GroceryItem, error) {
	byList := make(map[string][]storage.GroceryItem, len(listIDs))
	if len(listIDs) == 0 {
		return byList, nil
	}

	query := `
		SELECT list_id::text, id::text, name, category, quantity, notes, checked, source
		FROM grocery_items
		WHERE list_id::text = ANY($1)
		ORDER BY list_id, position ASC
	`
	rows, err := s.pool.Query(ctx, query, listIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to list grocery items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var listID string
		var item storage.GroceryItem
		if err := rows.Scan(&listID, &item.ID, &item.Name, &item.Category, &item.Quantity, &item.Notes, &item.Checked, &item.Source); err != nil {
			return nil, fmt.Errorf("failed to scan grocery item: %w", err)
		}
		byList[listID] = append(byList[listID], item)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating grocery items: %w", rows.Err())
	}
	return byList, nil
}
