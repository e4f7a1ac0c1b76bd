package database

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/example/drillbot/pkg/models"
)

// ItemRepository handles database operations for imported deck items
type ItemRepository struct {
	db *sqlx.DB
}

// NewItemRepository creates a new repository instance
func NewItemRepository(db *sqlx.DB) *ItemRepository {
	return &ItemRepository{db: db}
}

// GetByDomain returns the deck of a domain in import order
func (r *ItemRepository) GetByDomain(ctx context.Context, domain string) ([]models.Item, error) {
	var items []models.Item
	query := r.db.Rebind(`
		SELECT item_key, answer, pronunciation, translation, example
		FROM items
		WHERE domain = ?
		ORDER BY position ASC
	`)
	if err := r.db.SelectContext(ctx, &items, query, domain); err != nil {
		return nil, errors.Wrapf(err, "failed to get %s items", domain)
	}
	return items, nil
}

// Count returns the number of items imported for a domain
func (r *ItemRepository) Count(ctx context.Context, domain string) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, r.db.Rebind("SELECT COUNT(*) FROM items WHERE domain = ?"), domain)
	if err != nil {
		return 0, errors.Wrapf(err, "failed to count %s items", domain)
	}
	return count, nil
}

// ReplaceDeck swaps the deck of a domain for items, keeping their order.
// Later duplicates of a key are ignored.
func (r *ItemRepository) ReplaceDeck(ctx context.Context, domain string, items []models.Item) (int, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, errors.Wrap(err, "failed to begin transaction")
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, tx.Rebind("DELETE FROM items WHERE domain = ?"), domain); err != nil {
		return 0, errors.Wrapf(err, "failed to delete %s items", domain)
	}

	insert := tx.Rebind(`
		INSERT INTO items (domain, position, item_key, answer, pronunciation, translation, example)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	seen := make(map[string]bool, len(items))
	inserted := 0
	for _, item := range items {
		if item.Key == "" || seen[item.Key] {
			continue
		}
		seen[item.Key] = true
		_, err := tx.ExecContext(ctx, insert,
			domain, inserted, item.Key, item.Answer, item.Pronunciation, item.Translation, item.Example)
		if err != nil {
			return 0, errors.Wrapf(err, "failed to insert item %q", item.Key)
		}
		inserted++
	}

	if err := tx.Commit(); err != nil {
		return 0, errors.Wrap(err, "failed to commit deck")
	}
	return inserted, nil
}
