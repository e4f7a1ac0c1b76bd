package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"log"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/example/drillbot/internal/spaced_repetition"
	"github.com/example/drillbot/pkg/models"
)

// RecordRepository persists review record stores as JSON documents keyed by
// domain key.
type RecordRepository struct {
	db *sqlx.DB
}

// NewRecordRepository creates a new repository instance
func NewRecordRepository(db *sqlx.DB) *RecordRepository {
	return &RecordRepository{db: db}
}

// Load returns the records saved under domainKey. A missing or unreadable
// document gives an empty store; invalid entries are dropped.
func (r *RecordRepository) Load(ctx context.Context, domainKey string) (models.RecordStore, error) {
	var document string
	err := r.db.GetContext(ctx, &document,
		r.db.Rebind("SELECT document FROM review_records WHERE domain_key = ?"), domainKey)
	if errors.Is(err, sql.ErrNoRows) {
		return models.RecordStore{}, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load records for %s", domainKey)
	}
	return DecodeRecords(domainKey, []byte(document)), nil
}

// Save replaces the document stored under domainKey.
func (r *RecordRepository) Save(ctx context.Context, domainKey string, records models.RecordStore) error {
	if records == nil {
		records = models.RecordStore{}
	}
	document, err := json.Marshal(records)
	if err != nil {
		return errors.Wrap(err, "failed to encode records")
	}

	query := r.db.Rebind(`
		INSERT INTO review_records (domain_key, document, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT (domain_key) DO UPDATE SET
			document = excluded.document,
			updated_at = CURRENT_TIMESTAMP
	`)
	if _, err := r.db.ExecContext(ctx, query, domainKey, string(document)); err != nil {
		return errors.Wrapf(err, "failed to save records for %s", domainKey)
	}
	return nil
}

// Clear deletes every record saved under domainKey.
func (r *RecordRepository) Clear(ctx context.Context, domainKey string) error {
	_, err := r.db.ExecContext(ctx,
		r.db.Rebind("DELETE FROM review_records WHERE domain_key = ?"), domainKey)
	if err != nil {
		return errors.Wrapf(err, "failed to clear records for %s", domainKey)
	}
	return nil
}

// ListKeys returns the stored domain keys starting with prefix, sorted.
func (r *RecordRepository) ListKeys(ctx context.Context, prefix string) ([]string, error) {
	keys := []string{}
	query := r.db.Rebind(`SELECT domain_key FROM review_records WHERE domain_key LIKE ? ESCAPE '\' ORDER BY domain_key`)
	if err := r.db.SelectContext(ctx, &keys, query, likeEscaper.Replace(prefix)+"%"); err != nil {
		return nil, errors.Wrap(err, "failed to list record keys")
	}
	return keys, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

// DecodeRecords parses a stored document entry by entry. Entries that fail to
// decode or validate are left out so the item counts as unseen.
func DecodeRecords(domainKey string, document []byte) models.RecordStore {
	store := models.RecordStore{}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(document, &raw); err != nil {
		log.Printf("Discarding unreadable records document %s: %v", domainKey, err)
		return store
	}

	for key, entry := range raw {
		if string(entry) == "null" {
			continue
		}
		var rec models.ReviewRecord
		if err := json.Unmarshal(entry, &rec); err != nil {
			log.Printf("Dropping record %q in %s: %v", key, domainKey, err)
			continue
		}
		if err := rec.Validate(spaced_repetition.StageCount); err != nil {
			log.Printf("Dropping record %q in %s: %v", key, domainKey, err)
			continue
		}
		store[key] = &rec
	}
	return store
}
