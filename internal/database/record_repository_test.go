package database

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/drillbot/pkg/models"
)

func TestRecordRepositoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := NewRecordRepository(openTestDB(t))

	empty, err := repo.Load(ctx, "math:1")
	require.NoError(t, err)
	assert.Empty(t, empty)

	last := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)
	next := last.Add(30 * time.Minute)
	store := models.RecordStore{
		"3 + 4 = ?": {TotalAttempts: 2, CorrectAttempts: 1, WrongAttempts: 1, ReviewStage: 1, LastAttemptTime: &last, NextReviewTime: &next},
	}
	require.NoError(t, repo.Save(ctx, "math:1", store))

	loaded, err := repo.Load(ctx, "math:1")
	require.NoError(t, err)
	require.Contains(t, loaded, "3 + 4 = ?")
	rec := loaded["3 + 4 = ?"]
	assert.Equal(t, 2, rec.TotalAttempts)
	assert.Equal(t, 1, rec.ReviewStage)
	assert.True(t, next.Equal(*rec.NextReviewTime))
	assert.True(t, last.Equal(*rec.LastAttemptTime))

	store["3 + 4 = ?"].TotalAttempts = 3
	store["3 + 4 = ?"].CorrectAttempts = 2
	require.NoError(t, repo.Save(ctx, "math:1", store))
	loaded, err = repo.Load(ctx, "math:1")
	require.NoError(t, err)
	assert.Equal(t, 3, loaded["3 + 4 = ?"].TotalAttempts)

	other, err := repo.Load(ctx, "math:2")
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestRecordRepositoryClear(t *testing.T) {
	ctx := context.Background()
	repo := NewRecordRepository(openTestDB(t))

	require.NoError(t, repo.Save(ctx, "english:1", models.RecordStore{"cat": {TotalAttempts: 1, CorrectAttempts: 1}}))
	require.NoError(t, repo.Clear(ctx, "english:1"))

	loaded, err := repo.Load(ctx, "english:1")
	require.NoError(t, err)
	assert.Empty(t, loaded)
}

func TestRecordRepositoryCorruptDocument(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	_, err := db.Exec("INSERT INTO review_records (domain_key, document) VALUES (?, ?)", "chinese:1", "{not json")
	require.NoError(t, err)

	loaded, err := NewRecordRepository(db).Load(ctx, "chinese:1")
	require.NoError(t, err)
	assert.Empty(t, loaded)
}

func TestDecodeRecordsDropsInvalidEntries(t *testing.T) {
	doc := `{
		"good":     {"totalAttempts": 3, "correctAttempts": 2, "wrongAttempts": 1, "reviewStage": 2, "lastAttemptTime": null, "nextReviewTime": "2025-06-15T10:30:00Z"},
		"counts":   {"totalAttempts": 3, "correctAttempts": 2, "wrongAttempts": 0, "reviewStage": 1},
		"stage":    {"totalAttempts": 1, "correctAttempts": 1, "wrongAttempts": 0, "reviewStage": 8},
		"negative": {"totalAttempts": -1, "correctAttempts": 0, "wrongAttempts": -1, "reviewStage": 0},
		"type":     {"totalAttempts": "three"},
		"time":     {"totalAttempts": 0, "nextReviewTime": "tomorrow"},
		"null":     null
	}`

	store := DecodeRecords("chinese:1", []byte(doc))

	require.Len(t, store, 1)
	require.Contains(t, store, "good")
	assert.Nil(t, store["good"].LastAttemptTime)
	assert.Equal(t, time.Date(2025, 6, 15, 10, 30, 0, 0, time.UTC), store["good"].NextReviewTime.UTC())
}

func TestRecordRepositoryListKeys(t *testing.T) {
	ctx := context.Background()
	repo := NewRecordRepository(openTestDB(t))

	for _, key := range []string{"math:2", "chinese:1", "math:1", "math_x:1", "mathyx:1"} {
		require.NoError(t, repo.Save(ctx, key, models.RecordStore{}))
	}

	keys, err := repo.ListKeys(ctx, "math:")
	require.NoError(t, err)
	assert.Equal(t, []string{"math:1", "math:2"}, keys)

	// "_" and "%" in a prefix match literally
	keys, err = repo.ListKeys(ctx, "math_")
	require.NoError(t, err)
	assert.Equal(t, []string{"math_x:1"}, keys)

	keys, err = repo.ListKeys(ctx, "%")
	require.NoError(t, err)
	assert.Empty(t, keys)

	all, err := repo.ListKeys(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 5)
}
