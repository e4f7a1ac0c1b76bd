package cmd

import (
	"bytes"
	"context"
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/drillbot/internal/quiz"
	"github.com/example/drillbot/internal/session"
	"github.com/example/drillbot/internal/spaced_repetition"
	"github.com/example/drillbot/internal/universe"
	"github.com/example/drillbot/pkg/models"
)

type memoryRecords map[string]models.RecordStore

func (m memoryRecords) Load(_ context.Context, key string) (models.RecordStore, error) {
	return m[key], nil
}

func (m memoryRecords) Save(_ context.Context, key string, records models.RecordStore) error {
	m[key] = records
	return nil
}

type staticItems []models.Item

func (s staticItems) Items(context.Context) ([]models.Item, error) {
	return s, nil
}

func newPracticeSession(t *testing.T, mode universe.AnswerMode, records memoryRecords, items ...models.Item) *session.Session {
	t.Helper()
	d := universe.Domain{
		Key:        "test",
		Title:      "Test deck",
		Weights:    spaced_repetition.DueWeights(),
		Recorder:   spaced_repetition.DefaultRecorderConfig(),
		AnswerMode: mode,
		Provider:   staticItems(items),
	}
	sess, err := session.New(context.Background(), d, "test:0", records, session.Options{MinSample: 1})
	require.NoError(t, err)
	return sess
}

func TestRunPracticeTypedUntilRest(t *testing.T) {
	records := memoryRecords{}
	sess := newPracticeSession(t, universe.Typed, records, models.Item{Key: "1 + 1 = ?", Answer: "2"})

	var out bytes.Buffer
	err := runPractice(context.Background(), sess, strings.NewReader("2\n"), &out, rand.New(rand.NewSource(1)))
	require.NoError(t, err)

	assert.Contains(t, out.String(), "1 + 1 = ?")
	assert.Contains(t, out.String(), "✅ Correct! Stage 2 of 8.")
	assert.Contains(t, out.String(), "Come back at")
	assert.Equal(t, 1, records["test:0"]["1 + 1 = ?"].CorrectAttempts)
}

func TestRunPracticeWrongAnswerThenQuit(t *testing.T) {
	records := memoryRecords{}
	sess := newPracticeSession(t, universe.Typed, records,
		models.Item{Key: "3 - 1 = ?", Answer: "2"},
		models.Item{Key: "4 - 2 = ?", Answer: "2"},
	)

	var out bytes.Buffer
	err := runPractice(context.Background(), sess, strings.NewReader("5\nq\n"), &out, rand.New(rand.NewSource(1)))
	require.NoError(t, err)

	assert.Contains(t, out.String(), "❌ The answer is 2. Stage 1 of 8.")
	assert.Contains(t, out.String(), "Accuracy:  0% of 1 answers")
	assert.NotContains(t, out.String(), "Come back")
	assert.Len(t, records["test:0"], 1)
}

func TestRunPracticeEndOfInput(t *testing.T) {
	sess := newPracticeSession(t, universe.Typed, memoryRecords{}, models.Item{Key: "a", Answer: "b"})

	var out bytes.Buffer
	require.NoError(t, runPractice(context.Background(), sess, strings.NewReader(""), &out, rand.New(rand.NewSource(1))))
	assert.Contains(t, out.String(), "Items:     1")
}

func TestIsCorrectInput(t *testing.T) {
	q := quiz.Question{
		Item:         models.Item{Key: "水", Answer: "water"},
		Options:      []string{"water", "fire", "mountain"},
		CorrectIndex: 0,
	}
	assert.True(t, isCorrectInput(q, "1"))
	assert.False(t, isCorrectInput(q, "2"))
	assert.True(t, isCorrectInput(q, " Water "))
	assert.False(t, isCorrectInput(q, "9"))

	typed := quiz.NewTypedQuestion(models.Item{Key: "2 + 2 = ?", Answer: "4"})
	assert.True(t, isCorrectInput(typed, "4"))
	assert.False(t, isCorrectInput(typed, "1"))
}
