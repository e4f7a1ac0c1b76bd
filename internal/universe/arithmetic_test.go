package universe

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/drillbot/pkg/models"
)

func findItem(items []models.Item, key string) (models.Item, bool) {
	for _, it := range items {
		if it.Key == key {
			return it, true
		}
	}
	return models.Item{}, false
}

func TestArithmeticContents(t *testing.T) {
	items := Arithmetic()

	// 100 additions (max sum is 20) plus 45 subtractions with i > j
	assert.Len(t, items, 145)

	_, ok := findItem(items, "3 - 7 = ?")
	assert.False(t, ok)

	sub, ok := findItem(items, "7 - 3 = ?")
	require.True(t, ok)
	assert.Equal(t, "4", sub.Answer)

	add, ok := findItem(items, "10 + 10 = ?")
	require.True(t, ok)
	assert.Equal(t, "20", add.Answer)

	_, ok = findItem(items, "5 - 5 = ?")
	assert.False(t, ok)

	assert.Equal(t, "1 + 1 = ?", items[0].Key)
}

func TestArithmeticIsIdempotent(t *testing.T) {
	first := Arithmetic()
	second := Arithmetic()
	assert.Equal(t, first, second)
	assert.Equal(t, generateArithmetic(), first)
}

func TestArithmeticReturnsCopy(t *testing.T) {
	items := Arithmetic()
	items[0].Key = "changed"
	assert.Equal(t, "1 + 1 = ?", Arithmetic()[0].Key)
}

func TestArithmeticProvider(t *testing.T) {
	items, err := ArithmeticProvider{}.Items(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Arithmetic(), items)
}
