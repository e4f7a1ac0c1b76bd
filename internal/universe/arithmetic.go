package universe

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"github.com/example/drillbot/pkg/models"
)

// Operand range for generated arithmetic facts.
const (
	MinOperand = 1
	MaxOperand = 10
	MaxSum     = 20
)

var (
	arithmeticOnce  sync.Once
	arithmeticItems []models.Item
)

// Arithmetic returns every addition fact with a sum up to MaxSum and every
// subtraction fact with a positive result, for operands in
// [MinOperand, MaxOperand]. The list is generated once; callers get a copy.
func Arithmetic() []models.Item {
	arithmeticOnce.Do(func() {
		arithmeticItems = generateArithmetic()
	})
	out := make([]models.Item, len(arithmeticItems))
	copy(out, arithmeticItems)
	return out
}

func generateArithmetic() []models.Item {
	var out []models.Item
	for i := MinOperand; i <= MaxOperand; i++ {
		for j := MinOperand; j <= MaxOperand; j++ {
			if i+j <= MaxSum {
				out = append(out, models.Item{
					Key:    fmt.Sprintf("%d + %d = ?", i, j),
					Answer: strconv.Itoa(i + j),
				})
			}
			if i > j {
				out = append(out, models.Item{
					Key:    fmt.Sprintf("%d - %d = ?", i, j),
					Answer: strconv.Itoa(i - j),
				})
			}
		}
	}
	return out
}

// ArithmeticProvider serves the generated arithmetic universe.
type ArithmeticProvider struct{}

// Items returns Arithmetic().
func (ArithmeticProvider) Items(context.Context) ([]models.Item, error) {
	return Arithmetic(), nil
}
