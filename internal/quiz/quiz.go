package quiz

import (
	"math/rand"
	"strconv"
	"strings"

	"github.com/example/drillbot/pkg/models"
)

// Question is an item with the choices offered for it
type Question struct {
	Item         models.Item // The item being asked
	Options      []string    // Possible answers, empty for typed answers
	CorrectIndex int         // Index of the correct answer in Options
}

// Check reports whether answer matches the expected answer of item. Numeric
// answers are compared as integers; everything else ignores case and
// surrounding or repeated spaces.
func Check(item models.Item, answer string) bool {
	want := normalize(item.Answer)
	got := normalize(answer)
	if want == "" || got == "" {
		return false
	}
	if wantN, err := strconv.Atoi(want); err == nil {
		gotN, err := strconv.Atoi(got)
		return err == nil && gotN == wantN
	}
	return got == want
}

func normalize(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

// NewChoiceQuestion builds a multiple-choice question for item with up to
// count wrong options drawn from other items of universe.
func NewChoiceQuestion(item models.Item, universe []models.Item, count int, rnd *rand.Rand) Question {
	options := incorrectOptions(item, universe, count, rnd)

	// Add correct option and shuffle
	options = append(options, item.Answer)
	correctIndex := len(options) - 1
	rnd.Shuffle(len(options), func(i, j int) {
		if i == correctIndex {
			correctIndex = j
		} else if j == correctIndex {
			correctIndex = i
		}
		options[i], options[j] = options[j], options[i]
	})

	return Question{Item: item, Options: options, CorrectIndex: correctIndex}
}

// NewTypedQuestion builds a question answered by typing.
func NewTypedQuestion(item models.Item) Question {
	return Question{Item: item, CorrectIndex: -1}
}

// IsCorrectOption reports whether option index idx is the right answer
func (q Question) IsCorrectOption(idx int) bool {
	return idx >= 0 && idx < len(q.Options) && idx == q.CorrectIndex
}

// incorrectOptions picks distinct answers of other items
func incorrectOptions(item models.Item, universe []models.Item, count int, rnd *rand.Rand) []string {
	candidates := make([]string, 0, len(universe))
	seen := map[string]bool{normalize(item.Answer): true}
	for _, other := range universe {
		key := normalize(other.Answer)
		if other.Key == item.Key || key == "" || seen[key] {
			continue
		}
		seen[key] = true
		candidates = append(candidates, other.Answer)
	}

	rnd.Shuffle(len(candidates), func(i, j int) {
		candidates[i], candidates[j] = candidates[j], candidates[i]
	})
	if len(candidates) > count {
		candidates = candidates[:count]
	}
	return candidates
}
