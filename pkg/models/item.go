package models

// Item is a single flashcard or drill problem. Items are immutable once built.
type Item struct {
	Key           string `json:"key" db:"item_key"`                // Display string, also the record key ("3 + 4 = ?", "水", "apple")
	Answer        string `json:"answer" db:"answer"`               // Expected answer
	Pronunciation string `json:"pronunciation" db:"pronunciation"` // Pinyin or IPA, optional
	Translation   string `json:"translation" db:"translation"`     // Meaning in the learner's language, optional
	Example       string `json:"example" db:"example"`             // Example sentence, optional
}
