package universe

import (
	"context"
	"log"

	"github.com/example/drillbot/pkg/models"
)

// DeckSource loads imported deck items for a domain, in deck order.
type DeckSource interface {
	GetByDomain(ctx context.Context, domain string) ([]models.Item, error)
}

// DeckProvider serves a static deck. Items imported into the source win over
// the built-in fallback deck.
type DeckProvider struct {
	Domain   string
	Source   DeckSource
	Fallback []models.Item
}

// Items returns the imported deck, or the fallback when nothing was imported
// or the source fails.
func (p DeckProvider) Items(ctx context.Context) ([]models.Item, error) {
	if p.Source != nil {
		items, err := p.Source.GetByDomain(ctx, p.Domain)
		if err != nil {
			log.Printf("Error loading %s deck, using built-in deck: %v", p.Domain, err)
		} else if len(items) > 0 {
			return items, nil
		}
	}
	out := make([]models.Item, len(p.Fallback))
	copy(out, p.Fallback)
	return out, nil
}

// ChineseDeck is the built-in starter set of characters.
var ChineseDeck = []models.Item{
	{Key: "一", Answer: "one", Pronunciation: "yī", Translation: "one", Example: "一个苹果"},
	{Key: "二", Answer: "two", Pronunciation: "èr", Translation: "two", Example: "二月"},
	{Key: "三", Answer: "three", Pronunciation: "sān", Translation: "three", Example: "三只猫"},
	{Key: "人", Answer: "person", Pronunciation: "rén", Translation: "person", Example: "大人"},
	{Key: "大", Answer: "big", Pronunciation: "dà", Translation: "big", Example: "大山"},
	{Key: "小", Answer: "small", Pronunciation: "xiǎo", Translation: "small", Example: "小鸟"},
	{Key: "山", Answer: "mountain", Pronunciation: "shān", Translation: "mountain", Example: "高山"},
	{Key: "水", Answer: "water", Pronunciation: "shuǐ", Translation: "water", Example: "喝水"},
	{Key: "火", Answer: "fire", Pronunciation: "huǒ", Translation: "fire", Example: "火车"},
	{Key: "日", Answer: "sun", Pronunciation: "rì", Translation: "sun, day", Example: "日出"},
	{Key: "月", Answer: "moon", Pronunciation: "yuè", Translation: "moon, month", Example: "月亮"},
	{Key: "口", Answer: "mouth", Pronunciation: "kǒu", Translation: "mouth", Example: "门口"},
}

// EnglishDeck is the built-in starter set of vocabulary.
var EnglishDeck = []models.Item{
	{Key: "apple", Answer: "苹果", Pronunciation: "/ˈæp.əl/", Translation: "苹果", Example: "I eat an apple every day."},
	{Key: "book", Answer: "书", Pronunciation: "/bʊk/", Translation: "书", Example: "This book is about cats."},
	{Key: "cat", Answer: "猫", Pronunciation: "/kæt/", Translation: "猫", Example: "The cat is sleeping."},
	{Key: "dog", Answer: "狗", Pronunciation: "/dɒɡ/", Translation: "狗", Example: "My dog likes to run."},
	{Key: "egg", Answer: "鸡蛋", Pronunciation: "/eɡ/", Translation: "鸡蛋", Example: "She has an egg for breakfast."},
	{Key: "fish", Answer: "鱼", Pronunciation: "/fɪʃ/", Translation: "鱼", Example: "The fish swims fast."},
	{Key: "green", Answer: "绿色", Pronunciation: "/ɡriːn/", Translation: "绿色", Example: "The grass is green."},
	{Key: "house", Answer: "房子", Pronunciation: "/haʊs/", Translation: "房子", Example: "We live in a big house."},
	{Key: "milk", Answer: "牛奶", Pronunciation: "/mɪlk/", Translation: "牛奶", Example: "Drink your milk."},
	{Key: "sun", Answer: "太阳", Pronunciation: "/sʌn/", Translation: "太阳", Example: "The sun is hot."},
}
