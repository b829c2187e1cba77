// internal/words/cache.go
//
// Word cache: the category/topic/word/fact documents puzzles are built from.
//
// Layout (relative to the cache root):
//   categories.json                    {"categories":[{"slug","label","path"}]}
//   <category>/topics.json             {"category","topics":["slug",...]}
//   <category>/label_topics.json       {"category","topics":[{"slug","label"}]}
//   <category>/<topic>_<difficulty>.json  {"topic","difficulty","words":[...]}
//   <category>/<topic>_facts.json      {"category","topic","facts":[...]}
//
// Source selection (FromEnv):
//   1. WORDCACHE_DIR set → read that directory.
//   2. Otherwise → the small dataset embedded in the assets package.
//
// Every document is shape-checked on first read and memoized afterwards.
package words

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sync"

	"github.com/robalobadob/wordsearch/assets"
)

// ErrUnknownCategory is returned when a category slug is not in categories.json.
var ErrUnknownCategory = errors.New("words: unknown category")

// Category is one entry of categories.json.
type Category struct {
	Slug  string `json:"slug"`
	Label string `json:"label"`
	Path  string `json:"path"`
}

// TopicLabel maps a topic slug to its display label.
type TopicLabel struct {
	Slug  string `json:"slug"`
	Label string `json:"label"`
}

type categoriesDoc struct {
	Categories []Category `json:"categories"`
}

type topicsDoc struct {
	Category string   `json:"category"`
	Topics   []string `json:"topics"`
}

type labelTopicsDoc struct {
	Category string       `json:"category"`
	Topics   []TopicLabel `json:"topics"`
}

type topicWordsDoc struct {
	Topic      string   `json:"topic"`
	Difficulty string   `json:"difficulty"`
	Words      []string `json:"words"`
}

type topicFactsDoc struct {
	Category string   `json:"category"`
	Topic    string   `json:"topic"`
	Facts    []string `json:"facts"`
}

// Cache reads word cache documents from an fs.FS. Safe for concurrent use.
type Cache struct {
	fsys fs.FS
	mu   sync.RWMutex
	docs map[string]any // keyed by document path
}

// NewCache wraps fsys.
func NewCache(fsys fs.FS) *Cache {
	return &Cache{fsys: fsys, docs: make(map[string]any)}
}

// FromEnv opens WORDCACHE_DIR when set, else the embedded dataset.
func FromEnv() (*Cache, error) {
	if dir := os.Getenv("WORDCACHE_DIR"); dir != "" {
		if st, err := os.Stat(dir); err != nil {
			return nil, fmt.Errorf("words: wordcache dir: %w", err)
		} else if !st.IsDir() {
			return nil, fmt.Errorf("words: wordcache dir %s is not a directory", dir)
		}
		return NewCache(os.DirFS(dir)), nil
	}
	fsys, err := assets.Wordcache()
	if err != nil {
		return nil, err
	}
	return NewCache(fsys), nil
}

// load decodes and validates one document, memoizing the result.
func load[T any](ctx context.Context, c *Cache, name string, validate func(*T) error) (*T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c.mu.RLock()
	if d, ok := c.docs[name]; ok {
		c.mu.RUnlock()
		return d.(*T), nil
	}
	c.mu.RUnlock()

	raw, err := fs.ReadFile(c.fsys, name)
	if err != nil {
		return nil, fmt.Errorf("words: read %s: %w", name, err)
	}
	doc := new(T)
	if err := json.Unmarshal(raw, doc); err != nil {
		return nil, fmt.Errorf("words: decode %s: %w", name, err)
	}
	if err := validate(doc); err != nil {
		return nil, fmt.Errorf("words: invalid data in %s: %w", name, err)
	}

	c.mu.Lock()
	c.docs[name] = doc
	c.mu.Unlock()
	return doc, nil
}

// Categories lists every category.
func (c *Cache) Categories(ctx context.Context) ([]Category, error) {
	doc, err := load(ctx, c, "categories.json", func(d *categoriesDoc) error {
		if d.Categories == nil {
			return errors.New("categories is not an array")
		}
		for _, cat := range d.Categories {
			if cat.Slug == "" || cat.Label == "" {
				return errors.New("categories entries are invalid")
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return doc.Categories, nil
}

// Category looks up one category by slug.
func (c *Cache) Category(ctx context.Context, slug string) (Category, error) {
	cats, err := c.Categories(ctx)
	if err != nil {
		return Category{}, err
	}
	for _, cat := range cats {
		if cat.Slug == slug {
			return cat, nil
		}
	}
	return Category{}, fmt.Errorf("%w: %q", ErrUnknownCategory, slug)
}

// TopicSlugs lists the topics of a category.
func (c *Cache) TopicSlugs(ctx context.Context, category string) ([]string, error) {
	doc, err := load(ctx, c, path.Join(category, "topics.json"), func(d *topicsDoc) error {
		if d.Category == "" {
			return errors.New("category is missing")
		}
		if d.Topics == nil {
			return errors.New("topics is not a string array")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return doc.Topics, nil
}

// TopicLabels lists display labels for a category's topics.
func (c *Cache) TopicLabels(ctx context.Context, category string) ([]TopicLabel, error) {
	doc, err := load(ctx, c, path.Join(category, "label_topics.json"), func(d *labelTopicsDoc) error {
		if d.Category == "" {
			return errors.New("category is missing")
		}
		for _, t := range d.Topics {
			if t.Slug == "" || t.Label == "" {
				return errors.New("topics entries are invalid")
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return doc.Topics, nil
}

// TopicWords returns the word pool for one topic and difficulty.
func (c *Cache) TopicWords(ctx context.Context, category, topic string, d Difficulty) ([]string, error) {
	name := path.Join(category, topic+"_"+string(d)+".json")
	doc, err := load(ctx, c, name, func(d *topicWordsDoc) error {
		switch {
		case d.Topic == "":
			return errors.New("topic is missing")
		case d.Difficulty == "":
			return errors.New("difficulty is missing")
		case d.Words == nil:
			return errors.New("words is not a string array")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return doc.Words, nil
}

// TopicFacts returns the trivia lines for a topic.
func (c *Cache) TopicFacts(ctx context.Context, category, topic string) ([]string, error) {
	doc, err := load(ctx, c, path.Join(category, topic+"_facts.json"), func(d *topicFactsDoc) error {
		switch {
		case d.Category == "":
			return errors.New("category is missing")
		case d.Topic == "":
			return errors.New("topic is missing")
		case d.Facts == nil:
			return errors.New("facts is not a string array")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return doc.Facts, nil
}

// ResolveTopicLabel returns the label for slug, or slug itself.
func ResolveTopicLabel(labels []TopicLabel, slug string) string {
	for _, t := range labels {
		if t.Slug == slug {
			return t.Label
		}
	}
	return slug
}
