package words

import (
	"context"
	"errors"
	"io/fs"
	"strings"
	"testing"
	"testing/fstest"
)

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"categories.json": {Data: []byte(`{"categories":[{"slug":"animals","label":"Animals","path":"animals"}]}`)},
		"animals/topics.json": {Data: []byte(`{"category":"animals","topics":["mammals","birds"]}`)},
		"animals/label_topics.json": {Data: []byte(`{"category":"animals","topics":[{"slug":"mammals","label":"Mammals"}]}`)},
		"animals/mammals_easy.json": {Data: []byte(`{"topic":"mammals","difficulty":"easy","words":["CAT","DOG"]}`)},
		"animals/mammals_medium.json": {Data: []byte(`{"topic":"mammals","difficulty":"medium"}`)},
		"animals/mammals_facts.json": {Data: []byte(`{"category":"animals","topic":"mammals","facts":["Bats fly."]}`)},
		"animals/birds_easy.json": {Data: []byte(`{"topic":"birds","difficulty":"easy","words":"oops"}`)},
	}
}

func TestCacheReadsDocuments(t *testing.T) {
	ctx := context.Background()
	c := NewCache(testFS())

	cat, err := c.Category(ctx, "animals")
	if err != nil || cat.Label != "Animals" {
		t.Fatalf("Category = %+v, %v", cat, err)
	}
	topics, err := c.TopicSlugs(ctx, "animals")
	if err != nil || len(topics) != 2 {
		t.Fatalf("TopicSlugs = %v, %v", topics, err)
	}
	words, err := c.TopicWords(ctx, "animals", "mammals", Easy)
	if err != nil || len(words) != 2 {
		t.Fatalf("TopicWords = %v, %v", words, err)
	}
	facts, err := c.TopicFacts(ctx, "animals", "mammals")
	if err != nil || len(facts) != 1 {
		t.Fatalf("TopicFacts = %v, %v", facts, err)
	}
	labels, err := c.TopicLabels(ctx, "animals")
	if err != nil {
		t.Fatal(err)
	}
	if got := ResolveTopicLabel(labels, "mammals"); got != "Mammals" {
		t.Fatalf("label = %q", got)
	}
	if got := ResolveTopicLabel(labels, "birds"); got != "birds" {
		t.Fatalf("fallback label = %q", got)
	}
}

func TestCacheErrors(t *testing.T) {
	ctx := context.Background()
	c := NewCache(testFS())

	if _, err := c.Category(ctx, "plants"); !errors.Is(err, ErrUnknownCategory) {
		t.Fatalf("expected ErrUnknownCategory, got %v", err)
	}
	if _, err := c.TopicWords(ctx, "animals", "mammals", Hard); !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected fs.ErrNotExist for missing tier, got %v", err)
	}
	_, err := c.TopicWords(ctx, "animals", "mammals", Medium)
	if err == nil || !strings.Contains(err.Error(), "words is not a string array") {
		t.Fatalf("expected shape error, got %v", err)
	}
	if _, err := c.TopicWords(ctx, "animals", "birds", Easy); err == nil {
		t.Fatal("expected decode error for mistyped words")
	}

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	if _, err := c.Categories(cancelled); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestEmbeddedWordcache(t *testing.T) {
	t.Setenv("WORDCACHE_DIR", "")
	c, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	cats, err := c.Categories(context.Background())
	if err != nil || len(cats) == 0 {
		t.Fatalf("embedded categories = %v, %v", cats, err)
	}
	for _, cat := range cats {
		topics, err := c.TopicSlugs(context.Background(), cat.Slug)
		if err != nil || len(topics) == 0 {
			t.Fatalf("%s topics = %v, %v", cat.Slug, topics, err)
		}
		for _, topic := range topics {
			for _, d := range []Difficulty{Easy, Medium} {
				if _, err := c.TopicWords(context.Background(), cat.Slug, topic, d); err != nil {
					t.Fatalf("%s/%s %s: %v", cat.Slug, topic, d, err)
				}
			}
		}
	}
}
