package ragcontext

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildPreservesRankOrder(t *testing.T) {
	docs := []Document{
		{Title: "Most relevant", Summary: "summary one", Score: 0.9},
		{Title: "Second", Summary: "summary two", Score: 0.7},
		{Title: "Third", Summary: "summary three", Score: 0.6},
	}

	got := Build(docs, 0)

	first := strings.Index(got, "Most relevant")
	second := strings.Index(got, "Second")
	third := strings.Index(got, "Third")
	assert.True(t, first >= 0 && second > first && third > second)
}

func TestBuildRespectsCharacterBudget(t *testing.T) {
	long := strings.Repeat("x", 300)
	docs := []Document{
		{Title: "One", Summary: long},
		{Title: "Two", Summary: long},
		{Title: "Three", Summary: long},
	}

	got := Build(docs, 400)

	assert.LessOrEqual(t, len(got), 400)
	assert.Contains(t, got, "One")
	assert.NotContains(t, got, "Three")
}

func TestBuildEmptyHits(t *testing.T) {
	assert.Equal(t, "", Build(nil, 1000))
}
