package project

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDoc = `# Project: Site Redesign

**Description:** Refresh the marketing site
**Created:** 2025-01-15
**Status:** active

## Tasks
- [ ] HIGH: Draft wireframes (assigned: ALICE)
- [x] MEDIUM: Pick a palette (assigned: BOB)

## Completed
`

func TestParse(t *testing.T) {
	p := Parse(sampleDoc, "site-redesign")

	assert.Equal(t, "Site Redesign", p.Name)
	assert.Equal(t, "site-redesign", p.Slug)
	assert.Equal(t, "Refresh the marketing site", p.Description)
	assert.Equal(t, "2025-01-15", p.Created)
	assert.Equal(t, StatusActive, p.Status)
	require.Len(t, p.Tasks, 2)
	assert.Equal(t, 1, p.Pending())
	assert.Equal(t, 1, p.Completed())
}

func TestParseCompletedStatus(t *testing.T) {
	doc := "# Project: Done\n\n**Status:** completed\n\n## Tasks\n\n## Completed\n"
	p := Parse(doc, "done")
	assert.Equal(t, StatusCompleted, p.Status)
}

func TestParseMissingMetadata(t *testing.T) {
	p := Parse("## Tasks\n\n## Completed\n", "bare-bones")
	assert.Equal(t, "Bare Bones", p.Name)
	assert.Empty(t, p.Description)
	assert.Empty(t, p.Created)
	assert.Equal(t, StatusActive, p.Status)
	assert.Empty(t, p.Tasks)
}

func TestParseIsPure(t *testing.T) {
	a := Parse(sampleDoc, "site-redesign")
	b := Parse(sampleDoc, "site-redesign")
	assert.Equal(t, a, b)
}

func TestTaskLookup(t *testing.T) {
	p := Parse(sampleDoc, "site-redesign")

	got := p.Task(2)
	require.NotNil(t, got)
	assert.Equal(t, "Pick a palette", got.Text)

	assert.Nil(t, p.Task(99))
}

func TestNewDocument(t *testing.T) {
	now := time.Date(2025, 1, 15, 9, 30, 0, 0, time.UTC)
	got := NewDocument("Site Redesign", "Refresh the marketing site", now)

	want := "# Project: Site Redesign\n\n" +
		"**Description:** Refresh the marketing site\n" +
		"**Created:** 2025-01-15\n" +
		"**Status:** active\n\n" +
		"## Tasks\n\n" +
		"## Completed\n"
	assert.Equal(t, want, got)
}

func TestNewDocumentRoundTrips(t *testing.T) {
	now := time.Date(2025, 4, 2, 0, 0, 0, 0, time.UTC)
	p := Parse(NewDocument("Garden Shed", "Build it", now), "garden-shed")

	assert.Equal(t, "Garden Shed", p.Name)
	assert.Equal(t, "Build it", p.Description)
	assert.Equal(t, "2025-04-02", p.Created)
	assert.Equal(t, StatusActive, p.Status)
	assert.Empty(t, p.Tasks)
}

func TestTitleFromSlug(t *testing.T) {
	tests := []struct {
		slug string
		want string
	}{
		{"site-redesign", "Site Redesign"},
		{"my_project", "My Project"},
		{"single", "Single"},
		{"a-b-c", "A B C"},
		{"über-plan", "Über Plan"},
		{"日本-trip", "日本 Trip"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, TitleFromSlug(tt.slug))
	}
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"Site Redesign", "site-redesign"},
		{"  Spaces  Everywhere  ", "spaces-everywhere"},
		{"Q3 Launch!!!", "q3-launch"},
		{"---", ""},
		{"Already-Slugged", "already-slugged"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Slugify(tt.name))
	}
}
