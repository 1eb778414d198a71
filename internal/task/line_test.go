package task

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeLine(t *testing.T) {
	tests := []struct {
		name string
		task Task
		want string
	}{
		{
			name: "minimal pending task",
			task: Task{Text: "Write spec", Priority: PriorityHigh, Assigned: "ALICE"},
			want: "- [ ] HIGH: Write spec (assigned: ALICE)",
		},
		{
			name: "completed with done date",
			task: Task{Text: "Ship it", Priority: PriorityMedium, Assigned: "BOB", Completed: true, CompletedDate: "2025-02-01"},
			want: "- [x] MEDIUM: Ship it (assigned: BOB) | done: 2025-02-01",
		},
		{
			name: "all optional fields in order",
			task: Task{
				Text:        "Launch",
				Priority:    PriorityLow,
				Assigned:    "CARA",
				DueDate:     "2025-03-01",
				Tags:        []string{"release", "ops"},
				Description: "Final push",
			},
			want: "- [ ] LOW: Launch (assigned: CARA) | due: 2025-03-01 | tags: release, ops | desc: Final push",
		},
		{
			name: "empty assignee falls back to default",
			task: Task{Text: "Orphan", Priority: PriorityMedium},
			want: "- [ ] MEDIUM: Orphan (assigned: UNASSIGNED)",
		},
		{
			name: "pipes escaped in text and description",
			task: Task{Text: "left | right", Priority: PriorityHigh, Assigned: "ALICE", Description: "x|y"},
			want: `- [ ] HIGH: left \| right (assigned: ALICE) | desc: x\|y`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EncodeLine(tt.task))
		})
	}
}

func TestEncodeBlockIncludesSubTasks(t *testing.T) {
	got := EncodeBlock(Task{
		Text:     "Parent",
		Priority: PriorityHigh,
		Assigned: "ALICE",
		SubTasks: []SubTask{
			{Text: "First"},
			{Text: "Second", Completed: true},
		},
	})
	want := "- [ ] HIGH: Parent (assigned: ALICE)\n" +
		"  - [ ] First\n" +
		"  - [x] Second"
	assert.Equal(t, want, got)
}

func TestDecodeDocument(t *testing.T) {
	doc := `# Project: Demo

**Status:** active

## Tasks
- [ ] HIGH: Draft wireframes (assigned: ALICE) | due: 2025-03-01 | tags: design, web
  - [ ] Sketch homepage
  - [x] Collect references
- [ ] MEDIUM: Set up CI (assigned: UNASSIGNED)
plain prose between tasks
  - [ ] orphaned subtask after the break

## Completed
- [x] LOW: Kickoff meeting (assigned: BOB) | done: 2025-01-20`

	tasks := DecodeDocument(doc)
	require.Len(t, tasks, 3)

	first := tasks[0]
	assert.Equal(t, 1, first.ID)
	assert.Equal(t, "Draft wireframes", first.Text)
	assert.Equal(t, PriorityHigh, first.Priority)
	assert.Equal(t, "ALICE", first.Assigned)
	assert.Equal(t, "2025-03-01", first.DueDate)
	assert.Equal(t, []string{"design", "web"}, first.Tags)
	assert.Equal(t, 5, first.Line)
	require.Len(t, first.SubTasks, 2)
	assert.Equal(t, SubTask{ID: 1, Text: "Sketch homepage"}, first.SubTasks[0])
	assert.Equal(t, SubTask{ID: 2, Text: "Collect references", Completed: true}, first.SubTasks[1])

	second := tasks[1]
	assert.Equal(t, 2, second.ID)
	assert.Equal(t, "Set up CI", second.Text)
	assert.Equal(t, 8, second.Line)
	// The prose line ends subtask accumulation, so the indented line after
	// it belongs to nobody.
	assert.Empty(t, second.SubTasks)

	third := tasks[2]
	assert.Equal(t, 3, third.ID)
	assert.True(t, third.Completed)
	assert.Equal(t, "2025-01-20", third.CompletedDate)
	assert.Equal(t, 13, third.Line)
}

func TestDecodeDocumentSkipsMalformedLines(t *testing.T) {
	doc := `- [ ] URGENT: Bad priority (assigned: A)
- [ ] HIGH: Missing assignee
- [] HIGH: Broken checkbox (assigned: A)
- [ ] HIGH: Good one (assigned: A)`

	tasks := DecodeDocument(doc)
	require.Len(t, tasks, 1)
	assert.Equal(t, "Good one", tasks[0].Text)
	assert.Equal(t, 1, tasks[0].ID)
}

func TestDecodeTailDropsUnknownSegments(t *testing.T) {
	tasks := DecodeDocument("- [ ] HIGH: X (assigned: A) | wat: 5 | due: 2025-01-01")
	require.Len(t, tasks, 1)
	assert.Equal(t, "2025-01-01", tasks[0].DueDate)
	assert.Empty(t, tasks[0].Tags)
	assert.Empty(t, tasks[0].Description)
}

func TestDecodeTagsTrimsAndDropsEmpties(t *testing.T) {
	tasks := DecodeDocument("- [ ] HIGH: X (assigned: A) | tags:  alpha , , beta ")
	require.Len(t, tasks, 1)
	assert.Equal(t, []string{"alpha", "beta"}, tasks[0].Tags)
}

func TestRoundTripPreservesFields(t *testing.T) {
	in := Task{
		Text:        "Review | merge the PR",
		Priority:    PriorityMedium,
		Assigned:    "DANA",
		DueDate:     "2025-06-30",
		Tags:        []string{"code|review", "urgent"},
		Description: "See thread | details inside",
		SubTasks: []SubTask{
			{Text: "Read the diff"},
			{Text: "Check CI | logs", Completed: true},
		},
	}

	tasks := DecodeDocument(EncodeBlock(in))
	require.Len(t, tasks, 1)
	got := tasks[0]

	assert.Equal(t, in.Text, got.Text)
	assert.Equal(t, in.Priority, got.Priority)
	assert.Equal(t, in.Assigned, got.Assigned)
	assert.Equal(t, in.DueDate, got.DueDate)
	assert.Equal(t, in.Tags, got.Tags)
	assert.Equal(t, in.Description, got.Description)
	require.Len(t, got.SubTasks, 2)
	assert.Equal(t, in.SubTasks[0].Text, got.SubTasks[0].Text)
	assert.Equal(t, in.SubTasks[1].Text, got.SubTasks[1].Text)
	assert.True(t, got.SubTasks[1].Completed)
}

func TestEscapeUnescape(t *testing.T) {
	assert.Equal(t, `a \| b`, Escape("a | b"))
	assert.Equal(t, "a | b", Unescape(`a \| b`))
	assert.Equal(t, "no pipes", Unescape(Escape("no pipes")))
}

func TestParsePriority(t *testing.T) {
	for _, valid := range []string{"HIGH", "MEDIUM", "LOW"} {
		p, err := ParsePriority(valid)
		require.NoError(t, err)
		assert.Equal(t, Priority(valid), p)
	}
	for _, invalid := range []string{"", "high", "URGENT"} {
		_, err := ParsePriority(invalid)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidPriority)
	}
}

func TestValidate(t *testing.T) {
	valid := Task{Text: "x", Priority: PriorityLow}
	require.NoError(t, valid.Validate())

	empty := Task{Priority: PriorityLow}
	assert.ErrorIs(t, empty.Validate(), ErrEmptyText)

	badPrio := Task{Text: "x", Priority: "SOMEDAY"}
	assert.ErrorIs(t, badPrio.Validate(), ErrInvalidPriority)
}
