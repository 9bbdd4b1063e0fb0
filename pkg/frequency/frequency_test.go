package frequency_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rbxtools/reactls/pkg/frequency"
)

func vocabOf(terms ...string) func(string) bool {
	set := make(map[string]bool, len(terms))
	for _, term := range terms {
		set[term] = true
	}
	return func(term string) bool { return set[term] }
}

func TestUpdate(t *testing.T) {
	table := frequency.NewTable()
	vocab := vocabOf("Size", "Position")

	table.Update("Size = 1, Position = 2, Size = 3, Rotation = 4", 1, vocab)

	assert.Equal(t, 2, table.Count("Size"))
	assert.Equal(t, 1, table.Count("Position"))
	assert.Equal(t, 0, table.Count("Rotation"), "out-of-vocabulary terms are not tracked")
}

func TestUpdateMultiplier(t *testing.T) {
	table := frequency.NewTable()
	vocab := vocabOf("Frame")

	table.Update("Frame", 3, vocab)
	table.Update("Frame", 1, vocab)

	assert.Equal(t, 4, table.Count("Frame"))
}

func TestUpdateTokenizesOnNonLetters(t *testing.T) {
	table := frequency.NewTable()
	vocab := vocabOf("Frame", "Size")

	table.Update(`React.createElement("Frame", { Size = UDim2.new(0, 1) })`, 1, vocab)

	assert.Equal(t, 1, table.Count("Frame"))
	assert.Equal(t, 1, table.Count("Size"))
}

func TestRank(t *testing.T) {
	tests := []struct {
		name string
		seen string
		in   []string
		want []string
	}{
		{
			name: "frequency_first",
			seen: "Frame Frame Button",
			in:   []string{"Button", "Frame", "Part"},
			want: []string{"Frame", "Button", "Part"},
		},
		{
			name: "length_breaks_frequency_ties",
			seen: "",
			in:   []string{"Part", "ScreenGui", "Frame"},
			want: []string{"ScreenGui", "Frame", "Part"},
		},
		{
			name: "lexicographic_final_tiebreak",
			seen: "",
			in:   []string{"Sound", "Frame", "Decal"},
			want: []string{"Decal", "Frame", "Sound"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table := frequency.NewTable()
			table.Update(tt.seen, 1, vocabOf(tt.in...))
			assert.Equal(t, tt.want, table.Rank(tt.in))
		})
	}
}

func TestCountsNeverShrink(t *testing.T) {
	table := frequency.NewTable()
	vocab := vocabOf("Frame")

	table.Update("Frame Frame", 1, vocab)
	table.Update("nothing relevant here", 1, vocab)

	assert.Equal(t, 2, table.Count("Frame"), "observing unrelated text keeps prior counts")
}
