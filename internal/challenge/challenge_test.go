package challenge

import (
	"bytes"
	"errors"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/seedkeeper/internal/common"
)

var phrase = []byte("legal winner thank year wave sausage worth useful legal winner thank yellow")

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("no entropy") }

func answersFor(ch *Challenge, p []byte) map[int]string {
	words := bytes.Fields(p)
	out := make(map[int]string, len(ch.Positions))
	for _, pos := range ch.Positions {
		out[pos] = string(words[pos])
	}
	return out
}

func TestGenerate_Positions(t *testing.T) {
	g := NewGenerator(3)

	for i := 0; i < 200; i++ {
		ch, err := g.Generate(phrase)
		require.NoError(t, err)
		require.Len(t, ch.Positions, 3)
		assert.True(t, slices.IsSorted(ch.Positions))
		assert.Len(t, slices.Compact(slices.Clone(ch.Positions)), 3, "positions must be distinct")
		for _, p := range ch.Positions {
			assert.GreaterOrEqual(t, p, 0)
			assert.Less(t, p, 12)
		}
	}
}

func TestGenerate_CoversAllPositions(t *testing.T) {
	g := NewGenerator(3)
	seen := map[int]bool{}
	for i := 0; i < 500; i++ {
		ch, err := g.Generate(phrase)
		require.NoError(t, err)
		for _, p := range ch.Positions {
			seen[p] = true
		}
	}
	assert.Len(t, seen, 12)
}

func TestGenerate_MinimumWords(t *testing.T) {
	ch, err := NewGenerator(1).Generate(phrase)
	require.NoError(t, err)
	assert.Len(t, ch.Positions, MinWords)
}

func TestGenerate_WholePhrase(t *testing.T) {
	ch, err := NewGenerator(12).Generate(phrase)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11}, ch.Positions)
}

func TestGenerate_PhraseTooShort(t *testing.T) {
	_, err := NewGenerator(3).Generate([]byte("one two"))
	assert.ErrorIs(t, err, common.ErrInvalidPhrase)
}

func TestGenerate_RandomFailure(t *testing.T) {
	g := &Generator{Words: 3, Rand: failingReader{}}
	_, err := g.Generate(phrase)

	var fatal *common.FatalConfigError
	assert.ErrorAs(t, err, &fatal)
}

func TestVerify(t *testing.T) {
	ch := &Challenge{Positions: []int{0, 5, 11}}

	tests := []struct {
		name    string
		answers map[int]string
		want    bool
	}{
		{"exact", map[int]string{0: "legal", 5: "sausage", 11: "yellow"}, true},
		{"case and spaces", map[int]string{0: " LEGAL ", 5: "Sausage", 11: "yellow\n"}, true},
		{"extra keys ignored", map[int]string{0: "legal", 5: "sausage", 11: "yellow", 3: "x"}, true},
		{"one wrong", map[int]string{0: "legal", 5: "sausage", 11: "yelow"}, false},
		{"missing", map[int]string{0: "legal", 5: "sausage"}, false},
		{"empty", map[int]string{}, false},
		{"prefix only", map[int]string{0: "leg", 5: "sausage", 11: "yellow"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Verify(ch, phrase, tt.answers))
		})
	}
}

func TestVerify_GeneratedChallenge(t *testing.T) {
	ch, err := NewGenerator(4).Generate(phrase)
	require.NoError(t, err)
	assert.True(t, Verify(ch, phrase, answersFor(ch, phrase)))
}

func TestVerify_Degenerate(t *testing.T) {
	assert.False(t, Verify(nil, phrase, map[int]string{}))
	assert.False(t, Verify(&Challenge{}, phrase, map[int]string{}))
	assert.False(t, Verify(&Challenge{Positions: []int{12}}, phrase, map[int]string{12: "x"}))
}
