// Package challenge asks the user to repeat randomly chosen words of the
// phrase they were just shown, proving the backup was written down.
package challenge

import (
	"bytes"
	"crypto/rand"
	"crypto/subtle"
	"encoding/binary"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/dmitrijs2005/seedkeeper/internal/common"
)

// MinWords is the smallest challenge that is accepted.
const MinWords = 3

// Challenge holds the 0-based word positions the user must answer.
// Positions are distinct and sorted ascending.
type Challenge struct {
	Positions []int
}

type Generator struct {
	Words int
	Rand  io.Reader
}

func NewGenerator(words int) *Generator {
	return &Generator{Words: words, Rand: rand.Reader}
}

// Generate picks g.Words distinct positions of phrase.
func (g *Generator) Generate(phrase []byte) (*Challenge, error) {
	n := len(bytes.Fields(phrase))
	k := g.Words
	if k < MinWords {
		k = MinWords
	}
	if n < k {
		return nil, fmt.Errorf("phrase has %d words, challenge needs %d: %w", n, k, common.ErrInvalidPhrase)
	}

	r := g.Rand
	if r == nil {
		r = rand.Reader
	}

	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	// Partial Fisher-Yates: the first k slots end up a uniform sample.
	for i := 0; i < k; i++ {
		j, err := uniform(r, n-i)
		if err != nil {
			return nil, err
		}
		idx[i], idx[i+j] = idx[i+j], idx[i]
	}

	pos := slices.Clone(idx[:k])
	slices.Sort(pos)
	return &Challenge{Positions: pos}, nil
}

// uniform returns an unbiased value in [0, n) using rejection sampling.
func uniform(r io.Reader, n int) (int, error) {
	if n <= 1 {
		return 0, nil
	}
	limit := ^uint32(0) - ^uint32(0)%uint32(n)
	var buf [4]byte
	for {
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return 0, &common.FatalConfigError{Component: "random source", Err: err}
		}
		v := binary.BigEndian.Uint32(buf[:])
		if v < limit {
			return int(v % uint32(n)), nil
		}
	}
}

// Verify reports whether answers holds the right word for every position of
// ch. Answers are trimmed and compared case-insensitively. Extra keys in
// answers are ignored.
func Verify(ch *Challenge, phrase []byte, answers map[int]string) bool {
	if ch == nil || len(ch.Positions) == 0 {
		return false
	}
	words := bytes.Fields(phrase)

	ok := 1
	for _, p := range ch.Positions {
		if p < 0 || p >= len(words) {
			return false
		}
		a, found := answers[p]
		if !found {
			ok = 0
			continue
		}
		given := []byte(strings.ToLower(strings.TrimSpace(a)))
		want := bytes.ToLower(words[p])
		ok &= subtle.ConstantTimeCompare(given, want)
		common.WipeByteArray(given)
		common.WipeByteArray(want)
	}
	return ok == 1
}
