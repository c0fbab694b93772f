package policy

import (
	zxcvbn "github.com/ccojocar/zxcvbn-go"
)

// Strength is a coarse classification of a zxcvbn score.
type Strength int

const (
	Weak Strength = iota
	Medium
	Strong
)

func (s Strength) String() string {
	switch s {
	case Medium:
		return "medium"
	case Strong:
		return "strong"
	default:
		return "weak"
	}
}

// Score returns the zxcvbn estimate for pw in the range 0..4.
// The result depends only on pw.
func Score(pw []byte) int {
	if len(pw) == 0 {
		return 0
	}
	// zxcvbn works on strings; the copy cannot be wiped.
	return zxcvbn.PasswordStrength(string(pw), nil).Score
}

// PasswordStrength classifies pw: score <=2 weak, 3 medium, 4 strong.
func PasswordStrength(pw []byte) Strength {
	return classify(Score(pw))
}

func classify(score int) Strength {
	switch {
	case score >= 4:
		return Strong
	case score == 3:
		return Medium
	default:
		return Weak
	}
}
