// Package policy implements the two independent password gates: a rule-based
// validator (length and character classes) and a zxcvbn strength estimate.
//
// The gates are deliberately separate. A password can satisfy the rules and
// still score as weak; callers decide which gate to apply through Rules.
package policy

import (
	"fmt"
	"unicode"
	"unicode/utf8"

	"github.com/dmitrijs2005/seedkeeper/internal/common"
)

// Rules configures Validate and Check.
type Rules struct {
	MinLength     int
	RequireUpper  bool
	RequireLower  bool
	RequireDigit  bool
	RequireSymbol bool
	// MinScore additionally requires a zxcvbn score of at least this value.
	// Zero disables the strength gate.
	MinScore int
}

// DefaultRules requires eight characters and all four character classes.
func DefaultRules() Rules {
	return Rules{
		MinLength:     8,
		RequireUpper:  true,
		RequireLower:  true,
		RequireDigit:  true,
		RequireSymbol: true,
	}
}

// Policy applies Rules to candidate passwords. It holds no state besides its
// rules and is safe for concurrent use.
type Policy struct {
	rules Rules
}

func New(r Rules) *Policy {
	return &Policy{rules: r}
}

func (p *Policy) Rules() Rules {
	return p.rules
}

// Validate reports whether pw satisfies the rules.
func (p *Policy) Validate(pw []byte) bool {
	return p.Check(pw) == nil
}

// Check is Validate with a reason. The returned error is a
// *common.InputError on the "password" field wrapping common.ErrPasswordPolicy.
func (p *Policy) Check(pw []byte) error {
	if len(pw) == 0 {
		return common.NewInputError("password", common.ErrEmptyInput)
	}

	if n := utf8.RuneCount(pw); n < p.rules.MinLength {
		return violation("must be at least %d characters long", p.rules.MinLength)
	}

	var upper, lower, digit, symbol bool
	for rest := pw; len(rest) > 0; {
		r, size := utf8.DecodeRune(rest)
		rest = rest[size:]
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r) || r == ' ':
			// ASCII space counts as a symbol.
			symbol = true
		}
	}

	switch {
	case p.rules.RequireUpper && !upper:
		return violation("must contain an uppercase letter")
	case p.rules.RequireLower && !lower:
		return violation("must contain a lowercase letter")
	case p.rules.RequireDigit && !digit:
		return violation("must contain a digit")
	case p.rules.RequireSymbol && !symbol:
		return violation("must contain a symbol")
	}

	if p.rules.MinScore > 0 {
		if s := Score(pw); s < p.rules.MinScore {
			return violation("is too easy to guess (score %d, need %d)", s, p.rules.MinScore)
		}
	}
	return nil
}

func violation(format string, args ...any) error {
	return common.NewInputError("password",
		fmt.Errorf("%w: %s", common.ErrPasswordPolicy, fmt.Sprintf(format, args...)))
}
