package commands

import (
	"errors"
	"fmt"
	"strconv"
	"unicode"
)

// CardRef represents a parsed card reference such as "b3".
type CardRef struct {
	Letter rune // list letter, 'a'-'z'
	Num    int  // 1-based card number within the list
}

func (r CardRef) String() string {
	return fmt.Sprintf("%c%d", r.Letter, r.Num)
}

// ErrCardRefRequired indicates no card reference was provided.
var ErrCardRefRequired = errors.New("card reference required")

// ErrListRefRequired indicates no list letter was provided.
var ErrListRefRequired = errors.New("list reference required")

// ParseCardRef parses a card reference from args.
//
// Accepted forms:
//  1. <letter><digits> (e.g., a1, b12)
//  2. <letter> <digits> as two arguments (e.g., a 1)
//
// A bare letter is ErrCardRefRequired; anything else is an invalid reference.
// The second return value is the number of args consumed.
func ParseCardRef(args []string) (CardRef, int, error) {
	if len(args) == 0 {
		return CardRef{}, 0, ErrCardRefRequired
	}
	first := args[0]
	if first == "" || !isLetter(rune(first[0])) {
		return CardRef{}, 0, fmt.Errorf("invalid card reference: %s", first)
	}
	letter := rune(first[0])

	if len(first) > 1 {
		num, ok := parseNumber(first[1:])
		if !ok {
			return CardRef{}, 0, fmt.Errorf("invalid card reference: %s", first)
		}
		return CardRef{Letter: letter, Num: num}, 1, nil
	}

	if len(args) < 2 {
		return CardRef{}, 0, ErrCardRefRequired
	}
	num, ok := parseNumber(args[1])
	if !ok {
		return CardRef{}, 0, fmt.Errorf("invalid card reference: %s %s", first, args[1])
	}
	return CardRef{Letter: letter, Num: num}, 2, nil
}

// ParseListRef parses a single list letter.
func ParseListRef(s string) (rune, error) {
	if s == "" {
		return 0, ErrListRefRequired
	}
	if len(s) != 1 || !isLetter(rune(s[0])) {
		return 0, fmt.Errorf("invalid list reference: %s", s)
	}
	return rune(s[0]), nil
}

// ParseIndex parses a 1-based position argument.
func ParseIndex(s string) (int, error) {
	n, ok := parseNumber(s)
	if !ok {
		return 0, fmt.Errorf("invalid position: %s", s)
	}
	return n, nil
}

// parseNumber parses a positive decimal number.
func parseNumber(s string) (int, bool) {
	if !isAllDigits(s) {
		return 0, false
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

// isAllDigits returns true if s consists only of ASCII digits and is non-empty.
func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r > unicode.MaxASCII || !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// isLetter returns true if r is a lowercase letter a-z.
func isLetter(r rune) bool {
	return r >= 'a' && r <= 'z'
}
