package optable

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// GroupSize is the number of opcodes one group header can introduce: the
// index within a group supplies the low hex digit of the opcode.
const GroupSize = 16

// Opcode is a single opcode byte.
type Opcode uint8

// String renders o the way it appears in generated tables, e.g. 0x4A.
func (o Opcode) String() string {
	return fmt.Sprintf("0x%02X", uint8(o))
}

// High returns the upper hex digit of o, the group prefix.
func (o Opcode) High() uint8 { return uint8(o) >> 4 }

// Low returns the lower hex digit of o, the index within its group.
func (o Opcode) Low() uint8 { return uint8(o) & 0x0f }

// FormatOpcode combines a group prefix and an index within the group into
// an opcode byte. The prefix must be a single hex digit and the index must
// fit in one.
func FormatOpcode(prefix string, index int) (Opcode, error) {
	hi, err := parsePrefix(prefix)
	if err != nil {
		return 0, err
	}
	if index < 0 || index >= GroupSize {
		return 0, fmt.Errorf("%w: index %d under prefix %q", ErrIndexOverflow, index, prefix)
	}
	return Opcode(hi<<4 | uint8(index)), nil
}

func parsePrefix(prefix string) (uint8, error) {
	if prefix == "" {
		return 0, fmt.Errorf("%w: empty prefix", ErrMalformedGroupHeader)
	}
	if utf8.RuneCountInString(prefix) != 1 {
		return 0, fmt.Errorf("%w: prefix %q is not a single character", ErrMalformedGroupHeader, prefix)
	}
	v, err := strconv.ParseUint(prefix, 16, 8)
	if err != nil {
		return 0, fmt.Errorf("%w: prefix %q is not a hex digit", ErrMalformedGroupHeader, prefix)
	}
	return uint8(v), nil
}

// PrefixState is the walker's running coordinate: the prefix of the most
// recent group header and the position of the next data cell after it.
type PrefixState struct {
	Prefix string
	Index  int
}

// Reset starts a new group from a group header's text. Only the first
// character of the text is significant.
func (s *PrefixState) Reset(headerText string) error {
	headerText = strings.TrimSpace(headerText)
	if headerText == "" {
		return fmt.Errorf("%w: group header has no text", ErrMalformedGroupHeader)
	}
	r, _ := utf8.DecodeRuneInString(headerText)
	prefix := strings.ToUpper(string(r))
	if _, err := parsePrefix(prefix); err != nil {
		return err
	}
	s.Prefix = prefix
	s.Index = 0
	return nil
}

// Next resolves the opcode of the next data cell and advances the index.
// The state is left unchanged on error.
func (s *PrefixState) Next() (Opcode, error) {
	if s.Prefix == "" {
		return 0, fmt.Errorf("%w: data cell before any group header", ErrMalformedGroupHeader)
	}
	op, err := FormatOpcode(s.Prefix, s.Index)
	if err != nil {
		return 0, err
	}
	s.Index++
	return op, nil
}

// Skip consumes one index position without resolving an opcode. Before the
// first group header there is no position to consume.
func (s *PrefixState) Skip() error {
	if s.Prefix == "" {
		return nil
	}
	_, err := s.Next()
	return err
}
