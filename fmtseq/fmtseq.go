// Package fmtseq formats sequences of values.
//
// A format spec has the form
//
//	begin`separator`end<element>
//
// where element is a fmt verb used for every value. For example, formatting
// 1, 2 and 42 with the spec "[`, `]<%02d>" results in "[01, 02, 42]".
package fmtseq

import (
	"errors"
	"fmt"
	"iter"
	"regexp"
	"strings"
)

var ErrBadSpec = errors.New("illegal sequence format spec")

var specRegex = regexp.MustCompile("^([\\s\\S]*?)`([\\s\\S]*?)`([\\s\\S]*?)<([\\s\\S]*?)>$")

// Spec is a parsed format spec.
type Spec struct {
	Begin     string
	Separator string
	End       string
	Element   string
}

// DefaultSpec formats values like fmt.Sprint formats a slice.
var DefaultSpec = Spec{Begin: "[", Separator: " ", End: "]", Element: "%v"}

func Parse(spec string) (Spec, error) {
	if spec == "" {
		return DefaultSpec, nil
	}

	matches := specRegex.FindStringSubmatch(spec)
	if matches == nil {
		return Spec{}, fmt.Errorf("parse %q: %w", spec, ErrBadSpec)
	}

	parsed := Spec{
		Begin:     matches[1],
		Separator: matches[2],
		End:       matches[3],
		Element:   matches[4],
	}

	if parsed.Element == "" {
		parsed.Element = "%v"
	}

	return parsed, nil
}

func MustParse(spec string) Spec {
	parsed, err := Parse(spec)
	if err != nil {
		panic(err)
	}

	return parsed
}

// Format formats all values of seq using the given spec.
func Format[T any](spec string, seq iter.Seq[T]) (string, error) {
	parsed, err := Parse(spec)
	if err != nil {
		return "", err
	}

	return FormatWith(parsed, seq), nil
}

// MustFormat is like Format but panics if the spec is malformed.
func MustFormat[T any](spec string, seq iter.Seq[T]) string {
	return FormatWith(MustParse(spec), seq)
}

// FormatWith formats all values of seq using an already parsed spec.
func FormatWith[T any](spec Spec, seq iter.Seq[T]) string {
	var sb strings.Builder

	sb.WriteString(spec.Begin)

	var idx int
	for value := range seq {
		if idx > 0 {
			sb.WriteString(spec.Separator)
		}

		_, _ = fmt.Fprintf(&sb, spec.Element, value)

		idx += 1
	}

	sb.WriteString(spec.End)

	return sb.String()
}
