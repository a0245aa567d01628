package fmtseq

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFormat(t *testing.T) {
	values := slices.Values([]int{1, 2, 42, 66, 87})

	t.Run("custom spec", func(t *testing.T) {
		formatted, err := Format("[`, `]<%02d>", values)
		require.NoError(t, err)
		require.Equal(t, "[01, 02, 42, 66, 87]", formatted)
	})

	t.Run("default spec", func(t *testing.T) {
		formatted, err := Format("", values)
		require.NoError(t, err)
		require.Equal(t, "[1 2 42 66 87]", formatted)
	})

	t.Run("empty element verb", func(t *testing.T) {
		require.Equal(t, "{1|2}", MustFormat("{`|`}<>", slices.Values([]int{1, 2})))
	})

	t.Run("empty sequence", func(t *testing.T) {
		require.Equal(t, "()", MustFormat("(`, `)<%d>", slices.Values([]int(nil))))
	})

	t.Run("illegal spec", func(t *testing.T) {
		_, err := Format("[, ]", values)
		require.ErrorIs(t, err, ErrBadSpec)

		require.Panics(t, func() { MustFormat("nope", values) })
	})
}
