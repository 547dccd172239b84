package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpand(t *testing.T) {
	osAxis := Axis{Name: "os", Values: []string{"ubuntu-latest", "macos-latest", "windows-latest"}}
	channelAxis := Axis{Name: "channel", Values: []string{"stable", "nightly"}}

	t.Run("CrossProductSize", func(t *testing.T) {
		tuples := Expand([]Axis{osAxis, channelAxis})
		require.Len(t, tuples, 6)
	})

	t.Run("DeterministicOrder", func(t *testing.T) {
		first := Expand([]Axis{osAxis, channelAxis})
		second := Expand([]Axis{osAxis, channelAxis})
		require.Equal(t, first, second)

		// First declared axis varies slowest.
		assert.Equal(t, "ubuntu-latest-stable", first[0].Slug())
		assert.Equal(t, "ubuntu-latest-nightly", first[1].Slug())
		assert.Equal(t, "macos-latest-stable", first[2].Slug())
		assert.Equal(t, "windows-latest-nightly", first[5].Slug())
	})

	t.Run("SingleValueAxisStillProducesInstance", func(t *testing.T) {
		tuples := Expand([]Axis{
			{Name: "os", Values: []string{"ubuntu-latest"}},
			{Name: "channel", Values: []string{"nightly"}},
		})
		require.Len(t, tuples, 1)
		assert.Equal(t, "ubuntu-latest-nightly", tuples[0].Slug())
	})

	t.Run("NoAxesYieldsOneEmptyTuple", func(t *testing.T) {
		tuples := Expand(nil)
		require.Len(t, tuples, 1)
		assert.Empty(t, tuples[0])
		assert.Equal(t, "", tuples[0].Slug())
	})

	t.Run("TupleValue", func(t *testing.T) {
		tuples := Expand([]Axis{osAxis, channelAxis})
		assert.Equal(t, "ubuntu-latest", tuples[0].Value("os"))
		assert.Equal(t, "stable", tuples[0].Value("channel"))
		assert.Equal(t, "", tuples[0].Value("missing"))
	})
}
