package idgen

import (
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnowflakeGenerator_Unique(t *testing.T) {
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	gen := NewSnowflake(node)
	seen := make(map[string]struct{}, 1000)
	for i := 0; i < 1000; i++ {
		id := gen.NewID()
		_, dup := seen[id]
		require.False(t, dup, "duplicate id %s", id)
		seen[id] = struct{}{}
	}
}

func TestSequence(t *testing.T) {
	seq := &Sequence{Prefix: "cat"}
	assert.Equal(t, "cat-1", seq.NewID())
	assert.Equal(t, "cat-2", seq.NewID())
}
