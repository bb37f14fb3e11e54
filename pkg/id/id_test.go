package id

import (
	"sort"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewULIDSortable(t *testing.T) {
	ids := make([]string, 1000)
	for i := range ids {
		ids[i] = NewULID()
	}

	assert.True(t, sort.StringsAreSorted(ids), "ulids generated in sequence must sort in order")

	seen := make(map[string]struct{}, len(ids))
	for _, v := range ids {
		assert.Len(t, v, 26)
		_, dup := seen[v]
		require.False(t, dup, "duplicate id %s", v)
		seen[v] = struct{}{}
	}
}

func TestNewUUID(t *testing.T) {
	v := NewUUID()
	assert.Len(t, v, 36)
	require.NoError(t, uuid.Validate(v))
	assert.NotEqual(t, v, NewUUID())
}
