package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPublicID(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		id, err := NewPublicID("abplan")
		require.NoError(t, err)
		assert.Regexp(t, `^abplan-[2-9A-HJKMNP-Z]{4}-[2-9A-HJKMNP-Z]{4}$`, id)
		seen[id] = true
	}
	assert.Greater(t, len(seen), 45)
}
