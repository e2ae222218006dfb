package database

import (
	"testing"

	modelspkg "rethinkclub/internal/models"

	"github.com/stretchr/testify/require"
)

func TestPersistentModels_IncludesInteraction(t *testing.T) {
	found := false
	for _, model := range PersistentModels() {
		if _, ok := model.(*modelspkg.Interaction); ok {
			found = true
			break
		}
	}
	require.True(t, found, "PersistentModels should include Interaction")
}
