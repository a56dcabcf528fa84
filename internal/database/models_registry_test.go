package database

import (
	"testing"

	"tactac/internal/models"

	"github.com/stretchr/testify/require"
)

func TestPersistentModels_UsersBeforeDependents(t *testing.T) {
	all := PersistentModels()
	require.Len(t, all, 4)

	_, ok := all[0].(*models.User)
	require.True(t, ok, "users must migrate first")

	found := false
	for _, model := range all {
		if _, ok := model.(*models.Like); ok {
			found = true
			break
		}
	}
	require.True(t, found, "PersistentModels should include Like")
}
