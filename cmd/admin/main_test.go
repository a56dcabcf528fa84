package main

import (
	"bytes"
	"context"
	"strconv"
	"testing"

	"tactac/internal/models"
	"tactac/internal/repository"
	"tactac/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_PromoteAndDemote(t *testing.T) {
	db := testutil.OpenTestDB(t)
	users := repository.NewUserRepository(db)
	alice := testutil.CreateUser(t, db, "alice")
	id := strconv.FormatUint(uint64(alice.ID), 10)
	ctx := context.Background()

	var out bytes.Buffer
	require.NoError(t, run(ctx, users, []string{"promote", id}, &out))
	assert.Contains(t, out.String(), "alice")
	assert.Equal(t, models.RoleAdmin, testutil.Reload[models.User](t, db, alice.ID).Role)

	out.Reset()
	require.NoError(t, run(ctx, users, []string{"promote", id}, &out))
	assert.Contains(t, out.String(), "already has role admin")

	out.Reset()
	require.NoError(t, run(ctx, users, []string{"list-admins"}, &out))
	assert.Contains(t, out.String(), "Username: alice")

	require.NoError(t, run(ctx, users, []string{"demote", id}, &out))
	assert.Equal(t, models.RoleUser, testutil.Reload[models.User](t, db, alice.ID).Role)

	out.Reset()
	require.NoError(t, run(ctx, users, []string{"list-admins"}, &out))
	assert.Contains(t, out.String(), "No admins found")
}

func TestRun_SetStatus(t *testing.T) {
	db := testutil.OpenTestDB(t)
	users := repository.NewUserRepository(db)
	bob := testutil.CreateUser(t, db, "bob")
	id := strconv.FormatUint(uint64(bob.ID), 10)
	ctx := context.Background()

	var out bytes.Buffer
	require.NoError(t, run(ctx, users, []string{"set-status", id, "suspended"}, &out))
	assert.Equal(t, models.StatusSuspended, testutil.Reload[models.User](t, db, bob.ID).Status)

	assert.Error(t, run(ctx, users, []string{"set-status", id, "banished"}, &out))
}

func TestRun_Errors(t *testing.T) {
	db := testutil.OpenTestDB(t)
	users := repository.NewUserRepository(db)
	ctx := context.Background()
	var out bytes.Buffer

	tests := []struct {
		name string
		args []string
		msg  string
	}{
		{"missing id", []string{"promote"}, "Usage:"},
		{"bad id", []string{"promote", "abc"}, `invalid user ID "abc"`},
		{"unknown user", []string{"demote", "999"}, "user with ID 999 not found"},
		{"unknown command", []string{"nuke"}, "unknown command: nuke"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := run(ctx, users, tt.args, &out)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}
