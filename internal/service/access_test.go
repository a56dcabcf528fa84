package service

import (
	"testing"

	"tactac/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestAuthorize(t *testing.T) {
	owner := &Caller{ID: 1, Role: models.RoleUser}
	other := &Caller{ID: 2, Role: models.RoleUser}
	admin := &Caller{ID: 3, Role: models.RoleAdmin}

	tests := []struct {
		name     string
		caller   *Caller
		priv     Privilege
		wantCode string
	}{
		{"anonymous edit", nil, OwnerOnly, models.CodeUnauthorized},
		{"owner edit", owner, OwnerOnly, ""},
		{"other edit", other, OwnerOnly, models.CodeForbidden},
		{"admin edit", admin, OwnerOnly, models.CodeForbidden},
		{"owner delete", owner, OwnerOrAdmin, ""},
		{"other delete", other, OwnerOrAdmin, models.CodeForbidden},
		{"admin delete", admin, OwnerOrAdmin, ""},
		{"owner admin action", owner, AdminOnly, models.CodeForbidden},
		{"admin admin action", admin, AdminOnly, ""},
		{"anonymous admin action", nil, AdminOnly, models.CodeUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Authorize(tt.caller, owner.ID, tt.priv, "nope")
			if tt.wantCode == "" {
				assert.NoError(t, err)
				return
			}
			assert.True(t, models.HasCode(err, tt.wantCode), "got %v", err)
		})
	}
}

func TestAuthorize_ForbiddenCarriesMessage(t *testing.T) {
	err := Authorize(&Caller{ID: 2}, 1, OwnerOnly, "You can only edit your own posts")
	assert.EqualError(t, err, "You can only edit your own posts")
}

func TestClassify(t *testing.T) {
	admin := &Caller{ID: 5, Role: models.RoleAdmin}

	assert.Equal(t, Anonymous, Classify(nil, 5))
	assert.Equal(t, Owner, Classify(admin, 5))
	assert.Equal(t, Admin, Classify(admin, 6))
	assert.Equal(t, OtherUser, Classify(&Caller{ID: 7}, 6))
	assert.Equal(t, "otherUser", OtherUser.String())
}

func TestCaller_NilSafe(t *testing.T) {
	var c *Caller
	assert.False(t, c.IsAdmin())
	assert.Zero(t, c.UserID())
	assert.Nil(t, CallerFor(nil))
}
