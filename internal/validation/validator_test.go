package validation

import (
	"testing"

	"tactac/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type signup struct {
	Username string `json:"username" validate:"required,username"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,password"`
	Bio      string `json:"bio" validate:"max=5"`
	Role     string `json:"role,omitempty" validate:"omitempty,oneof=user admin"`
}

func TestStruct_Valid(t *testing.T) {
	assert.NoError(t, Struct(&signup{
		Username: "good_name",
		Email:    "good@example.com",
		Password: "GoodPass1",
	}))
}

func TestStruct_CollectsFieldErrors(t *testing.T) {
	err := Struct(&signup{
		Username: "x",
		Email:    "not-an-email",
		Password: "weak",
		Bio:      "too long",
		Role:     "root",
	})
	require.Error(t, err)
	assert.True(t, models.HasCode(err, models.CodeValidation))

	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)

	byField := map[string]string{}
	for _, f := range appErr.Fields {
		byField[f.Field] = f.Message
	}
	assert.Equal(t, "username must be at least 3 characters long", byField["username"])
	assert.Equal(t, "Please provide a valid email", byField["email"])
	assert.Equal(t, "password must be at least 8 characters long", byField["password"])
	assert.Equal(t, "bio must not exceed 5 characters", byField["bio"])
	assert.Equal(t, "role must be one of: user admin", byField["role"])
	assert.Equal(t, appErr.Fields[0].Message, appErr.Message)
}

func TestStruct_Required(t *testing.T) {
	err := Struct(&signup{})
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "username is required", appErr.Fields[0].Message)
}
