package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/d60-Lab/storefront/config"
	"github.com/d60-Lab/storefront/internal/model"
	"github.com/d60-Lab/storefront/internal/repository"
)

func newAuthService(db *gorm.DB) AuthService {
	return NewAuthService(
		repository.NewUserRepository(db),
		repository.NewCustomerRepository(db),
		config.JWTConfig{Secret: "test-secret", Expire: time.Hour, Issuer: "storefront-test"},
	)
}

func TestRegisterAndLogin(t *testing.T) {
	db := setupOrderTestDB(t)
	svc := newAuthService(db)
	ctx := context.Background()

	user, err := svc.Register(ctx, RegisterInput{
		Username: "alex",
		Email:    "alex@example.com",
		Password: "s3cret-pass",
		Name:     "Alex",
		Address:  "1 Main St",
		Phone:    "0812000000",
	})
	require.NoError(t, err)
	assert.Equal(t, model.RoleCustomer, user.Role)
	// 密码只存哈希
	assert.NotEqual(t, "s3cret-pass", user.Password)

	token, got, err := svc.Login(ctx, "alex", "s3cret-pass")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	claims, err := svc.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, model.RoleCustomer, claims.Role)

	profile, err := svc.GetProfile(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alex", profile.Name)
}

func TestLoginFailures(t *testing.T) {
	db := setupOrderTestDB(t)
	svc := newAuthService(db)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{Username: "bo", Email: "bo@example.com", Password: "password1", Name: "Bo"})
	require.NoError(t, err)

	_, _, err = svc.Login(ctx, "bo", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = svc.Login(ctx, "nobody", "password1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Register(ctx, RegisterInput{Username: "bo2", Email: "bo@example.com", Password: "password1", Name: "Bo"})
	assert.ErrorIs(t, err, ErrEmailTaken)

	_, err = svc.ParseToken("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
