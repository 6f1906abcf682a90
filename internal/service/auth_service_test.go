package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HarshwardhanZalte/NearBasket-backend/internal/apperr"
	"github.com/HarshwardhanZalte/NearBasket-backend/internal/model"
)

func TestRegister(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	user, err := env.auth.Register(ctx, RegisterRequest{
		MobileNumber: "9000000001",
		Name:         "Asha",
		Email:        "asha@example.com",
		Role:         model.RoleShopkeeper,
	})
	require.NoError(t, err)

	assert.Equal(t, model.RoleShopkeeper, user.Role)
	assert.True(t, user.IsActive)
	assert.NotZero(t, user.ID)
}

func TestRegister_DefaultsToCustomer(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	user, err := env.auth.Register(ctx, RegisterRequest{
		MobileNumber: "9000000002",
		Name:         "Ravi",
	})
	require.NoError(t, err)
	assert.Equal(t, model.RoleCustomer, user.Role)
}

func TestRegister_Validation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	tests := []struct {
		name string
		req  RegisterRequest
	}{
		{name: "short mobile", req: RegisterRequest{MobileNumber: "12345", Name: "Asha"}},
		{name: "non-numeric mobile", req: RegisterRequest{MobileNumber: "90000abc01", Name: "Asha"}},
		{name: "short name", req: RegisterRequest{MobileNumber: "9000000001", Name: "A"}},
		{name: "unknown role", req: RegisterRequest{MobileNumber: "9000000001", Name: "Asha", Role: "ADMIN"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := env.auth.Register(ctx, tc.req)
			require.Error(t, err)
			assert.True(t, apperr.IsKind(err, apperr.KindValidation))
		})
	}
}

func TestRegister_DuplicateMobile_Conflict(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.registerUser(t, "9000000001", "Asha", model.RoleCustomer)

	_, err := env.auth.Register(ctx, RegisterRequest{MobileNumber: "9000000001", Name: "Imposter"})
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindConflict))
}

func TestSendOTP_UnknownMobile_NotFound(t *testing.T) {
	env := newTestEnv(t)

	err := env.auth.SendOTP(context.Background(), "9999999999")
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
	assert.Empty(t, env.sender.messages, "nothing may be sent for an unknown number")
}

func TestOTPLogin_RoundTrip(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, user := env.registerUser(t, "9000000001", "Asha", model.RoleShopkeeper)

	require.NoError(t, env.auth.SendOTP(ctx, user.MobileNumber))
	code := env.sender.lastCode(t)
	assert.Len(t, code, 6)
	assert.Equal(t, user.MobileNumber, env.sender.mobiles[len(env.sender.mobiles)-1])

	token, loggedIn, err := env.auth.VerifyOTP(ctx, user.MobileNumber, code)
	require.NoError(t, err)
	assert.Equal(t, user.ID, loggedIn.ID)

	claims, err := env.jwt.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, user.MobileNumber, claims.MobileNumber)
	assert.Equal(t, model.RoleShopkeeper, claims.Role)
}

func TestVerifyOTP_WrongCode(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, user := env.registerUser(t, "9000000001", "Asha", model.RoleCustomer)
	require.NoError(t, env.auth.SendOTP(ctx, user.MobileNumber))

	_, _, err := env.auth.VerifyOTP(ctx, user.MobileNumber, "000000")
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}

func TestVerifyOTP_Expired(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, user := env.registerUser(t, "9000000001", "Asha", model.RoleCustomer)
	require.NoError(t, env.auth.SendOTP(ctx, user.MobileNumber))
	code := env.sender.lastCode(t)

	env.advance(11 * time.Minute)

	_, _, err := env.auth.VerifyOTP(ctx, user.MobileNumber, code)
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}

func TestVerifyOTP_SingleUse(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, user := env.registerUser(t, "9000000001", "Asha", model.RoleCustomer)
	require.NoError(t, env.auth.SendOTP(ctx, user.MobileNumber))
	code := env.sender.lastCode(t)

	_, _, err := env.auth.VerifyOTP(ctx, user.MobileNumber, code)
	require.NoError(t, err)

	// A verified code cannot be replayed.
	_, _, err = env.auth.VerifyOTP(ctx, user.MobileNumber, code)
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}

func TestSendOTP_InvalidatesPreviousCode(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, user := env.registerUser(t, "9000000001", "Asha", model.RoleCustomer)

	require.NoError(t, env.auth.SendOTP(ctx, user.MobileNumber))
	first := env.sender.lastCode(t)

	require.NoError(t, env.auth.SendOTP(ctx, user.MobileNumber))
	second := env.sender.lastCode(t)

	if first != second {
		_, _, err := env.auth.VerifyOTP(ctx, user.MobileNumber, first)
		require.Error(t, err)
		assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
	}

	_, _, err := env.auth.VerifyOTP(ctx, user.MobileNumber, second)
	assert.NoError(t, err)
}

func TestUpdateProfile(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	actor, user := env.registerUser(t, "9000000001", "Asha", model.RoleCustomer)

	name := "Asha K"
	address := "44 Temple Street"
	updated, err := env.auth.UpdateProfile(ctx, actor, UpdateProfileRequest{
		Name:    &name,
		Address: &address,
	})
	require.NoError(t, err)

	assert.Equal(t, "Asha K", updated.Name)
	assert.Equal(t, "44 Temple Street", updated.Address)
	assert.Equal(t, user.MobileNumber, updated.MobileNumber)
	assert.Equal(t, user.Role, updated.Role)
}

func TestUpdateProfile_RevalidatesName(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	actor, _ := env.registerUser(t, "9000000001", "Asha", model.RoleCustomer)

	short := "A"
	_, err := env.auth.UpdateProfile(ctx, actor, UpdateProfileRequest{Name: &short})
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
}

func TestGetProfile(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	actor, user := env.registerUser(t, "9000000001", "Asha", model.RoleCustomer)

	profile, err := env.auth.GetProfile(ctx, actor)
	require.NoError(t, err)
	assert.Equal(t, user.ID, profile.ID)

	_, err = env.auth.GetProfile(ctx, Principal{UserID: 999, Role: model.RoleCustomer})
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}
