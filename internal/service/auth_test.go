package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rescuelink/api/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-that-is-long-enough-for-hs256"

func newAuthService(t *testing.T) (*AuthService, *fakeStore) {
	t.Helper()
	store := newFakeStore()
	return NewAuthService(userFake{store}, testSecret, time.Hour), store
}

func validRegistration() RegisterInput {
	return RegisterInput{
		Name:        "Dana Volunteer",
		Email:       "Dana@Example.com ",
		Password:    "correct horse battery staple",
		Role:        model.RoleVolunteer,
		PhoneNumber: "+15550001111",
		Address:     "12 Shelter Lane",
	}
}

func TestRegisterAndLogin(t *testing.T) {
	auth, _ := newAuthService(t)
	ctx := context.Background()

	user, token, err := auth.Register(ctx, validRegistration())
	require.NoError(t, err)
	assert.Equal(t, "dana@example.com", user.Email)
	assert.NotEqual(t, "correct horse battery staple", user.PasswordHash)
	assert.NotEmpty(t, token)

	identity, err := auth.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, identity.UserID)
	assert.Equal(t, model.RoleVolunteer, identity.Role)
	assert.True(t, identity.IsVolunteer())

	loggedIn, loginToken, err := auth.Login(ctx, LoginInput{Email: "DANA@example.com", Password: "correct horse battery staple"})
	require.NoError(t, err)
	assert.Equal(t, user.ID, loggedIn.ID)
	assert.NotEmpty(t, loginToken)
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	auth, _ := newAuthService(t)

	_, _, err := auth.Register(context.Background(), validRegistration())
	require.NoError(t, err)

	_, _, err = auth.Register(context.Background(), validRegistration())
	assert.ErrorIs(t, err, ErrConflict)
}

func TestRegisterValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*RegisterInput)
		field  string
	}{
		{"short password", func(in *RegisterInput) { in.Password = "short" }, "password"},
		{"common password", func(in *RegisterInput) { in.Password = "mypassword12345" }, "password"},
		{"long password", func(in *RegisterInput) { in.Password = strings.Repeat("x", 73) }, "password"},
		{"bad email", func(in *RegisterInput) { in.Email = "not-an-email" }, "email"},
		{"blank name", func(in *RegisterInput) { in.Name = "   " }, "name"},
		{"unknown role", func(in *RegisterInput) { in.Role = "admin" }, "role"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			auth, store := newAuthService(t)
			in := validRegistration()
			tt.mutate(&in)

			_, _, err := auth.Register(context.Background(), in)
			require.ErrorIs(t, err, ErrValidation)
			assert.Contains(t, fieldNames(err), tt.field)
			assert.Empty(t, store.users)
		})
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	auth, _ := newAuthService(t)
	_, _, err := auth.Register(context.Background(), validRegistration())
	require.NoError(t, err)

	_, _, err = auth.Login(context.Background(), LoginInput{Email: "dana@example.com", Password: "wrong password entirely"})
	assert.Equal(t, ErrInvalidCredentials, err)

	_, _, err = auth.Login(context.Background(), LoginInput{Email: "nobody@example.com", Password: "whatever it is"})
	assert.Equal(t, ErrInvalidCredentials, err)

	_, _, err = auth.Login(context.Background(), LoginInput{})
	require.ErrorIs(t, err, ErrValidation)
	assert.ElementsMatch(t, []string{"email", "password"}, fieldNames(err))
}

func TestVerifyRejectsTamperedToken(t *testing.T) {
	auth, _ := newAuthService(t)
	token, err := auth.GenerateJWT(&model.User{ID: "1b4e28ba-2fa1-11d2-883f-0016d3cca427", Role: model.RoleDonor})
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)
	sig := []byte(parts[2])
	if sig[0] == 'A' {
		sig[0] = 'B'
	} else {
		sig[0] = 'A'
	}
	tampered := parts[0] + "." + parts[1] + "." + string(sig)

	_, err = auth.Verify(tampered)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestVerifyRejectsForeignTokens(t *testing.T) {
	auth, _ := newAuthService(t)
	userID := "1b4e28ba-2fa1-11d2-883f-0016d3cca427"

	sign := func(method jwt.SigningMethod, key any, claims jwt.Claims) string {
		s, err := jwt.NewWithClaims(method, claims).SignedString(key)
		require.NoError(t, err)
		return s
	}

	expired := sign(jwt.SigningMethodHS256, []byte(testSecret), Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	})
	noExpiry := sign(jwt.SigningMethodHS256, []byte(testSecret), Claims{UserID: userID})
	otherSecret := sign(jwt.SigningMethodHS256, []byte("another-secret"), Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	wrongAlg := sign(jwt.SigningMethodHS512, []byte(testSecret), Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	badSubject := sign(jwt.SigningMethodHS256, []byte(testSecret), Claims{
		UserID: "not-a-uuid",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})

	for name, token := range map[string]string{
		"expired":      expired,
		"no expiry":    noExpiry,
		"other secret": otherSecret,
		"wrong alg":    wrongAlg,
		"bad subject":  badSubject,
		"garbage":      "not.a.token",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := auth.Verify(token)
			assert.Equal(t, ErrInvalidToken, err)
		})
	}
}
