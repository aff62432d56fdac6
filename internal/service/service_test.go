package service_test

import (
	"context"
	"io"
	"sync"
	"testing"

	"github.com/dpetrov/auth-service/internal/hash"
	"github.com/dpetrov/auth-service/internal/service"
	"github.com/dpetrov/auth-service/internal/service/servicetest"
	"github.com/dpetrov/auth-service/internal/token"
	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func newTestService(store service.UserStore) *service.Service {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return service.NewService(store, hash.NewBcryptHasher(), token.NewIssuer(testSecret), nil, logger)
}

func TestRegisterThenLogin(t *testing.T) {
	store := servicetest.NewMemStore()
	svc := newTestService(store)
	ctx := context.Background()

	reg, err := svc.Register(ctx, "Alice@Example.com", "s3cret-pw")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", reg.User.Email)
	assert.NotZero(t, reg.User.ID)
	assert.NotEmpty(t, reg.Token)

	login, err := svc.Login(ctx, "alice@example.com", "s3cret-pw")
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, login.User.ID)
	assert.NotEmpty(t, login.Token)

	// Both tokens must carry the same identity claims.
	for _, signed := range []string{reg.Token, login.Token} {
		claims := &token.Claims{}
		parsed, err := jwt.ParseWithClaims(signed, claims, func(tok *jwt.Token) (interface{}, error) {
			return []byte(testSecret), nil
		})
		require.NoError(t, err)
		require.True(t, parsed.Valid)
		assert.Equal(t, reg.User.ID, claims.UserID)
		assert.Equal(t, "alice@example.com", claims.Email)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	store := servicetest.NewMemStore()
	svc := newTestService(store)
	ctx := context.Background()

	_, err := svc.Register(ctx, "bob@example.com", "password1")
	require.NoError(t, err)

	// Case and whitespace variants normalize to the same address.
	_, err = svc.Register(ctx, "  BOB@Example.COM ", "password2")
	assert.ErrorIs(t, err, service.ErrEmailTaken)
}

func TestRegisterUniquenessRace(t *testing.T) {
	store := servicetest.NewMemStore()
	svc := newTestService(store)
	ctx := context.Background()

	const callers = 8
	errs := make(chan error, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Register(ctx, "race@example.com", "password1")
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	var created, rejected int
	for err := range errs {
		if err == nil {
			created++
			continue
		}
		assert.ErrorIs(t, err, service.ErrEmailTaken)
		rejected++
	}
	assert.Equal(t, 1, created, "exactly one concurrent registration may win")
	assert.Equal(t, callers-1, rejected)

	u, err := store.FindUserByEmail(ctx, "race@example.com")
	require.NoError(t, err)
	assert.NotZero(t, u.ID)
}

func TestLoginBadCredentialsAreIndistinguishable(t *testing.T) {
	store := servicetest.NewMemStore()
	svc := newTestService(store)
	ctx := context.Background()

	_, err := svc.Register(ctx, "carol@example.com", "password1")
	require.NoError(t, err)

	_, wrongPassword := svc.Login(ctx, "carol@example.com", "password2")
	_, unknownEmail := svc.Login(ctx, "nobody@example.com", "password1")

	assert.ErrorIs(t, wrongPassword, service.ErrInvalidCredentials)
	assert.ErrorIs(t, unknownEmail, service.ErrInvalidCredentials)
	assert.Equal(t, wrongPassword, unknownEmail)
}

func TestRegisterNeverStoresPlaintext(t *testing.T) {
	store := servicetest.NewMemStore()
	svc := newTestService(store)
	ctx := context.Background()

	_, err := svc.Register(ctx, "dave@example.com", "hunter22")
	require.NoError(t, err)
	_, err = svc.Register(ctx, "erin@example.com", "hunter22")
	require.NoError(t, err)

	dave, err := store.FindUserByEmail(ctx, "dave@example.com")
	require.NoError(t, err)
	erin, err := store.FindUserByEmail(ctx, "erin@example.com")
	require.NoError(t, err)

	assert.NotEqual(t, "hunter22", dave.PasswordHash)
	assert.NotEqual(t, "hunter22", erin.PasswordHash)
	assert.NotEqual(t, dave.PasswordHash, erin.PasswordHash, "same password must hash to different digests")
}
