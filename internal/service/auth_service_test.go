package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/Kali2114/ZenithFlowAPI/internal/model"
	"github.com/Kali2114/ZenithFlowAPI/internal/service"
)

type fakeTokenRepo struct {
	byHash map[string]*model.RefreshToken
}

func newFakeTokenRepo() *fakeTokenRepo {
	return &fakeTokenRepo{byHash: make(map[string]*model.RefreshToken)}
}

func (f *fakeTokenRepo) Create(_ context.Context, token *model.RefreshToken) error {
	f.byHash[token.TokenHash] = token
	return nil
}

func (f *fakeTokenRepo) FindByTokenHash(_ context.Context, hash string) (*model.RefreshToken, error) {
	t, ok := f.byHash[hash]
	if !ok {
		return nil, service.ErrTokenInvalid
	}
	return t, nil
}

func (f *fakeTokenRepo) Delete(_ context.Context, hash string) error {
	delete(f.byHash, hash)
	return nil
}

func (f *fakeTokenRepo) DeleteExpired(_ context.Context) (int64, error) {
	var purged int64
	for hash, token := range f.byHash {
		if token.ExpiresAt.Before(time.Now()) {
			delete(f.byHash, hash)
			purged++
		}
	}
	return purged, nil
}

func TestRegisterUser_MemberGetsProfile(t *testing.T) {
	userRepo := newFakeUserRepo()
	profileRepo := newFakeProfileRepo()
	svc := service.NewAuthService(userRepo, profileRepo, newFakeTokenRepo())

	user, err := svc.RegisterUser(context.Background(), "a@b.com", "password123", "Ala", "")
	require.NoError(t, err)
	require.Equal(t, model.RoleMember, user.Role)
	require.Len(t, profileRepo.createdFor, 1)
	require.Equal(t, user.ID, profileRepo.createdFor[0])
}

func TestRegisterUser_InstructorSkipsProfile(t *testing.T) {
	userRepo := newFakeUserRepo()
	profileRepo := newFakeProfileRepo()
	svc := service.NewAuthService(userRepo, profileRepo, newFakeTokenRepo())

	user, err := svc.RegisterUser(context.Background(), "i@b.com", "password123", "Iga", model.RoleInstructor)
	require.NoError(t, err)
	require.True(t, user.IsInstructor())
	require.Empty(t, profileRepo.createdFor)
}

func TestRegisterUser_UnknownRole(t *testing.T) {
	svc := service.NewAuthService(newFakeUserRepo(), newFakeProfileRepo(), newFakeTokenRepo())

	_, err := svc.RegisterUser(context.Background(), "x@b.com", "password123", "X", "admin")
	require.ErrorIs(t, err, service.ErrInvalidRole)
}

func TestLoginUser_WrongPassword(t *testing.T) {
	userRepo := newFakeUserRepo()
	hash, err := bcrypt.GenerateFromPassword([]byte("correct-horse"), bcrypt.MinCost)
	require.NoError(t, err)
	userRepo.add(&model.User{Email: "a@b.com", PasswordHash: string(hash), Role: model.RoleMember})

	svc := service.NewAuthService(userRepo, newFakeProfileRepo(), newFakeTokenRepo())

	_, _, err = svc.LoginUser(context.Background(), "a@b.com", "battery-staple")
	require.ErrorIs(t, err, service.ErrInvalidCredentials)

	_, _, err = svc.LoginUser(context.Background(), "missing@b.com", "whatever")
	require.ErrorIs(t, err, service.ErrInvalidCredentials)
}

func TestLoginUser_IssuesTokenPair(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	userRepo := newFakeUserRepo()
	hash, err := bcrypt.GenerateFromPassword([]byte("correct-horse"), bcrypt.MinCost)
	require.NoError(t, err)
	userRepo.add(&model.User{Email: "a@b.com", PasswordHash: string(hash), Role: model.RoleMember})

	tokenRepo := newFakeTokenRepo()
	svc := service.NewAuthService(userRepo, newFakeProfileRepo(), tokenRepo)

	access, refresh, err := svc.LoginUser(context.Background(), "a@b.com", "correct-horse")
	require.NoError(t, err)
	require.NotEmpty(t, access)
	require.NotEmpty(t, refresh)
	require.Len(t, tokenRepo.byHash, 1)
}
