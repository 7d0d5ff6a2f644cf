package usecase

import (
	"context"
	"testing"
	"time"

	"medisched/config"
	"medisched/internal/delivery/dto"
	"medisched/internal/domain/entity"
	"medisched/pkg/jwt"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type fakeUserRepo struct {
	users []*entity.User
}

func (f *fakeUserRepo) Create(_ *gorm.DB, user *entity.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	f.users = append(f.users, user)
	return nil
}

func (f *fakeUserRepo) FindByEmail(_ *gorm.DB, email string) (*entity.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) FindByID(_ *gorm.DB, id uuid.UUID) (*entity.User, error) {
	for _, u := range f.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) Update(_ *gorm.DB, user *entity.User) error {
	for i, u := range f.users {
		if u.ID == user.ID {
			f.users[i] = user
			return nil
		}
	}
	return nil
}

type fakeRoleRepo struct{}

func (f *fakeRoleRepo) FindByID(_ *gorm.DB, id int) (*entity.Role, error) {
	for name, roleID := range roleNamesByID() {
		if roleID == id {
			return &entity.Role{ID: roleID, RoleName: name}, nil
		}
	}
	return nil, nil
}

func (f *fakeRoleRepo) FindByName(_ *gorm.DB, name string) (*entity.Role, error) {
	if id, ok := roleNamesByID()[name]; ok {
		return &entity.Role{ID: id, RoleName: name}, nil
	}
	return nil, nil
}

func roleNamesByID() map[string]int {
	return map[string]int{
		entity.RoleAdmin:        entity.RoleIDAdmin,
		entity.RoleDoctor:       entity.RoleIDDoctor,
		entity.RoleReceptionist: entity.RoleIDReceptionist,
		entity.RolePatient:      entity.RoleIDPatient,
	}
}

type authFixture struct {
	usecase AuthUsecase
	users   *fakeUserRepo
	doctors *fakeDoctorRepo
	redis   *redis.Client
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	jwtService := jwt.NewJWTService(config.JWTConfig{
		Secret:        "test-secret",
		AccessExpiry:  time.Minute,
		RefreshExpiry: time.Hour,
	})

	users := &fakeUserRepo{}
	doctors := &fakeDoctorRepo{}

	return &authFixture{
		usecase: NewAuthUsecase(newTestDB(t), newTestLogger(), users, &fakeRoleRepo{}, doctors, jwtService, client),
		users:   users,
		doctors: doctors,
		redis:   client,
	}
}

func TestRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("creates a user with a hashed password", func(t *testing.T) {
		f := newAuthFixture(t)

		resp, err := f.usecase.Register(ctx, &dto.RegisterRequest{
			Email: "jane@example.com", Password: "s3cret-pass", FullName: "Jane Miller", Role: entity.RoleReceptionist,
		})

		require.NoError(t, err)
		assert.Equal(t, entity.RoleReceptionist, resp.Role)

		require.Len(t, f.users.users, 1)
		stored := f.users.users[0]
		assert.Equal(t, entity.RoleIDReceptionist, stored.RoleID)
		assert.NotEqual(t, "s3cret-pass", stored.Password)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("s3cret-pass")))
	})

	t.Run("rejects an unknown role", func(t *testing.T) {
		f := newAuthFixture(t)

		_, err := f.usecase.Register(ctx, &dto.RegisterRequest{
			Email: "jane@example.com", Password: "s3cret-pass", FullName: "Jane Miller", Role: "superuser",
		})

		assert.ErrorIs(t, err, ErrRoleNotFound)
	})
}

func TestRegisterDoctor(t *testing.T) {
	f := newAuthFixture(t)

	resp, err := f.usecase.RegisterDoctor(context.Background(), &dto.RegisterDoctorRequest{
		Email: "alice@example.com", Password: "s3cret-pass",
		FirstName: "Alice", LastName: "Wong", Specialization: "cardiology",
		AvailableDays: "mon,wed,fri", ConsultationFee: 150,
	})

	require.NoError(t, err)
	assert.Equal(t, entity.RoleDoctor, resp.Role)
	assert.Equal(t, "Alice Wong", resp.FullName)

	// Both the auth user and the doctor record exist
	require.Len(t, f.users.users, 1)
	assert.Equal(t, entity.RoleIDDoctor, f.users.users[0].RoleID)
	require.Len(t, f.doctors.doctors, 1)
	assert.Equal(t, "cardiology", f.doctors.doctors[0].Specialization)
	assert.Equal(t, "mon,wed,fri", f.doctors.doctors[0].AvailableDays)
}

func TestLoginAndTokenLifecycle(t *testing.T) {
	ctx := context.Background()

	register := func(t *testing.T, f *authFixture) {
		t.Helper()
		_, err := f.usecase.Register(ctx, &dto.RegisterRequest{
			Email: "jane@example.com", Password: "s3cret-pass", FullName: "Jane Miller", Role: entity.RoleAdmin,
		})
		require.NoError(t, err)
	}

	t.Run("login issues a token pair stored in redis", func(t *testing.T) {
		f := newAuthFixture(t)
		register(t, f)

		tokens, err := f.usecase.Login(ctx, &dto.LoginRequest{Email: "jane@example.com", Password: "s3cret-pass"})

		require.NoError(t, err)
		assert.NotEmpty(t, tokens.AccessToken)
		assert.NotEmpty(t, tokens.RefreshToken)
		assert.Equal(t, int64(60), tokens.ExpiresIn)

		accessKeys, err := f.redis.Keys(ctx, "access_token:*").Result()
		require.NoError(t, err)
		assert.Len(t, accessKeys, 1)
	})

	t.Run("login rejects a wrong password", func(t *testing.T) {
		f := newAuthFixture(t)
		register(t, f)

		_, err := f.usecase.Login(ctx, &dto.LoginRequest{Email: "jane@example.com", Password: "wrong"})
		assert.ErrorIs(t, err, ErrInvalidCredentials)

		_, err = f.usecase.Login(ctx, &dto.LoginRequest{Email: "nobody@example.com", Password: "s3cret-pass"})
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("refresh rotates the token pair", func(t *testing.T) {
		f := newAuthFixture(t)
		register(t, f)

		tokens, err := f.usecase.Login(ctx, &dto.LoginRequest{Email: "jane@example.com", Password: "s3cret-pass"})
		require.NoError(t, err)

		rotated, err := f.usecase.RefreshToken(ctx, &dto.RefreshTokenRequest{RefreshToken: tokens.RefreshToken})
		require.NoError(t, err)
		assert.NotEqual(t, tokens.RefreshToken, rotated.RefreshToken)

		// The old refresh token is single-use
		_, err = f.usecase.RefreshToken(ctx, &dto.RefreshTokenRequest{RefreshToken: tokens.RefreshToken})
		assert.ErrorIs(t, err, ErrTokenRevoked)
	})

	t.Run("refresh rejects an access token", func(t *testing.T) {
		f := newAuthFixture(t)
		register(t, f)

		tokens, err := f.usecase.Login(ctx, &dto.LoginRequest{Email: "jane@example.com", Password: "s3cret-pass"})
		require.NoError(t, err)

		_, err = f.usecase.RefreshToken(ctx, &dto.RefreshTokenRequest{RefreshToken: tokens.AccessToken})
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}
