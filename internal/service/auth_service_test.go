package service

import (
	"context"
	"testing"

	"invoicing/internal/model"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

var testSecret = []byte("test_secret")

func hashFor(t *testing.T, password string) string {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	assert.NoError(t, err)
	return string(hashed)
}

func TestLogin(t *testing.T) {
	userRepo := new(MockUserRepository)
	svc := NewAuthService(userRepo, testSecret)

	userID := uuid.New()
	userRepo.On("GetByUsername", mock.Anything, "operator").Return(&model.User{
		ID:       userID,
		Username: "operator",
		Password: hashFor(t, "s3cret"),
	}, nil)

	resp, err := svc.Login(context.Background(), LoginRequest{Username: "operator", Password: "s3cret"})
	assert.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.NotEmpty(t, resp.ExpiresAt)

	// The token is a valid HS256 JWT carrying the user id as subject.
	parsed, err := jwt.Parse(resp.Token, func(token *jwt.Token) (interface{}, error) {
		return testSecret, nil
	})
	assert.NoError(t, err)
	claims := parsed.Claims.(jwt.MapClaims)
	assert.Equal(t, userID.String(), claims["sub"])
}

func TestLoginWrongPassword(t *testing.T) {
	userRepo := new(MockUserRepository)
	svc := NewAuthService(userRepo, testSecret)

	userRepo.On("GetByUsername", mock.Anything, "operator").Return(&model.User{
		Username: "operator",
		Password: hashFor(t, "s3cret"),
	}, nil)

	_, err := svc.Login(context.Background(), LoginRequest{Username: "operator", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginUnknownUser(t *testing.T) {
	userRepo := new(MockUserRepository)
	svc := NewAuthService(userRepo, testSecret)

	userRepo.On("GetByUsername", mock.Anything, "ghost").Return(nil, gorm.ErrRecordNotFound)

	_, err := svc.Login(context.Background(), LoginRequest{Username: "ghost", Password: "whatever"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestSeedOperatorFirstRun(t *testing.T) {
	userRepo := new(MockUserRepository)
	svc := NewAuthService(userRepo, testSecret)

	var created *model.User
	userRepo.On("Count", mock.Anything).Return(int64(0), nil)
	userRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).
		Run(func(args mock.Arguments) {
			created = args.Get(1).(*model.User)
		}).Return(nil)

	err := svc.SeedOperator(context.Background(), "operator", "s3cret")
	assert.NoError(t, err)
	assert.NotNil(t, created)
	assert.Equal(t, "operator", created.Username)

	// Stored as a bcrypt hash, never plaintext.
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(created.Password), []byte("s3cret")))
}

func TestSeedOperatorSkipsWhenUsersExist(t *testing.T) {
	userRepo := new(MockUserRepository)
	svc := NewAuthService(userRepo, testSecret)

	userRepo.On("Count", mock.Anything).Return(int64(3), nil)

	err := svc.SeedOperator(context.Background(), "operator", "s3cret")
	assert.NoError(t, err)
	userRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}
