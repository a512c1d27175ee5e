package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/farmconnect/farmconnect-api/internal/dto"
	"github.com/farmconnect/farmconnect-api/internal/model"
)

type mockUserRepo struct {
	users map[uuid.UUID]*model.User
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[uuid.UUID]*model.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	user.ID = uuid.New()
	user.IsActive = true
	user.VerificationStatus = model.VerificationPending
	user.CreatedAt = time.Now()
	m.users[user.ID] = user
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (m *mockUserRepo) GetByEmailAndRole(_ context.Context, email, role string) (*model.User, error) {
	for _, u := range m.users {
		if u.Email == email && u.Role == role {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *mockUserRepo) ExistsByUsernameOrEmail(_ context.Context, username, email string) (bool, error) {
	for _, u := range m.users {
		if u.Username == username || u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockUserRepo) UpdateProfile(_ context.Context, id uuid.UUID, fullName, phone, location string) error {
	if u, ok := m.users[id]; ok {
		u.FullName, u.Phone, u.Location = fullName, phone, location
	}
	return nil
}

func (m *mockUserRepo) List(_ context.Context, _ string) ([]model.User, error) {
	var out []model.User
	for _, u := range m.users {
		out = append(out, *u)
	}
	return out, nil
}

func (m *mockUserRepo) UpdateVerificationStatus(_ context.Context, id uuid.UUID, status string) error {
	if u, ok := m.users[id]; ok {
		u.VerificationStatus = status
	}
	return nil
}

func (m *mockUserRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(m.users, id)
	return nil
}

func signupReq() dto.SignupRequest {
	return dto.SignupRequest{
		Username: "ramesh", Email: "ramesh@example.com", Password: "secret1",
		Role: model.RoleFarmer, FullName: "Ramesh Kumar", Phone: "9876543210",
	}
}

func TestAuthService_Signup(t *testing.T) {
	svc := NewAuthService(newMockUserRepo(), "test-secret", time.Hour)

	resp, err := svc.Signup(context.Background(), signupReq())
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, model.RoleFarmer, resp.User.Role)
	assert.Equal(t, model.VerificationPending, resp.User.VerificationStatus)
}

func TestAuthService_Signup_DuplicateEmail(t *testing.T) {
	svc := NewAuthService(newMockUserRepo(), "test-secret", time.Hour)
	ctx := context.Background()

	_, err := svc.Signup(ctx, signupReq())
	require.NoError(t, err)

	dup := signupReq()
	dup.Username = "another"
	_, err = svc.Signup(ctx, dup)
	assert.ErrorIs(t, err, ErrUserAlreadyExists)
}

func TestAuthService_Login(t *testing.T) {
	svc := NewAuthService(newMockUserRepo(), "test-secret", time.Hour)
	ctx := context.Background()

	_, err := svc.Signup(ctx, signupReq())
	require.NoError(t, err)

	resp, err := svc.Login(ctx, dto.LoginRequest{
		Email: "ramesh@example.com", Password: "secret1", Role: model.RoleFarmer,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	svc := NewAuthService(newMockUserRepo(), "test-secret", time.Hour)
	ctx := context.Background()

	_, err := svc.Signup(ctx, signupReq())
	require.NoError(t, err)

	_, err = svc.Login(ctx, dto.LoginRequest{
		Email: "ramesh@example.com", Password: "wrong", Role: model.RoleFarmer,
	})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_Login_WrongRole(t *testing.T) {
	svc := NewAuthService(newMockUserRepo(), "test-secret", time.Hour)
	ctx := context.Background()

	_, err := svc.Signup(ctx, signupReq())
	require.NoError(t, err)

	// Same credentials against the buyer portal must not match.
	_, err = svc.Login(ctx, dto.LoginRequest{
		Email: "ramesh@example.com", Password: "secret1", Role: model.RoleBuyer,
	})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_Login_InactiveAccount(t *testing.T) {
	repo := newMockUserRepo()
	hashed, _ := bcrypt.GenerateFromPassword([]byte("secret1"), bcrypt.DefaultCost)
	userID := uuid.New()
	repo.users[userID] = &model.User{
		ID: userID, Username: "sita", Email: "sita@example.com",
		Password: string(hashed), Role: model.RoleBuyer, IsActive: false,
	}

	svc := NewAuthService(repo, "test-secret", time.Hour)
	_, err := svc.Login(context.Background(), dto.LoginRequest{
		Email: "sita@example.com", Password: "secret1", Role: model.RoleBuyer,
	})
	assert.ErrorIs(t, err, ErrAccountInactive)
}

func TestAuthService_UpdateProfile(t *testing.T) {
	repo := newMockUserRepo()
	svc := NewAuthService(repo, "test-secret", time.Hour)
	ctx := context.Background()

	resp, err := svc.Signup(ctx, signupReq())
	require.NoError(t, err)

	err = svc.UpdateProfile(ctx, resp.User.ID, dto.UpdateProfileRequest{
		FullName: "Ramesh K", Phone: "9999999999", Location: "Pune",
	})
	require.NoError(t, err)

	user, err := svc.GetUser(ctx, resp.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ramesh K", user.FullName)
	assert.Equal(t, "Pune", user.Location)
}
