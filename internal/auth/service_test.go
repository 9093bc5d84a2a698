package auth

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/pressroom/service/internal/config"
	"github.com/pressroom/service/internal/user"
)

// memStore is an in-memory user.Store for service tests.
type memStore struct {
	mu    sync.Mutex
	users map[string]*user.User // keyed by ID
}

func newMemStore() *memStore {
	return &memStore{users: make(map[string]*user.User)}
}

func (m *memStore) Create(ctx context.Context, name, email, passwordHash, role string) (*user.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			return nil, user.ErrAlreadyExists
		}
	}
	now := time.Now()
	u := &user.User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	m.users[u.ID] = u
	return u, nil
}

func (m *memStore) GetByID(ctx context.Context, id string) (*user.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, user.ErrNotFound
}

func (m *memStore) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, user.ErrNotFound
}

func (m *memStore) List(ctx context.Context) ([]user.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]user.User, 0, len(m.users))
	for _, u := range m.users {
		out = append(out, *u)
	}
	return out, nil
}

func (m *memStore) UpdateName(ctx context.Context, id, name string) (*user.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, user.ErrNotFound
	}
	u.Name = name
	u.UpdatedAt = time.Now()
	cp := *u
	return &cp, nil
}

func (m *memStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[id]; !ok {
		return user.ErrNotFound
	}
	delete(m.users, id)
	return nil
}

func newTestService() *Service {
	cfg := &config.Config{JWTSecret: "test-secret", JWTTTLHours: 1}
	return NewService(user.NewService(newMemStore()), cfg)
}

func TestRegisterIssuesToken(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	token, u, err := svc.Register(ctx, "Robin", "Robin@Pressroom.dev", "longenoughpassword")
	require.NoError(t, err)
	require.NotNil(t, u)

	assert.Equal(t, "robin@pressroom.dev", u.Email, "emails are normalized")
	assert.Equal(t, "user", u.Role)
	assert.NotEqual(t, "longenoughpassword", u.PasswordHash)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("longenoughpassword")))

	parsed, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)
	claims := parsed.Claims.(jwt.MapClaims)
	assert.Equal(t, u.ID, claims["sub"])
	assert.Equal(t, "user", claims["role"])
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	_, _, err := svc.Register(ctx, "Robin", "robin@pressroom.dev", "longenoughpassword")
	require.NoError(t, err)

	_, _, err = svc.Register(ctx, "Other", "robin@pressroom.dev", "differentpassword")
	assert.ErrorIs(t, err, ErrEmailTaken)

	// Case-only variations collide too.
	_, _, err = svc.Register(ctx, "Other", "ROBIN@pressroom.dev", "differentpassword")
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestLogin(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	_, registered, err := svc.Register(ctx, "Robin", "robin@pressroom.dev", "longenoughpassword")
	require.NoError(t, err)

	t.Run("correct credentials", func(t *testing.T) {
		token, u, err := svc.Login(ctx, "robin@pressroom.dev", "longenoughpassword")
		require.NoError(t, err)
		assert.Equal(t, registered.ID, u.ID)
		assert.NotEmpty(t, token)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, _, err := svc.Login(ctx, "robin@pressroom.dev", "wrongpassword")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, _, err := svc.Login(ctx, "nobody@pressroom.dev", "longenoughpassword")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}
