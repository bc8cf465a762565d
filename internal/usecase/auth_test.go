package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"CryptoDash/internal/domain/models"
	drepo "CryptoDash/internal/domain/repository"
	"CryptoDash/pkg/logger"
)

var errMismatch = errors.New("mismatch")

// recordingHasher stores "hash:<pw>" and logs the call order.
type recordingHasher struct {
	mu    sync.Mutex
	steps []string
	delay time.Duration
}

func (h *recordingHasher) Hash(pw string) (string, error) {
	time.Sleep(h.delay)
	h.record("hash")
	return "hash:" + pw, nil
}

func (h *recordingHasher) Compare(hash, pw string) error {
	h.record("compare")
	if hash != "hash:"+pw {
		return errMismatch
	}
	return nil
}

func (h *recordingHasher) record(s string) {
	h.mu.Lock()
	h.steps = append(h.steps, s)
	h.mu.Unlock()
}

type stubTokens struct{}

func (stubTokens) Issue(id uuid.UUID, email string) (string, time.Time, error) {
	return "token-" + id.String(), time.Now().Add(time.Hour), nil
}

func (stubTokens) Parse(token string) (uuid.UUID, error) { return uuid.Nil, errors.New("unused") }

func TestRegister(t *testing.T) {
	users := new(mockUsers)
	uc := NewAuthUseCase(users, &recordingHasher{}, stubTokens{}, logger.Nop())

	users.On("GetByEmail", mock.Anything, "ada@example.com").Return(nil, drepo.ErrNotFound).Once()
	users.On("Create", mock.Anything, mock.MatchedBy(func(u *models.User) bool {
		return u.Email == "ada@example.com" && u.PasswordHash == "hash:secret123" && u.Name == "Ada"
	})).Return(nil).Once()

	res, err := uc.Register(context.Background(), &models.RegisterRequest{Name: " Ada ", Email: "Ada@Example.com ", Password: "secret123"})
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)
	assert.Equal(t, "ada@example.com", res.User.Email)
	users.AssertExpectations(t)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	users := new(mockUsers)
	uc := NewAuthUseCase(users, &recordingHasher{}, stubTokens{}, logger.Nop())
	users.On("GetByEmail", mock.Anything, "ada@example.com").Return(&models.User{}, nil).Once()

	_, err := uc.Register(context.Background(), &models.RegisterRequest{Name: "Ada", Email: "ada@example.com", Password: "secret123"})
	assert.ErrorIs(t, err, ErrEmailTaken)
	users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestLogin(t *testing.T) {
	users := new(mockUsers)
	uc := NewAuthUseCase(users, &recordingHasher{}, stubTokens{}, logger.Nop())
	u := &models.User{ID: uuid.New(), Email: "ada@example.com", PasswordHash: "hash:secret123"}
	users.On("GetByEmail", mock.Anything, "ada@example.com").Return(u, nil)
	users.On("GetByEmail", mock.Anything, "nobody@example.com").Return(nil, drepo.ErrNotFound)

	res, err := uc.Login(context.Background(), &models.LoginRequest{Email: "ada@example.com", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, u.ID, res.User.ID)

	_, err = uc.Login(context.Background(), &models.LoginRequest{Email: "ada@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = uc.Login(context.Background(), &models.LoginRequest{Email: "nobody@example.com", Password: "x"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestUpdateProfileHashesBeforePersisting(t *testing.T) {
	users := new(mockUsers)
	hasher := &recordingHasher{delay: 50 * time.Millisecond}
	uc := NewAuthUseCase(users, hasher, stubTokens{}, logger.Nop())
	id := uuid.New()

	users.On("GetByID", mock.Anything, id).
		Return(&models.User{ID: id, Name: "Ada", PasswordHash: "hash:old-password"}, nil).Once()
	users.On("Update", mock.Anything, mock.AnythingOfType("*models.User")).
		Run(func(args mock.Arguments) {
			u := args.Get(1).(*models.User)
			assert.Equal(t, "hash:new-password", u.PasswordHash)
			hasher.record("persist")
		}).
		Return(nil).Once()

	name := "Ada L."
	got, err := uc.UpdateProfile(context.Background(), id, &models.UpdateProfileRequest{
		Name:            &name,
		CurrentPassword: "old-password",
		NewPassword:     "new-password",
	})
	require.NoError(t, err)
	assert.Equal(t, "Ada L.", got.Name)
	assert.Equal(t, []string{"compare", "hash", "persist"}, hasher.steps)
	users.AssertExpectations(t)
}

func TestUpdateProfileWrongCurrentPassword(t *testing.T) {
	users := new(mockUsers)
	uc := NewAuthUseCase(users, &recordingHasher{}, stubTokens{}, logger.Nop())
	id := uuid.New()
	users.On("GetByID", mock.Anything, id).Return(&models.User{ID: id, PasswordHash: "hash:old-password"}, nil).Once()

	_, err := uc.UpdateProfile(context.Background(), id, &models.UpdateProfileRequest{
		CurrentPassword: "guess",
		NewPassword:     "new-password",
	})
	assert.ErrorIs(t, err, ErrWrongPassword)
	users.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestMeNotFound(t *testing.T) {
	users := new(mockUsers)
	uc := NewAuthUseCase(users, &recordingHasher{}, stubTokens{}, logger.Nop())
	id := uuid.New()
	users.On("GetByID", mock.Anything, id).Return(nil, drepo.ErrNotFound)

	_, err := uc.Me(context.Background(), id)
	assert.ErrorIs(t, err, ErrUserNotFound)
}
