package service

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/dukerupert/grocerybuddy/internal/model"
)

const MinPasswordLen = 6

type UserRepository interface {
	Create(ctx context.Context, username, email, passwordHash string) (*model.User, error)
	GetByIdentifier(ctx context.Context, identifier string) (*model.User, error)
	Exists(ctx context.Context, username, email string) (bool, error)
}

type RegisterInput struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

// AuthService checks credentials and creates accounts. Session issuance is
// left to the caller.
type AuthService struct {
	users      UserRepository
	bcryptCost int
	dummyHash  []byte
}

func NewAuthService(users UserRepository, bcryptCost int) *AuthService {
	if bcryptCost < bcrypt.MinCost {
		bcryptCost = bcrypt.DefaultCost
	}
	// Compared against when the identifier matches nobody, so both login
	// failures take the same time.
	dummy, _ := bcrypt.GenerateFromPassword([]byte("grocerybuddy-no-such-user"), bcryptCost)
	return &AuthService{users: users, bcryptCost: bcryptCost, dummyHash: dummy}
}

// Register validates in, stores the user with a bcrypt hash and returns it.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*model.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)

	if in.Username == "" || in.Email == "" || in.Password == "" || in.ConfirmPassword == "" {
		return nil, fmt.Errorf("%w: All fields are required", model.ErrValidation)
	}
	if in.Password != in.ConfirmPassword {
		return nil, fmt.Errorf("%w: Passwords do not match", model.ErrValidation)
	}
	if len(in.Password) < MinPasswordLen {
		return nil, fmt.Errorf("%w: Password must be at least %d characters", model.ErrValidation, MinPasswordLen)
	}

	exists, err := s.users.Exists(ctx, in.Username, in.Email)
	if err != nil {
		return nil, fmt.Errorf("check existing user: %w", err)
	}
	if exists {
		return nil, fmt.Errorf("%w: Username or email already exists", model.ErrConflict)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	// The UNIQUE constraints still catch a concurrent registration.
	return s.users.Create(ctx, in.Username, in.Email, string(hash))
}

// Login matches identifier against username or email. Unknown users and
// wrong passwords return the same error.
func (s *AuthService) Login(ctx context.Context, identifier, password string) (*model.User, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" || password == "" {
		return nil, fmt.Errorf("%w: All fields are required", model.ErrValidation)
	}

	user, err := s.users.GetByIdentifier(ctx, identifier)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if user == nil {
		bcrypt.CompareHashAndPassword(s.dummyHash, []byte(password))
		return nil, fmt.Errorf("%w: Invalid credentials", model.ErrInvalidCredentials)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, fmt.Errorf("%w: Invalid credentials", model.ErrInvalidCredentials)
	}
	return user, nil
}
