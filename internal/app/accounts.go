package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/AyoubAchour/almindhar-experience/internal/auth"
	"github.com/AyoubAchour/almindhar-experience/internal/domain"
)

const minPasswordLen = 6

type AccountService struct {
	users      domain.UserRepository
	tokens     *auth.Issuer
	bcryptCost int
}

func NewAccountService(u domain.UserRepository, t *auth.Issuer, bcryptCost int) *AccountService {
	return &AccountService{users: u, tokens: t, bcryptCost: bcryptCost}
}

type Session struct {
	User    domain.User      `json:"user"`
	Access  auth.AccessToken `json:"access"`
	Created bool             `json:"-"`
}

// SignUp registers email. When the address is already taken and password
// matches, it signs the user in instead; a different password is ErrEmailExists.
// A failure to create the profile row is logged and does not fail sign-up.
func (s *AccountService) SignUp(ctx context.Context, email, password string) (Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return Session{}, domain.Invalid("Email and password are required")
	}
	if len(password) < minPasswordLen {
		return Session{}, domain.Invalid("Password must be at least %d characters", minPasswordLen)
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return Session{}, fmt.Errorf("hash password: %w", err)
	}
	u := domain.User{ID: uuid.NewString(), Email: email, PasswordHash: hash}
	err = s.users.CreateUser(ctx, u)
	if errors.Is(err, domain.ErrEmailExists) {
		sess, lerr := s.Login(ctx, email, password)
		if errors.Is(lerr, domain.ErrInvalidCredentials) {
			return Session{}, domain.ErrEmailExists
		}
		return sess, lerr
	}
	if err != nil {
		return Session{}, fmt.Errorf("create user: %w", err)
	}

	if perr := s.users.CreateProfile(ctx, domain.UserProfile{ID: u.ID, Email: email}); perr != nil {
		log.Warn().Err(perr).Str("user_id", u.ID).Msg("profile creation failed")
	}
	created, err := s.users.GetUserByID(ctx, u.ID)
	if err != nil {
		created = u
	}
	tok, err := s.tokens.Issue(created)
	if err != nil {
		return Session{}, err
	}
	return Session{User: created, Access: tok, Created: true}, nil
}

func (s *AccountService) Login(ctx context.Context, email, password string) (Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return Session{}, domain.Invalid("Email and password are required")
	}
	u, err := s.users.GetUserByEmail(ctx, email)
	if errors.Is(err, domain.ErrNotFound) {
		return Session{}, domain.ErrInvalidCredentials
	}
	if err != nil {
		return Session{}, err
	}
	if !auth.VerifyPassword(u.PasswordHash, password) {
		return Session{}, domain.ErrInvalidCredentials
	}
	tok, err := s.tokens.Issue(u)
	if err != nil {
		return Session{}, err
	}
	return Session{User: u, Access: tok}, nil
}

// Authenticate resolves a bearer token to its user.
func (s *AccountService) Authenticate(ctx context.Context, token string) (domain.User, error) {
	c, err := s.tokens.Verify(token)
	if err != nil {
		return domain.User{}, err
	}
	u, err := s.users.GetUserByID(ctx, c.Subject)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.User{}, domain.ErrUnauthenticated
	}
	return u, err
}

func (s *AccountService) IsAdmin(ctx context.Context, userID string) (bool, error) {
	return s.users.IsAdmin(ctx, userID)
}
