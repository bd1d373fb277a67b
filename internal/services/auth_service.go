package services

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"stockcontrol/internal/models"
	"stockcontrol/internal/repositories"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

const (
	authCodeAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	authCodeLength   = 8
)

// AuthService handles authentication, account creation and session tokens.
//
// By default passwords are stored and compared as plain text so existing
// databases keep working. WithPasswordHashing switches to bcrypt.
type AuthService struct {
	userRepo      repositories.UserRepository
	jwtSecret     []byte
	sessionTTL    time.Duration
	hashPasswords bool
	now           func() time.Time
}

// AuthOption customizes an AuthService.
type AuthOption func(*AuthService)

// WithPasswordHashing stores new passwords as bcrypt hashes and verifies
// logins against them.
func WithPasswordHashing() AuthOption {
	return func(s *AuthService) { s.hashPasswords = true }
}

// WithSessionDuration sets how long sessions and their tokens stay valid.
func WithSessionDuration(d time.Duration) AuthOption {
	return func(s *AuthService) {
		if d > 0 {
			s.sessionTTL = d
		}
	}
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repositories.UserRepository, jwtSecret string, opts ...AuthOption) *AuthService {
	s := &AuthService{
		userRepo:   userRepo,
		jwtSecret:  []byte(jwtSecret),
		sessionTTL: 8 * time.Hour,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RegisterUser stores a new account. A taken username comes back as an
// error wrapping models.ErrDuplicateUsername.
func (s *AuthService) RegisterUser(username, password string, role models.Role, externalID *string) (*models.User, error) {
	if !role.Valid() {
		return nil, fmt.Errorf("invalid role %q", role)
	}

	stored := password
	if s.hashPasswords {
		hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		stored = string(hashed)
	}

	user := &models.User{
		Username:   username,
		Password:   stored,
		Role:       role,
		ExternalID: externalID,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}
	log.Info().Str("username", username).Str("role", string(role)).Msg("user registered")
	return user, nil
}

// Authenticate checks the credentials and opens a session. Unknown users and
// wrong passwords both yield models.ErrAuthFailure.
func (s *AuthService) Authenticate(username, password string) (*models.Session, error) {
	user, err := s.lookup(username, password)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrAuthFailure
		}
		return nil, err
	}

	now := s.now()
	return &models.Session{
		ID:        uuid.New().String(),
		UserID:    user.ID,
		Username:  user.Username,
		Role:      user.Role,
		IssuedAt:  now,
		ExpiresAt: now.Add(s.sessionTTL),
	}, nil
}

func (s *AuthService) lookup(username, password string) (*models.User, error) {
	if !s.hashPasswords {
		return s.userRepo.FindByCredentials(username, password)
	}

	user, err := s.userRepo.GetByUsername(username)
	if err != nil {
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, fmt.Errorf("password mismatch: %w", models.ErrNotFound)
	}
	return user, nil
}

// IssueToken signs the session so a later process can resume it.
func (s *AuthService) IssueToken(session models.Session) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sid":      session.ID,
		"user_id":  session.UserID,
		"username": session.Username,
		"role":     string(session.Role),
		"iat":      session.IssuedAt.Unix(),
		"exp":      session.ExpiresAt.Unix(),
	})

	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return tokenString, nil
}

// ValidateToken parses a token produced by IssueToken and returns its session.
// Forged, malformed and expired tokens all yield models.ErrAuthFailure.
func (s *AuthService) ValidateToken(tokenString string) (*models.Session, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		log.Debug().Err(err).Msg("session token rejected")
		return nil, fmt.Errorf("invalid token: %w", models.ErrAuthFailure)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token: %w", models.ErrAuthFailure)
	}

	sid, _ := claims["sid"].(string)
	userID, _ := claims["user_id"].(float64)
	username, _ := claims["username"].(string)
	role, _ := claims["role"].(string)
	iat, _ := claims["iat"].(float64)
	exp, _ := claims["exp"].(float64)
	if username == "" || !models.Role(role).Valid() {
		return nil, fmt.Errorf("invalid token claims: %w", models.ErrAuthFailure)
	}

	return &models.Session{
		ID:        sid,
		UserID:    uint(userID),
		Username:  username,
		Role:      models.Role(role),
		IssuedAt:  time.Unix(int64(iat), 0),
		ExpiresAt: time.Unix(int64(exp), 0),
	}, nil
}

// GenerateAuthCode returns 8 characters drawn uniformly from [A-Za-z0-9].
// It is not suitable as a secret.
func (s *AuthService) GenerateAuthCode() string {
	b := make([]byte, authCodeLength)
	for i := range b {
		b[i] = authCodeAlphabet[rand.IntN(len(authCodeAlphabet))]
	}
	return string(b)
}
