package services

import (
	"database/sql"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"shopfront/internal/domain"
	"shopfront/internal/repos"
)

var (
	ErrBadCreds   = errors.New("invalid email or password")
	ErrEmailTaken = errors.New("email already registered")
	ErrBadToken   = errors.New("invalid or expired token")
)

type AuthService struct {
	Users    *repos.UserRepo
	Secret   []byte
	TokenTTL time.Duration
}

func NewAuthService(users *repos.UserRepo, secret string, ttl time.Duration) *AuthService {
	return &AuthService{Users: users, Secret: []byte(secret), TokenTTL: ttl}
}

type Claims struct {
	UserID string `json:"uid"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

func (s *AuthService) Register(email, name, password string) (*domain.User, error) {
	if _, err := s.Users.ByEmail(email); err == nil {
		return nil, ErrEmailTaken
	} else if err != sql.ErrNoRows {
		return nil, err
	}

	h, err := bcrypt.GenerateFromPassword([]byte(password), 12)
	if err != nil {
		return nil, err
	}
	u := domain.User{ID: uuid.NewString(), Email: email, Name: name, Hash: string(h), Role: "USER"}
	if err := s.Users.Create(u); err != nil {
		return nil, err
	}
	return &u, nil
}

// Login checks credentials and mints a bearer token.
func (s *AuthService) Login(email, password string) (string, *domain.User, error) {
	u, err := s.Users.ByEmail(email)
	if err != nil {
		return "", nil, ErrBadCreds
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Hash), []byte(password)) != nil {
		return "", nil, ErrBadCreds
	}

	tok, err := s.issueToken(u)
	if err != nil {
		return "", nil, err
	}
	return tok, u, nil
}

func (s *AuthService) issueToken(u *domain.User) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: u.ID,
		Role:   u.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID,
			ExpiresAt: jwt.NewNumericDate(now.Add(s.TokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.Secret)
}

// UserFromToken validates a bearer token and loads its user. The role in
// the claims is advisory only; the DB row is authoritative.
func (s *AuthService) UserFromToken(tokenString string) (*domain.User, error) {
	var claims Claims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrBadToken
		}
		return s.Secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrBadToken
	}
	u, err := s.Users.ByID(claims.UserID)
	if err != nil {
		return nil, ErrBadToken
	}
	return u, nil
}

func (s *AuthService) ChangePassword(userID, current, next string) error {
	u, err := s.Users.ByID(userID)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Hash), []byte(current)) != nil {
		return ErrBadCreds
	}
	h, err := bcrypt.GenerateFromPassword([]byte(next), 12)
	if err != nil {
		return err
	}
	return s.Users.UpdatePassword(userID, string(h))
}

func (s *AuthService) UpdateProfile(userID, email, name string) (*domain.User, error) {
	u, err := s.Users.ByID(userID)
	if err != nil {
		return nil, err
	}
	if email != "" && email != u.Email {
		if other, err := s.Users.ByEmail(email); err == nil && other.ID != userID {
			return nil, ErrEmailTaken
		} else if err != nil && err != sql.ErrNoRows {
			return nil, err
		}
		u.Email = email
	}
	if name != "" {
		u.Name = name
	}
	if err := s.Users.UpdateProfile(u.ID, u.Email, u.Name); err != nil {
		return nil, err
	}
	return u, nil
}
