package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	apperrors "apexfund/internal/errors"
	"apexfund/internal/validator"
)

const tokenIssuer = "apexfund-portal"

// Profile is the investor shown in the dashboard header.
type Profile struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Session is the result of a successful login.
type Session struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	User      Profile   `json:"user"`
}

// SessionClaims are the JWT claims carried by a session token.
type SessionClaims struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	jwt.RegisteredClaims
}

// AuthService issues and verifies session tokens. Login is a stub: any
// well-formed email and password are accepted, nothing is looked up.
type AuthService struct {
	secret      []byte
	ttl         time.Duration
	rememberTTL time.Duration
	now         func() time.Time
}

// NewAuthService creates an AuthService signing tokens with secret.
func NewAuthService(secret string, ttl, rememberTTL time.Duration) *AuthService {
	return &AuthService{
		secret:      []byte(secret),
		ttl:         ttl,
		rememberTTL: rememberTTL,
		now:         time.Now,
	}
}

// Login validates the form and issues a signed session token. RememberMe
// selects the longer expiry.
func (s *AuthService) Login(in LoginInput) (*Session, error) {
	if err := validator.Struct(in); err != nil {
		return nil, err
	}

	email := strings.ToLower(strings.TrimSpace(in.Email))
	profile := Profile{Name: displayName(email), Email: email}

	ttl := s.ttl
	if in.RememberMe {
		ttl = s.rememberTTL
	}
	now := s.now()
	expiresAt := now.Add(ttl)

	claims := &SessionClaims{
		Email: profile.Email,
		Name:  profile.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    tokenIssuer,
			Subject:   profile.Email,
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return &Session{Token: token, ExpiresAt: expiresAt, User: profile}, nil
}

// ParseToken verifies a session token and returns its claims.
func (s *AuthService) ParseToken(tokenString string) (*SessionClaims, error) {
	claims := &SessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithIssuer(tokenIssuer), jwt.WithTimeFunc(s.now))
	if err != nil || !token.Valid {
		return nil, apperrors.WithMessage(apperrors.ErrUnauthorized, "Invalid or expired token")
	}
	return claims, nil
}

// displayName turns "john.smith@example.com" into "John Smith".
func displayName(email string) string {
	local, _, _ := strings.Cut(email, "@")
	words := strings.FieldsFunc(local, func(r rune) bool {
		return r == '.' || r == '_' || r == '-' || r == '+'
	})
	if len(words) == 0 {
		return email
	}
	return cases.Title(language.English).String(strings.Join(words, " "))
}
