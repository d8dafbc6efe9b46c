package jwt

import (
	"errors"
	"fmt"
	"itinera/config"
	"itinera/shared/timezone"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken   = errors.New("invalid token")
	ErrExpiredToken   = errors.New("token has expired")
	ErrInvalidClaim   = errors.New("invalid token claim")
	ErrMissingBearer  = errors.New("authorization header must start with 'Bearer '")
	ErrMissingHeader  = errors.New("authorization header is required")
	errUnknownSigning = errors.New("unexpected signing method")
)

const bearerPrefix = "Bearer "

// Claims carries the identity of the traveller making the request. Tokens are minted by
// the identity service; this service only verifies them.
type Claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

type JWT interface {
	Issue(userID, email, role string) (token string, expiresAt time.Time, err error)
	Verify(tokenString string) (*Claims, error)
}

type Service struct {
	secret    []byte
	issuer    string
	expireMin int
}

func New(cfg *config.Config) JWT {
	return &Service{
		secret:    []byte(cfg.JWT.AccessSecret),
		issuer:    cfg.App.Name,
		expireMin: cfg.JWT.AccessExpireMin,
	}
}

// Issue signs an access token. Used by local tooling and tests.
func (s *Service) Issue(userID, email, role string) (string, time.Time, error) {
	now := timezone.Now()
	expiresAt := now.Add(time.Duration(s.expireMin) * time.Minute)

	claims := Claims{
		UserID: userID,
		Email:  email,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    s.issuer,
			Subject:   userID,
			ID:        uuid.NewString(),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, expiresAt, nil
}

func (s *Service) Verify(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("%w: %v", errUnknownSigning, token.Header["alg"])
		}

		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}

		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	if claims.UserID == "" {
		return nil, ErrInvalidClaim
	}

	return claims, nil
}

// ExtractTokenFromHeader strips the Bearer prefix from an Authorization header value.
func ExtractTokenFromHeader(authHeader string) (string, error) {
	if authHeader == "" {
		return "", ErrMissingHeader
	}

	if !strings.HasPrefix(authHeader, bearerPrefix) {
		return "", ErrMissingBearer
	}

	return strings.TrimPrefix(authHeader, bearerPrefix), nil
}
