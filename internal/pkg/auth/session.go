package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/yigit/courseregistry/internal/app/models"
	"github.com/yigit/courseregistry/internal/pkg/apperrors"
)

// SessionConfig defines session token settings
type SessionConfig struct {
	SecretKey   string
	TTL         time.Duration
	TokenIssuer string
}

// SessionService issues and validates the signed token carried by the
// session cookie. The token holds only the identity; current state is always
// re-read from the database.
type SessionService struct {
	config SessionConfig
	now    func() time.Time
}

// NewSessionService creates a new session service
func NewSessionService(config SessionConfig) *SessionService {
	return &SessionService{config: config, now: time.Now}
}

// Claims defines session token content
type Claims struct {
	SubjectID int64  `json:"sid"`
	Role      string `json:"role"`
	jwt.RegisteredClaims
}

// Identity is the authenticated principal of a request
type Identity struct {
	ID   int64
	Role models.RoleType
}

// TTL returns the session lifetime
func (s *SessionService) TTL() time.Duration {
	return s.config.TTL
}

// Issue signs a session token for the identity
func (s *SessionService) Issue(identity Identity) (string, error) {
	now := s.now()
	claims := &Claims{
		SubjectID: identity.ID,
		Role:      string(identity.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.config.TTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    s.config.TokenIssuer,
			Subject:   strconv.FormatInt(identity.ID, 10),
			ID:        uuid.New().String(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.config.SecretKey))
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return signed, nil
}

// Validate parses a session token and returns the identity it carries
func (s *SessionService) Validate(tokenString string) (Identity, error) {
	if tokenString == "" {
		return Identity{}, apperrors.ErrUnauthenticated
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.SecretKey), nil
	},
		jwt.WithIssuer(s.config.TokenIssuer),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Identity{}, apperrors.ErrTokenExpired
		}
		return Identity{}, fmt.Errorf("%w: %v", apperrors.ErrTokenInvalid, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.SubjectID <= 0 {
		return Identity{}, apperrors.ErrTokenInvalid
	}

	role := models.RoleType(claims.Role)
	if role != models.RoleStudent && role != models.RoleAdmin {
		return Identity{}, apperrors.ErrTokenInvalid
	}
	return Identity{ID: claims.SubjectID, Role: role}, nil
}
