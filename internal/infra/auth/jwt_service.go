package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"elogbook/config"
	"elogbook/internal/domain/entity"
	"elogbook/internal/domain/service"
)

const (
	scopeTokenIssuer = "elogbook"
	minSecretLength  = 32
)

// jwtService is a concrete implementation of the ScopeTokenService interface using the JWT standard.
type jwtService struct {
	secret  []byte        // Secret key for signing scope tokens.
	ttl     time.Duration // Idle timeout of a scope.
	nowFunc func() time.Time
}

// NewJWTService is the constructor for jwtService.
func NewJWTService(cfg *config.Config) (service.ScopeTokenService, error) {
	if len(cfg.SecretKey.Scope) < minSecretLength {
		return nil, errors.Errorf("scope signing secret must be at least %d bytes", minSecretLength)
	}

	ttl := time.Duration(0)
	if cfg.Session != nil {
		ttl = cfg.Session.IdleTimeout
	}
	if ttl <= 0 {
		return nil, errors.New("session idle timeout must be positive")
	}

	return &jwtService{
		secret:  []byte(cfg.SecretKey.Scope),
		ttl:     ttl,
		nowFunc: time.Now,
	}, nil
}

// Issue signs a token for scopeID. An empty scopeID starts a new scope.
func (s *jwtService) Issue(scopeID string) (string, *entity.Scope, error) {
	if scopeID == "" {
		scopeID = uuid.NewString()
	}

	now := s.nowFunc()
	scope := &entity.Scope{
		ID:        scopeID,
		IssuedAt:  now,
		ExpiresAt: now.Add(s.ttl),
	}

	claims := service.ScopeClaims{
		ScopeID: scopeID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    scopeTokenIssuer,
			Subject:   scopeID,
			IssuedAt:  jwt.NewNumericDate(scope.IssuedAt),
			ExpiresAt: jwt.NewNumericDate(scope.ExpiresAt),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", nil, errors.Wrap(err, "failed to sign scope token")
	}

	return token, scope, nil
}

// Validate checks the validity of a token string and returns its scope.
func (s *jwtService) Validate(tokenString string) (*entity.Scope, error) {
	claims := &service.ScopeClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		// Ensure the signing method is what we expect.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}

		return s.secret, nil
	},
		jwt.WithIssuer(scopeTokenIssuer),
		jwt.WithTimeFunc(s.nowFunc),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, errors.Wrap(err, "invalid scope token")
	}
	if !token.Valid || claims.ScopeID == "" {
		return nil, errors.New("invalid scope token: missing scope id")
	}
	if _, err := uuid.Parse(claims.ScopeID); err != nil {
		return nil, errors.Wrap(err, "invalid scope token: malformed scope id")
	}

	scope := &entity.Scope{ID: claims.ScopeID}
	if claims.IssuedAt != nil {
		scope.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		scope.ExpiresAt = claims.ExpiresAt.Time
	}

	return scope, nil
}

// IdleTimeout returns the configured lifetime of a scope token.
func (s *jwtService) IdleTimeout() time.Duration {
	return s.ttl
}
