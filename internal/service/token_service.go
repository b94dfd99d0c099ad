package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"

	"github.com/noah-isme/scholarhub-api/internal/models"
	appErrors "github.com/noah-isme/scholarhub-api/pkg/errors"
)

// TokenConfig holds signing parameters for identity tokens.
type TokenConfig struct {
	Secret string
	Expiry time.Duration
	Issuer string
	// Now overrides the clock; nil means time.Now.
	Now func() time.Time
}

// TokenService issues and verifies signed identity assertions. It is
// immutable after construction and safe for concurrent use.
type TokenService struct {
	secret    []byte
	expiry    time.Duration
	issuer    string
	now       func() time.Time
	validator *validator.Validate
}

// NewTokenService constructs a TokenService.
func NewTokenService(cfg TokenConfig, validate *validator.Validate) *TokenService {
	if cfg.Expiry <= 0 {
		cfg.Expiry = time.Hour
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if validate == nil {
		validate = validator.New()
	}
	return &TokenService{
		secret:    []byte(cfg.Secret),
		expiry:    cfg.Expiry,
		issuer:    cfg.Issuer,
		now:       cfg.Now,
		validator: validate,
	}
}

// Issue signs a token carrying identity, valid for the configured window.
func (s *TokenService) Issue(req models.TokenRequest) (*models.TokenResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "A valid email is required to issue a token.")
	}

	issuedAt := s.now().UTC()
	expiresAt := issuedAt.Add(s.expiry)
	claims := &models.IdentityClaims{
		Email: strings.ToLower(strings.TrimSpace(req.Email)),
		Name:  req.Name,
		Photo: req.Photo,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   strings.ToLower(strings.TrimSpace(req.Email)),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			NotBefore: jwt.NewNumericDate(issuedAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign token")
	}
	return &models.TokenResponse{Token: signed, ExpiresAt: expiresAt}, nil
}

// Verify parses a token and returns its claims. Expired tokens fail with
// TOKEN_EXPIRED; every other failure is TOKEN_INVALID.
func (s *TokenService) Verify(tokenString string) (*models.IdentityClaims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
	}
	if s.issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.issuer))
	}

	token, err := jwt.ParseWithClaims(tokenString, &models.IdentityClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, appErrors.Wrap(err, appErrors.ErrTokenExpired.Code, appErrors.ErrTokenExpired.Status, appErrors.ErrTokenExpired.Message)
		}
		return nil, appErrors.Wrap(err, appErrors.ErrTokenInvalid.Code, appErrors.ErrTokenInvalid.Status, appErrors.ErrTokenInvalid.Message)
	}

	claims, ok := token.Claims.(*models.IdentityClaims)
	if !ok || !token.Valid || claims.Email == "" {
		return nil, appErrors.Clone(appErrors.ErrTokenInvalid, "")
	}
	return claims, nil
}
