package tokens

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/folio-studio/portfolio-api/internal/config"
	"github.com/folio-studio/portfolio-api/internal/models"
	"github.com/folio-studio/portfolio-api/pkg/middleware"
	"github.com/golang-jwt/jwt/v5"
)

// GenerateAccessToken creates a signed JWT access token for the user
func GenerateAccessToken(cfg *config.Config, u *models.User, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"sub":   u.ID,
		"role":  u.Role,
		"name":  u.Name,
		"email": u.Email,
		"iat":   time.Now().Unix(),
		"exp":   time.Now().Add(ttl).Unix(),
	}
	jt := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return jt.SignedString([]byte(cfg.JWT.Secret))
}

// mapToken exposes verified claims through middleware.Token.
type mapToken struct {
	claims jwt.MapClaims
}

func (t *mapToken) Claims(v interface{}) error {
	b, err := json.Marshal(t.claims)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, v)
}

// HMACVerifier validates tokens minted by GenerateAccessToken.
type HMACVerifier struct {
	secret []byte
}

func NewHMACVerifier(cfg *config.Config) *HMACVerifier {
	return &HMACVerifier{secret: []byte(cfg.JWT.Secret)}
}

func (v *HMACVerifier) Verify(ctx context.Context, raw string) (middleware.Token, error) {
	parsed, err := jwt.Parse(raw, func(token *jwt.Token) (interface{}, error) {
		return v.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok || !parsed.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}
	return &mapToken{claims: claims}, nil
}

// ExpiresAt reads the exp claim without checking the signature. Callers
// must only use it for tokens they are about to discard.
func ExpiresAt(raw string) (time.Time, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
		return time.Time{}, err
	}
	exp, err := claims.GetExpirationTime()
	if err != nil {
		return time.Time{}, err
	}
	if exp == nil {
		return time.Time{}, fmt.Errorf("exp claim not present")
	}
	return exp.Time, nil
}
