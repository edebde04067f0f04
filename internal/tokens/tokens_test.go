package tokens

import (
	"context"
	"encoding/base64"
	"strings"
	"testing"
	"time"

	"github.com/folio-studio/portfolio-api/internal/config"
	"github.com/folio-studio/portfolio-api/internal/models"
)

func b64(b []byte) string { return base64.RawURLEncoding.EncodeToString(b) }

func TestGenerateAccessToken_ValidAndClaims(t *testing.T) {
	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret-32-bytes-should-be-long-enough"

	u := &models.User{ID: "user-123", Name: "Test User", Email: "test@example.com", Role: models.RoleAdmin}
	tokenStr, err := GenerateAccessToken(cfg, u, 2*time.Minute)
	if err != nil {
		t.Fatalf("GenerateAccessToken error: %v", err)
	}

	tok, err := NewHMACVerifier(cfg).Verify(context.Background(), tokenStr)
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	var claims map[string]interface{}
	if err := tok.Claims(&claims); err != nil {
		t.Fatalf("claims: %v", err)
	}
	if claims["sub"] != u.ID {
		t.Fatalf("unexpected sub claim: got=%v want=%v", claims["sub"], u.ID)
	}
	if claims["role"] != models.RoleAdmin {
		t.Fatalf("unexpected role claim: %v", claims["role"])
	}
}

func TestVerify_Expired(t *testing.T) {
	cfg := &config.Config{}
	cfg.JWT.Secret = "another-secret-32-bytes-longgggg"
	u := &models.User{ID: "u2", Name: "X", Email: "x@x", Role: models.RoleAdmin}
	tokenStr, err := GenerateAccessToken(cfg, u, -time.Minute)
	if err != nil {
		t.Fatalf("GenerateAccessToken error: %v", err)
	}
	if _, err := NewHMACVerifier(cfg).Verify(context.Background(), tokenStr); err == nil {
		t.Fatalf("expected verification to fail for expired token")
	}
}

func TestVerify_WrongSecretFails(t *testing.T) {
	cfg := &config.Config{}
	cfg.JWT.Secret = "secret-one-32-bytes-xxxxxxxxxxxxxxxx"
	u := &models.User{ID: "u3", Name: "Bob", Email: "bob@example.com", Role: models.RoleAdmin}
	tokenStr, err := GenerateAccessToken(cfg, u, 2*time.Minute)
	if err != nil {
		t.Fatalf("GenerateAccessToken error: %v", err)
	}
	other := &config.Config{}
	other.JWT.Secret = "different-secret-xxxxxxxxxxxxxxxx"
	if _, err := NewHMACVerifier(other).Verify(context.Background(), tokenStr); err == nil {
		t.Fatalf("expected verify to fail with wrong secret")
	}
}

func TestVerify_Malformed(t *testing.T) {
	cfg := &config.Config{}
	cfg.JWT.Secret = "x"
	if _, err := NewHMACVerifier(cfg).Verify(context.Background(), "not.a.jwt"); err == nil {
		t.Fatalf("expected verify to fail for malformed token")
	}
}

// Rejected when alg=none (unsigned token)
func TestVerify_AlgNoneRejected(t *testing.T) {
	cfg := &config.Config{}
	cfg.JWT.Secret = "x"
	headerEnc := b64([]byte(`{"alg":"none"}`))
	payloadEnc := b64([]byte(`{"sub":"u-none","role":"admin","exp":9999999999}`))
	tok := headerEnc + "." + payloadEnc + "."
	if _, err := NewHMACVerifier(cfg).Verify(context.Background(), tok); err == nil {
		t.Fatalf("expected verify to reject alg=none token")
	}
}

// Tampering with payload must fail signature verification
func TestVerify_TamperedPayload(t *testing.T) {
	cfg := &config.Config{}
	cfg.JWT.Secret = "tamper-test-secret-32-bytes-xxxxxxx"
	u := &models.User{ID: "user-t", Name: "Tamper", Email: "t@example.com", Role: models.RoleAdmin}
	tokenStr, err := GenerateAccessToken(cfg, u, 5*time.Minute)
	if err != nil {
		t.Fatalf("GenerateAccessToken error: %v", err)
	}
	parts := strings.Split(tokenStr, ".")
	if len(parts) != 3 {
		t.Fatalf("unexpected token parts")
	}
	payloadBytes, _ := base64.RawURLEncoding.DecodeString(parts[1])
	payloadStr := strings.Replace(string(payloadBytes), "user-t", "attacker", 1)
	parts[1] = b64([]byte(payloadStr))
	if _, err := NewHMACVerifier(cfg).Verify(context.Background(), strings.Join(parts, ".")); err == nil {
		t.Fatalf("expected signature verification to fail for tampered token")
	}
}

func TestExpiresAt(t *testing.T) {
	cfg := &config.Config{}
	cfg.JWT.Secret = "s"
	u := &models.User{ID: "u1", Role: models.RoleAdmin}

	tokenStr, err := GenerateAccessToken(cfg, u, time.Hour)
	if err != nil {
		t.Fatalf("GenerateAccessToken error: %v", err)
	}
	exp, err := ExpiresAt(tokenStr)
	if err != nil {
		t.Fatalf("ExpiresAt error: %v", err)
	}
	if d := time.Until(exp); d < 59*time.Minute || d > time.Hour+time.Second {
		t.Fatalf("unexpected remaining lifetime %s", d)
	}

	if _, err := ExpiresAt("not-a-token"); err == nil {
		t.Fatalf("expected error for malformed token")
	}
}
