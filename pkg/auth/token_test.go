package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/angelmondragon/tienda-backend/pkg/config"
	"github.com/angelmondragon/tienda-backend/pkg/enums"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "secret",
		Issuer:            "tienda",
		ExpirationMinutes: 30,
	}
}

func TestMintAndParseAccessToken(t *testing.T) {
	cfg := testJWTConfig()
	now := time.Now().UTC()
	userID := uuid.New()

	token, expiresAt, err := MintAccessToken(cfg, now, AccessTokenPayload{
		UserID:   userID,
		Email:    "ana@example.com",
		Username: "ana",
		Role:     enums.UserRoleAdmin,
	})
	if err != nil {
		t.Fatalf("mint access token: %v", err)
	}
	if !expiresAt.Equal(now.Add(30 * time.Minute)) {
		t.Fatalf("unexpected expiry %s", expiresAt)
	}

	claims, err := ParseAccessToken(cfg, token)
	if err != nil {
		t.Fatalf("parse access token: %v", err)
	}
	if claims.UserID != userID {
		t.Fatalf("expected user_id %s, got %s", userID, claims.UserID)
	}
	if claims.Email != "ana@example.com" || claims.Username != "ana" {
		t.Fatalf("identity not preserved: %+v", claims)
	}
	if !claims.IsAdmin() {
		t.Fatalf("expected admin role, got %s", claims.Role)
	}
	if claims.Issuer != cfg.Issuer {
		t.Fatalf("issuer mismatch: %s", claims.Issuer)
	}
	if claims.ID == "" {
		t.Fatal("expected jti to be generated")
	}
	if remaining := claims.RemainingTTL(now); remaining <= 29*time.Minute {
		t.Fatalf("unexpected remaining ttl %s", remaining)
	}
}

func TestMintAccessTokenKeepsProvidedJTI(t *testing.T) {
	token, _, err := MintAccessToken(testJWTConfig(), time.Now(), AccessTokenPayload{
		UserID: uuid.New(),
		Role:   enums.UserRoleUser,
		JTI:    " fixed-jti ",
	})
	if err != nil {
		t.Fatalf("mint: %v", err)
	}
	claims, err := ParseAccessToken(testJWTConfig(), token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.ID != "fixed-jti" {
		t.Fatalf("expected trimmed jti, got %q", claims.ID)
	}
}

func TestMintAccessTokenValidation(t *testing.T) {
	valid := AccessTokenPayload{UserID: uuid.New(), Role: enums.UserRoleUser}
	cases := []struct {
		name    string
		cfg     config.JWTConfig
		payload AccessTokenPayload
	}{
		{"missing secret", config.JWTConfig{Issuer: "tienda", ExpirationMinutes: 1}, valid},
		{"missing issuer", config.JWTConfig{Secret: "s", ExpirationMinutes: 1}, valid},
		{"zero expiry", config.JWTConfig{Secret: "s", Issuer: "tienda"}, valid},
		{"nil user", testJWTConfig(), AccessTokenPayload{Role: enums.UserRoleUser}},
		{"bad role", testJWTConfig(), AccessTokenPayload{UserID: uuid.New(), Role: "owner"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, _, err := MintAccessToken(tc.cfg, time.Now(), tc.payload); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestParseAccessTokenRejectsExpired(t *testing.T) {
	cfg := testJWTConfig()
	token, _, err := MintAccessToken(cfg, time.Now().Add(-2*time.Hour), AccessTokenPayload{
		UserID: uuid.New(),
		Role:   enums.UserRoleUser,
	})
	if err != nil {
		t.Fatalf("mint: %v", err)
	}
	if _, err := ParseAccessToken(cfg, token); err == nil {
		t.Fatal("expected expired token to be rejected")
	}
}

func TestParseAccessTokenRejectsWrongSecretAndIssuer(t *testing.T) {
	cfg := testJWTConfig()
	token, _, err := MintAccessToken(cfg, time.Now(), AccessTokenPayload{UserID: uuid.New(), Role: enums.UserRoleUser})
	if err != nil {
		t.Fatalf("mint: %v", err)
	}

	other := cfg
	other.Secret = "another"
	if _, err := ParseAccessToken(other, token); err == nil {
		t.Fatal("expected signature mismatch")
	}

	other = cfg
	other.Issuer = "someone-else"
	if _, err := ParseAccessToken(other, token); err == nil {
		t.Fatal("expected issuer mismatch")
	}
}

func TestParseAccessTokenRejectsOtherAlgorithms(t *testing.T) {
	cfg := testJWTConfig()
	claims := AccessTokenClaims{
		UserID: uuid.New(),
		Role:   enums.UserRoleUser,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    cfg.Issuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte(cfg.Secret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := ParseAccessToken(cfg, token); err == nil || !strings.Contains(err.Error(), "signing method") {
		t.Fatalf("expected signing method error, got %v", err)
	}
}
