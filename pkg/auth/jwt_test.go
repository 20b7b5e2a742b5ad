package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func newTestJWTService(t *testing.T) *JWTService {
	t.Helper()
	svc, err := NewJWTService(JWTConfig{
		Secret:     "test-secret-key-for-unit-tests",
		Issuer:     "riskd-test",
		Expiration: 15 * time.Minute,
	})
	if err != nil {
		t.Fatalf("NewJWTService() error = %v", err)
	}
	return svc
}

func TestGenerateAndValidateToken(t *testing.T) {
	svc := newTestJWTService(t)
	userID := uuid.New()
	roles := []string{RoleAdmin, RoleOperator}

	tokenString, err := svc.GenerateToken(userID, roles)
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}
	if tokenString == "" {
		t.Fatal("GenerateToken() returned empty token")
	}

	claims, err := svc.ValidateToken(tokenString)
	if err != nil {
		t.Fatalf("ValidateToken() error = %v", err)
	}

	if claims.UserID != userID {
		t.Errorf("UserID = %v, want %v", claims.UserID, userID)
	}
	if len(claims.Roles) != 2 {
		t.Fatalf("Roles length = %d, want 2", len(claims.Roles))
	}
	if claims.Roles[0] != RoleAdmin || claims.Roles[1] != RoleOperator {
		t.Errorf("Roles = %v, want [%s, %s]", claims.Roles, RoleAdmin, RoleOperator)
	}
	if claims.Issuer != "riskd-test" {
		t.Errorf("Issuer = %q, want %q", claims.Issuer, "riskd-test")
	}
	if claims.Subject != userID.String() {
		t.Errorf("Subject = %q, want %q", claims.Subject, userID.String())
	}
}

func TestValidateToken_Expired(t *testing.T) {
	svc, err := NewJWTService(JWTConfig{
		Secret:     "test-secret-key-for-unit-tests",
		Issuer:     "riskd-test",
		Expiration: -1 * time.Minute,
	})
	if err != nil {
		t.Fatalf("NewJWTService() error = %v", err)
	}

	tokenString, err := svc.GenerateToken(uuid.New(), []string{RoleCustomer})
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}

	if _, err := svc.ValidateToken(tokenString); err == nil {
		t.Fatal("expected error validating expired token")
	}
}

func TestValidateToken_WrongSecret(t *testing.T) {
	svc := newTestJWTService(t)

	tokenString, err := svc.GenerateToken(uuid.New(), []string{RoleCustomer})
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}

	other, err := NewJWTService(JWTConfig{
		Secret: "a-completely-different-secret",
		Issuer: "riskd-test",
	})
	if err != nil {
		t.Fatalf("NewJWTService() error = %v", err)
	}

	if _, err := other.ValidateToken(tokenString); err == nil {
		t.Fatal("expected error validating token with wrong secret")
	}
}

func TestValidateToken_WrongIssuer(t *testing.T) {
	issuing, err := NewJWTService(JWTConfig{
		Secret:     "test-secret-key-for-unit-tests",
		Issuer:     "someone-else",
		Expiration: 15 * time.Minute,
	})
	if err != nil {
		t.Fatalf("NewJWTService() error = %v", err)
	}

	tokenString, err := issuing.GenerateToken(uuid.New(), []string{RoleCustomer})
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}

	validating := newTestJWTService(t)
	if _, err := validating.ValidateToken(tokenString); err == nil {
		t.Fatal("expected error for issuer mismatch")
	}
}

func TestNewJWTService_RequiresKeyMaterial(t *testing.T) {
	if _, err := NewJWTService(JWTConfig{}); err == nil {
		t.Fatal("expected error for empty configuration")
	}
}

func TestHasRole(t *testing.T) {
	claims := Claims{Roles: []string{RoleOperator, RoleAuditor}}

	if !claims.HasRole(RoleOperator) {
		t.Error("expected HasRole(operator) to be true")
	}
	if claims.HasRole(RoleAdmin) {
		t.Error("expected HasRole(admin) to be false")
	}
}
