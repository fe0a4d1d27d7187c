package utils

import (
	"testing"

	"github.com/dankdeals/dankdeals-backend-go/models"
)

func TestJWTRoundTrip(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	token, err := GenerateJWT("user-123", models.RoleAdmin)
	if err != nil {
		t.Fatalf("GenerateJWT: %v", err)
	}

	claims, err := ValidateJWT(token)
	if err != nil {
		t.Fatalf("ValidateJWT: %v", err)
	}
	if claims.UserID != "user-123" {
		t.Errorf("UserID = %q", claims.UserID)
	}
	if claims.Role != models.RoleAdmin {
		t.Errorf("Role = %q", claims.Role)
	}
}

func TestValidateJWTRejectsWrongSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	token, err := GenerateJWT("user-123", models.RoleCustomer)
	if err != nil {
		t.Fatalf("GenerateJWT: %v", err)
	}

	t.Setenv("JWT_SECRET", "different-secret")
	if _, err := ValidateJWT(token); err == nil {
		t.Error("token signed with another secret should be rejected")
	}
}
