package auth

import "testing"

func TestGenerateAndValidateToken(t *testing.T) {
	token, err := GenerateToken(7, "alice", true)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	if token == "" {
		t.Fatalf("expected token")
	}

	claims, err := ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if claims.UserID != 7 {
		t.Fatalf("user id mismatch: %d", claims.UserID)
	}
	if claims.Username != "alice" {
		t.Fatalf("username mismatch: %s", claims.Username)
	}
	if !claims.IsAdmin {
		t.Fatalf("expected admin claim")
	}
}

func TestGenerateTokenEmptyUsername(t *testing.T) {
	if _, err := GenerateToken(1, "", false); err == nil {
		t.Fatalf("expected error for empty username")
	}
}

func TestValidateTokenGarbage(t *testing.T) {
	if _, err := ValidateToken("not-a-token"); err == nil {
		t.Fatalf("expected error for malformed token")
	}
}
