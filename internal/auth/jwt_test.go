package auth

import "testing"

func TestTokenRoundTrip(t *testing.T) {
	m := NewJWTManager("test-secret")

	token, err := m.GenerateViewerToken("dashboard")
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	claims, err := m.ValidateToken(token)
	if err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	if claims.Subject != "dashboard" {
		t.Fatalf("expected subject dashboard, got %q", claims.Subject)
	}
}

func TestTokenWrongSecretRejected(t *testing.T) {
	token, err := NewJWTManager("secret-a").GenerateViewerToken("dashboard")
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	if _, err := NewJWTManager("secret-b").ValidateToken(token); err == nil {
		t.Fatal("expected validation to fail with a different secret")
	}
}

func TestGarbageTokenRejected(t *testing.T) {
	if _, err := NewJWTManager("secret").ValidateToken("not.a.token"); err == nil {
		t.Fatal("expected validation to fail")
	}
}
