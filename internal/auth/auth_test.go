package auth

import (
	"strings"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"
)

func TestCheckPassword(t *testing.T) {
	digest, err := bcrypt.GenerateFromPassword([]byte("hemligt"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}

	tests := []struct {
		name       string
		configured string
		supplied   string
		want       bool
	}{
		{"plaintext match", "hemligt", "hemligt", true},
		{"plaintext mismatch", "hemligt", "fel", false},
		{"bcrypt match", string(digest), "hemligt", true},
		{"bcrypt mismatch", string(digest), "fel", false},
		{"unconfigured user", "", "", false},
	}
	for _, tt := range tests {
		if got := CheckPassword(tt.configured, tt.supplied); got != tt.want {
			t.Errorf("%s: CheckPassword() = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestParseRole(t *testing.T) {
	if ParseRole("admin") != RoleAdmin {
		t.Errorf("ParseRole(admin) != RoleAdmin")
	}
	// unknown strings collapse to the ordinary user role
	for _, s := range []string{"user", "", "root", "Admin"} {
		if ParseRole(s) != RoleUser {
			t.Errorf("ParseRole(%q) = %q, want user", s, ParseRole(s))
		}
	}
}

func TestRoleAllows(t *testing.T) {
	if !RoleAdmin.Allows(RoleUser) || !RoleAdmin.Allows(RoleAdmin) {
		t.Errorf("admin should be allowed everywhere")
	}
	if RoleUser.Allows(RoleAdmin) {
		t.Errorf("user must not pass the admin gate")
	}
	if !RoleUser.Allows(RoleUser) {
		t.Errorf("user should pass the user gate")
	}
}

func TestTokenRoundTrip(t *testing.T) {
	token, err := GenerateToken("s3cret", "anna", RoleUser, time.Hour)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	claims, err := ParseToken("s3cret", token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.Username != "anna" || claims.Role != RoleUser {
		t.Errorf("claims = %+v, want anna/user", claims)
	}
	if until := time.Until(claims.ExpiresAt.Time); until > time.Hour || until < 50*time.Minute {
		t.Errorf("expiry %v away, want about an hour", until)
	}

	if _, err := ParseToken("other-secret", token); err == nil {
		t.Errorf("token verified under the wrong secret")
	}
}

func TestParseToken_Expired(t *testing.T) {
	token, err := GenerateToken("s3cret", "anna", RoleUser, time.Nanosecond)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	time.Sleep(10 * time.Millisecond)
	if _, err := ParseToken("s3cret", token); err == nil {
		t.Errorf("expired token verified")
	} else if !strings.Contains(err.Error(), "expired") {
		t.Errorf("error = %v, want an expiry error", err)
	}
}
