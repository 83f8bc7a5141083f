package credentials_test

import (
	"testing"
	"time"

	"attendance.service/pkg/credentials"
)

func newTestManager() *credentials.Manager {
	return credentials.NewManager("access-secret", "refresh-secret", time.Hour, 24*time.Hour)
}

func TestPasswordHashRoundTrip(t *testing.T) {
	m := newTestManager()

	hash, err := m.HashPassword("hunter22")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hash == "hunter22" {
		t.Fatal("hash equals the plaintext password")
	}
	if !m.CheckPassword(hash, "hunter22") {
		t.Error("correct password rejected")
	}
	if m.CheckPassword(hash, "hunter23") {
		t.Error("wrong password accepted")
	}
}

func TestTokenPairRoundTrip(t *testing.T) {
	m := newTestManager()

	pair, err := m.IssuePair("user-1", "ada@example.com", time.Now())
	if err != nil {
		t.Fatalf("IssuePair: %v", err)
	}

	claims, err := m.ParseAccess(pair.AccessToken)
	if err != nil {
		t.Fatalf("ParseAccess: %v", err)
	}
	if claims.UserID != "user-1" || claims.Email != "ada@example.com" {
		t.Errorf("claims = %+v", claims)
	}

	refreshClaims, err := m.ParseRefresh(pair.RefreshToken)
	if err != nil {
		t.Fatalf("ParseRefresh: %v", err)
	}
	if refreshClaims.UserID != "user-1" {
		t.Errorf("refresh claims = %+v", refreshClaims)
	}
}

func TestTokensAreNotInterchangeable(t *testing.T) {
	m := newTestManager()

	pair, err := m.IssuePair("user-1", "ada@example.com", time.Now())
	if err != nil {
		t.Fatalf("IssuePair: %v", err)
	}

	if _, err := m.ParseAccess(pair.RefreshToken); err == nil {
		t.Error("refresh token accepted as access token")
	}
	if _, err := m.ParseRefresh(pair.AccessToken); err == nil {
		t.Error("access token accepted as refresh token")
	}
}

func TestExpiredTokenRejected(t *testing.T) {
	m := newTestManager()

	pair, err := m.IssuePair("user-1", "ada@example.com", time.Now().Add(-48*time.Hour))
	if err != nil {
		t.Fatalf("IssuePair: %v", err)
	}

	if _, err := m.ParseAccess(pair.AccessToken); err == nil {
		t.Error("expired access token accepted")
	}
}

func TestForeignSecretRejected(t *testing.T) {
	other := credentials.NewManager("different-secret", "refresh-secret", time.Hour, time.Hour)

	pair, err := other.IssuePair("user-1", "ada@example.com", time.Now())
	if err != nil {
		t.Fatalf("IssuePair: %v", err)
	}

	if _, err := newTestManager().ParseAccess(pair.AccessToken); err == nil {
		t.Error("token signed with a foreign secret accepted")
	}
}
