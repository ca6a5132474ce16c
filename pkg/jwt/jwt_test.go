package jwt

import (
	"errors"
	"testing"
	"time"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	m := NewManager("secret", time.Minute)
	token, err := m.GenerateAccessToken("u-1", "Ann Lee", "admin")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	claims, err := m.ValidateAccessToken(token)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if claims.UserID != "u-1" || claims.Name != "Ann Lee" || claims.Role != "admin" {
		t.Fatalf("unexpected claims %+v", claims)
	}
}

func TestValidateAccessTokenFailures(t *testing.T) {
	m := NewManager("secret", time.Minute)
	good, _ := m.GenerateAccessToken("u-1", "Ann", "member")
	expired, _ := NewManager("secret", -time.Minute).GenerateAccessToken("u-1", "Ann", "member")
	other, _ := NewManager("other", time.Minute).GenerateAccessToken("u-1", "Ann", "member")

	tests := []struct {
		name  string
		token string
		want  error
	}{
		{"expired", expired, ErrTokenExpired},
		{"wrong secret", other, ErrTokenInvalid},
		{"garbage", "not-a-token", ErrTokenInvalid},
		{"truncated", good[:len(good)-4], ErrTokenInvalid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := m.ValidateAccessToken(tt.token)
			if !errors.Is(err, tt.want) {
				t.Fatalf("got %v, want %v", err, tt.want)
			}
		})
	}
}
