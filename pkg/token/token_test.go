package token

import (
	"strings"
	"testing"
)

func TestGenerateAndValidate(t *testing.T) {
	signed, err := GenerateJWT("ops", RoleOperator, "secret", 5)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	claims, err := ValidateJWT(signed, "secret")
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if claims.Operator != "ops" || claims.Role != RoleOperator {
		t.Fatalf("unexpected claims %+v", claims)
	}
}

func TestValidateRejects(t *testing.T) {
	good, err := GenerateJWT("ops", RoleOperator, "secret", 5)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	expired, err := GenerateJWT("ops", RoleOperator, "secret", -5)
	if err != nil {
		t.Fatalf("generate expired: %v", err)
	}

	tests := []struct {
		name   string
		token  string
		secret string
		want   string
	}{
		{"empty", "", "secret", "empty"},
		{"wrong secret", good, "other", "signature"},
		{"expired", expired, "secret", "expired"},
		{"garbage", "not.a.jwt", "secret", "could not parse"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ValidateJWT(tt.token, tt.secret)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected %q in %v", tt.want, err)
			}
		})
	}
}
