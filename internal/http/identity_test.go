package http

import (
	"errors"
	"testing"
)

func TestPrincipalFromHeader(t *testing.T) {
	t.Run("valid uuid", func(t *testing.T) {
		id, err := PrincipalFromHeader("  f3b1f3a0-0000-4000-8000-000000000001 ")
		if err != nil {
			t.Fatalf("principalFromHeader: %v", err)
		}
		if id != "f3b1f3a0-0000-4000-8000-000000000001" {
			t.Fatalf("unexpected principal %q", id)
		}
	})

	t.Run("empty header", func(t *testing.T) {
		if _, err := PrincipalFromHeader("   "); !errors.Is(err, ErrNoPrincipal) {
			t.Fatalf("expected ErrNoPrincipal, got %v", err)
		}
	})

	t.Run("malformed token", func(t *testing.T) {
		for _, value := range []string{"not-a-uuid", "Bearer f3b1f3a0-0000-4000-8000-000000000001", "123"} {
			if _, err := PrincipalFromHeader(value); !errors.Is(err, ErrInvalidPrincipal) {
				t.Fatalf("value %q: expected ErrInvalidPrincipal, got %v", value, err)
			}
		}
	})
}
