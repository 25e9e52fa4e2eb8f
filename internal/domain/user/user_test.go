package user

import (
	"errors"
	"testing"

	"github.com/ArchieBar/task-tracker-it1/internal/domain"
)

func TestUserValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		user       User
		wantFields []string
	}{
		{
			name: "valid user",
			user: User{FirstName: "Grace", LastName: "Hopper", Email: "grace@example.com"},
		},
		{
			name:       "missing first name",
			user:       User{LastName: "Hopper", Email: "grace@example.com"},
			wantFields: []string{"first_name"},
		},
		{
			name:       "missing last name",
			user:       User{FirstName: "Grace", Email: "grace@example.com"},
			wantFields: []string{"last_name"},
		},
		{
			name:       "missing email",
			user:       User{FirstName: "Grace", LastName: "Hopper"},
			wantFields: []string{"email"},
		},
		{
			name:       "malformed email",
			user:       User{FirstName: "Grace", LastName: "Hopper", Email: "not-an-email"},
			wantFields: []string{"email"},
		},
		{
			name:       "everything missing",
			user:       User{},
			wantFields: []string{"first_name", "last_name", "email"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.user.Validate()
			if len(tt.wantFields) == 0 {
				if err != nil {
					t.Fatalf("Validate() unexpected error: %v", err)
				}
				return
			}

			if !errors.Is(err, domain.ErrValidation) {
				t.Fatalf("Validate() = %v, want validation error", err)
			}

			var verr *domain.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected *domain.ValidationError, got %T", err)
			}
			if len(verr.Fields) != len(tt.wantFields) {
				t.Fatalf("got %d field errors %v, want %d", len(verr.Fields), verr.Fields, len(tt.wantFields))
			}
			for _, field := range tt.wantFields {
				if _, ok := verr.Fields[field]; !ok {
					t.Errorf("missing field error for %q in %v", field, verr.Fields)
				}
			}
		})
	}
}

func TestFullName(t *testing.T) {
	t.Parallel()

	u := User{FirstName: "Grace", LastName: "Hopper"}
	if got := u.FullName(); got != "Grace Hopper" {
		t.Errorf("FullName() = %q, want %q", got, "Grace Hopper")
	}

	only := User{FirstName: "Grace"}
	if got := only.FullName(); got != "Grace" {
		t.Errorf("FullName() = %q, want %q", got, "Grace")
	}
}
