package validator_test

import (
	"strings"
	"testing"

	"fleet/shared/validator"
)

type createRequest struct {
	Name  string  `json:"name"  validate:"required,max=100"`
	Email string  `json:"email" validate:"omitempty,email"`
	Price float64 `json:"price" validate:"required,gt=0"`
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{
			name: "valid body",
			body: `{"name":"Toyota Avanza","email":"owner@example.com","price":50}`,
		},
		{
			name:    "missing required field",
			body:    `{"email":"owner@example.com","price":50}`,
			wantErr: true,
		},
		{
			name:    "invalid email",
			body:    `{"name":"Toyota Avanza","email":"not-an-email","price":50}`,
			wantErr: true,
		},
		{
			name:    "non-positive price",
			body:    `{"name":"Toyota Avanza","price":0}`,
			wantErr: true,
		},
		{
			name:    "malformed json",
			body:    `{"name":`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := createRequest{}
			err := validator.Validate(strings.NewReader(tt.body), &req)

			if tt.wantErr && err == nil {
				t.Error("expected an error, got nil")
			}

			if !tt.wantErr && err != nil {
				t.Errorf("expected no error, got %v", err)
			}
		})
	}
}

func TestValidateVar(t *testing.T) {
	if err := validator.ValidateVar("cancelled", "oneof=cancelled returned"); err != nil {
		t.Errorf("expected no error, got %v", err)
	}

	if err := validator.ValidateVar("active", "oneof=cancelled returned"); err == nil {
		t.Error("expected an error, got nil")
	}
}
