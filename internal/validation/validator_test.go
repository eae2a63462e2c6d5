package validation_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	domainerrors "github.com/recordshopapp/recordshop-server/internal/errors"
	"github.com/recordshopapp/recordshop-server/internal/validation"
)

type TestRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=1024"`
	Name     string `json:"name" validate:"required"`
	Cost     int64  `json:"cost" validate:"omitempty,gt=0"`
}

func TestValidator_ValidateSuccess(t *testing.T) {
	v := validation.New()

	req := TestRequest{
		Email:    "test@example.com",
		Password: "password123",
		Name:     "Test User",
		Cost:     1500,
	}

	assert.NoError(t, v.Validate(req))
}

func TestValidator_ValidateErrors(t *testing.T) {
	v := validation.New()

	tests := []struct {
		name      string
		req       TestRequest
		wantField string
	}{
		{
			name: "missing required field",
			req: TestRequest{
				Email:    "test@example.com",
				Password: "password123",
				Name:     "",
			},
			wantField: "name",
		},
		{
			name: "invalid email",
			req: TestRequest{
				Email:    "not-an-email",
				Password: "password123",
				Name:     "Test",
			},
			wantField: "email",
		},
		{
			name: "password too short",
			req: TestRequest{
				Email:    "test@example.com",
				Password: "short",
				Name:     "Test",
			},
			wantField: "password",
		},
		{
			name: "cost not positive",
			req: TestRequest{
				Email:    "test@example.com",
				Password: "password123",
				Name:     "Test",
				Cost:     -5,
			},
			wantField: "cost",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.req)
			assert.Error(t, err)

			var domainErr *domainerrors.Error
			if assert.ErrorAs(t, err, &domainErr) {
				assert.Equal(t, http.StatusBadRequest, domainErr.HTTPStatus())
				fields, ok := domainErr.Details.(map[string]string)
				if assert.True(t, ok) {
					assert.Contains(t, fields, tt.wantField)
				}
			}
		})
	}
}

func TestValidator_JSONFieldNames(t *testing.T) {
	v := validation.New()

	req := TestRequest{
		Email:    "",
		Password: "password123",
		Name:     "Test",
	}

	err := v.Validate(req)
	assert.Error(t, err)

	var domainErr *domainerrors.Error
	assert.ErrorAs(t, err, &domainErr)
	fields, ok := domainErr.Details.(map[string]string)
	assert.True(t, ok)
	assert.Contains(t, fields, "email")
	assert.NotContains(t, fields, "Email")
}
