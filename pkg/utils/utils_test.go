package utils

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatNaira(t *testing.T) {
	tests := map[int64]string{
		0:       "₦0",
		100:     "₦100",
		1000:    "₦1,000",
		10500:   "₦10,500",
		1234567: "₦1,234,567",
		-2500:   "-₦2,500",
	}

	for in, want := range tests {
		assert.Equal(t, want, FormatNaira(in))
	}
}

func TestValidators(t *testing.T) {
	assert.True(t, ValidatePhone("08012345678"))
	assert.False(t, ValidatePhone("8012345678"))
	assert.False(t, ValidatePhone("080123456789"))
	assert.False(t, ValidatePhone("0801234567a"))

	assert.True(t, ValidateEmail("ada@example.com"))
	assert.False(t, ValidateEmail("ada@example"))
	assert.False(t, ValidateEmail("ada example@x.com"))

	assert.True(t, ValidatePin("0000"))
	assert.False(t, ValidatePin("123"))
	assert.False(t, ValidatePin("12a4"))
}

func TestFormatValidationError(t *testing.T) {
	type input struct {
		Name  string `json:"full_name" validate:"required"`
		Phone string `json:"phone" validate:"required,wallet_phone"`
		Pin   string `json:"pin" validate:"required,pin"`
	}

	err := ValidateStruct(input{Phone: "123", Pin: "12"})
	fields := FormatValidationError(err, map[string]string{"phone": "Invalid phone (11 digits)"})

	assert.Equal(t, "full_name is required", fields["full_name"])
	assert.Equal(t, "Invalid phone (11 digits)", fields["phone"])
	assert.Equal(t, "pin is invalid", fields["pin"])
}

func TestGetPaginationDetails(t *testing.T) {
	r := httptest.NewRequest("GET", "/?limit=500&page=3", nil)
	limit, offset, page := GetPaginationDetails(r)
	assert.Equal(t, 100, limit)
	assert.Equal(t, 200, offset)
	assert.Equal(t, 3, page)

	r = httptest.NewRequest("GET", "/?limit=-1&page=zero", nil)
	limit, offset, page = GetPaginationDetails(r)
	assert.Equal(t, 10, limit)
	assert.Equal(t, 0, offset)
	assert.Equal(t, 1, page)

	assert.Equal(t, 3, BuildMeta(21, 10, 1).TotalPages)
}
