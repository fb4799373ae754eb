package domain

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeInput(t *testing.T, body string) UserInput {
	t.Helper()
	var in UserInput
	require.NoError(t, json.Unmarshal([]byte(body), &in))
	return in
}

func TestField_UnmarshalJSON(t *testing.T) {
	t.Parallel()

	in := decodeInput(t, `{"name":"Ann","email":null,"age":"old"}`)

	assert.True(t, in.Name.HasValue())
	assert.Equal(t, "Ann", in.Name.Value)

	assert.True(t, in.Email.Present)
	assert.True(t, in.Email.Null)
	assert.False(t, in.Email.HasValue())

	assert.True(t, in.Age.Present)
	assert.True(t, in.Age.WrongType)
	assert.False(t, in.Age.HasValue())

	empty := decodeInput(t, `{}`)
	assert.True(t, empty.IsEmpty())
}

func TestSanitize(t *testing.T) {
	t.Parallel()

	in := decodeInput(t, `{"name":"  Ann Lee ","email":"ANN@Example.com ","age":29.9}`)
	out := Sanitize(in)

	assert.Equal(t, "Ann Lee", out.Name.Value)
	assert.Equal(t, "ann@example.com", out.Email.Value)
	assert.Equal(t, float64(29), out.Age.Value)

	// The original input is not modified.
	assert.Equal(t, "  Ann Lee ", in.Name.Value)
}

func TestValidateUserInput_Create(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		body     string
		expected []string
	}{
		{
			name:     "valid with age",
			body:     `{"name":"Ann Lee","email":"ann@example.com","age":29}`,
			expected: []string{},
		},
		{
			name:     "valid without age",
			body:     `{"name":"Ann Lee","email":"ann@example.com"}`,
			expected: []string{},
		},
		{
			name:     "age zero is valid",
			body:     `{"name":"Baby","email":"baby@example.com","age":0}`,
			expected: []string{},
		},
		{
			name:     "null age is unknown",
			body:     `{"name":"Ann Lee","email":"ann@example.com","age":null}`,
			expected: []string{},
		},
		{
			name:     "missing everything reports in field order",
			body:     `{"age":150}`,
			expected: []string{"Name is required", "Email is required", "Age must be between 0 and 100"},
		},
		{
			name:     "wrong types",
			body:     `{"name":12,"email":true,"age":"ten"}`,
			expected: []string{"Name must be a string", "Email must be a string", "Age must be a number"},
		},
		{
			name:     "name too short after trim",
			body:     `{"name":"  A  ","email":"a@example.com"}`,
			expected: []string{"Name must be between 2 and 100 characters"},
		},
		{
			name:     "whitespace-only name is required",
			body:     `{"name":"   ","email":"a@example.com"}`,
			expected: []string{"Name is required"},
		},
		{
			name:     "negative age",
			body:     `{"name":"Ann","email":"a@example.com","age":-1}`,
			expected: []string{"Age must be between 0 and 100"},
		},
		{
			name:     "age truncated into range",
			body:     `{"name":"Ann","email":"a@example.com","age":100.7}`,
			expected: []string{},
		},
		{
			name:     "invalid email format",
			body:     `{"name":"Ann","email":"not-an-email"}`,
			expected: []string{"Email must be a valid email address"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			in := Sanitize(decodeInput(t, tc.body))
			assert.Equal(t, tc.expected, ValidateUserInput(in, false))
		})
	}
}

func TestValidateUserInput_Bounds(t *testing.T) {
	t.Parallel()

	longName := strings.Repeat("a", MaxNameLength+1)
	in := Sanitize(UserInput{
		Name:  Set(longName),
		Email: Set(strings.Repeat("a", MaxEmailLength) + "@example.com"),
	})
	assert.Equal(t, []string{
		"Name must be between 2 and 100 characters",
		"Email must not exceed 255 characters",
	}, ValidateUserInput(in, false))

	// Lengths are counted in characters, not bytes.
	unicodeName := strings.Repeat("é", MaxNameLength)
	in = Sanitize(UserInput{Name: Set(unicodeName), Email: Set("e@example.com")})
	assert.Empty(t, ValidateUserInput(in, false))
}

func TestValidateUserInput_Partial(t *testing.T) {
	t.Parallel()

	t.Run("absent fields are skipped", func(t *testing.T) {
		in := Sanitize(decodeInput(t, `{"age":30}`))
		assert.Empty(t, ValidateUserInput(in, true))
	})

	t.Run("age above maximum", func(t *testing.T) {
		in := Sanitize(decodeInput(t, `{"age":150}`))
		errs := ValidateUserInput(in, true)
		require.Len(t, errs, 1)
		assert.Contains(t, errs[0], "100")
	})

	t.Run("present but empty name", func(t *testing.T) {
		in := Sanitize(decodeInput(t, `{"name":""}`))
		assert.Equal(t, []string{"Name is required"}, ValidateUserInput(in, true))
	})

	t.Run("null email is rejected", func(t *testing.T) {
		in := Sanitize(decodeInput(t, `{"email":null}`))
		assert.Equal(t, []string{"Email is required"}, ValidateUserInput(in, true))
	})
}

func TestUserInput_Conversions(t *testing.T) {
	t.Parallel()

	in := Sanitize(decodeInput(t, `{"name":"Ann Lee","email":" ANN@Example.com ","age":29}`))
	params := in.NewUserParams()
	assert.Equal(t, "Ann Lee", params.Name)
	assert.Equal(t, "ann@example.com", params.Email)
	require.NotNil(t, params.Age)
	assert.Equal(t, 29, *params.Age)

	patch := Sanitize(decodeInput(t, `{"email":"NEW@example.com"}`)).Patch()
	assert.Nil(t, patch.Name)
	require.NotNil(t, patch.Email)
	assert.Equal(t, "new@example.com", *patch.Email)
	assert.False(t, patch.SetAge)
	assert.False(t, patch.IsEmpty())

	clear := decodeInput(t, `{"age":null}`).Patch()
	assert.True(t, clear.SetAge)
	assert.Nil(t, clear.Age)

	assert.True(t, UserPatch{}.IsEmpty())
}

func TestValidationError(t *testing.T) {
	t.Parallel()

	err := NewValidationError([]string{"Name is required", "Email is required"})
	assert.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, "validation failed: Name is required; Email is required", err.Error())
}
