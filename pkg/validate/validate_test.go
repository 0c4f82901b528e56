package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type registerInput struct {
	Name     string  `json:"name" validate:"required|min:2|max:50"`
	Email    string  `json:"email" validate:"required|email"`
	Password string  `json:"password" validate:"required|min:6"`
	Website  string  `json:"website" validate:"nullable|url"`
	Role     string  `json:"role" validate:"required|in:worker,admin,superadmin"`
	Age      int     `json:"age" validate:"gte:18|lte:120"`
	Price    float64 `json:"price" validate:"numeric|min:0"`
}

func valid() registerInput {
	return registerInput{
		Name:     "Maria",
		Email:    "maria@duolink.pe",
		Password: "secret1",
		Role:     "admin",
		Age:      30,
		Price:    10.5,
	}
}

func TestStructPassesValidInput(t *testing.T) {
	errs := Struct(valid())
	assert.False(t, HasErrors(errs), "unexpected errors: %v", errs)
}

func TestStructAcceptsPointer(t *testing.T) {
	in := valid()
	assert.Empty(t, Struct(&in))
}

func TestPointerFields(t *testing.T) {
	type input struct {
		Qty *int `json:"qty" validate:"required|gte:0"`
	}

	assert.Contains(t, Struct(input{}), "qty", "nil pointer fails required")

	neg := -1
	assert.Contains(t, Struct(input{Qty: &neg}), "qty")

	zero := 0
	assert.Empty(t, Struct(input{Qty: &zero}))
}

func TestRequired(t *testing.T) {
	in := valid()
	in.Name = ""
	errs := Struct(in)
	assert.Contains(t, errs, "name")

	in.Name = "   "
	assert.Contains(t, Struct(in), "name", "whitespace-only counts as empty")
}

func TestEmail(t *testing.T) {
	in := valid()
	for _, bad := range []string{"maria", "maria@", "@duolink.pe", "maria duolink.pe"} {
		in.Email = bad
		assert.Contains(t, Struct(in), "email", "expected %q to be rejected", bad)
	}
}

func TestMinMaxStringLength(t *testing.T) {
	in := valid()
	in.Name = "M"
	assert.Contains(t, Struct(in), "name")

	in.Name = "Maria"
	in.Password = "12345"
	errs := Struct(in)
	assert.Equal(t, "The password field must be at least 6 characters.", errs["password"])
}

func TestNullableSkipsWhenEmpty(t *testing.T) {
	in := valid()
	in.Website = ""
	assert.NotContains(t, Struct(in), "website")

	in.Website = "not-a-url"
	assert.Contains(t, Struct(in), "website")

	in.Website = "https://duolink.pe"
	assert.NotContains(t, Struct(in), "website")
}

func TestIn(t *testing.T) {
	in := valid()
	in.Role = "root"
	errs := Struct(in)
	assert.Equal(t, "The role field must be one of: worker, admin, superadmin.", errs["role"])
}

func TestNumericBounds(t *testing.T) {
	in := valid()
	in.Age = 17
	assert.Contains(t, Struct(in), "age")

	in.Age = 121
	assert.Contains(t, Struct(in), "age")

	in.Age = 18
	assert.NotContains(t, Struct(in), "age")

	in.Price = -0.01
	assert.Contains(t, Struct(in), "price")
}

func TestFirstFailingRuleWins(t *testing.T) {
	in := valid()
	in.Email = ""
	errs := Struct(in)
	assert.Equal(t, "The email field is required.", errs["email"])
}

func TestFieldNameFallsBackToGoName(t *testing.T) {
	type noTag struct {
		Code string `validate:"required"`
	}
	errs := Struct(noTag{})
	assert.Contains(t, errs, "Code")
}

func TestBooleanAndInteger(t *testing.T) {
	type flags struct {
		Active string `json:"active" validate:"boolean"`
		Count  string `json:"count" validate:"integer"`
	}

	assert.Empty(t, Struct(flags{Active: "true", Count: "42"}))

	errs := Struct(flags{Active: "yes", Count: "4.2"})
	assert.Contains(t, errs, "active")
	assert.Contains(t, errs, "count")
}

func TestNonStructIsIgnored(t *testing.T) {
	assert.Empty(t, Struct("not a struct"))
	assert.Empty(t, Struct(42))
}
