package validators

import (
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Content string `json:"content" validate:"required,max=5"`
}

func TestValidate(t *testing.T) {
	v := NewValidator()
	assert.NoError(t, v.Validate(&sample{Content: "hi"}))

	err := v.Validate(&sample{})
	var he *echo.HTTPError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, http.StatusBadRequest, he.Code)
	assert.Equal(t, "content is required", he.Message)

	err = v.Validate(&sample{Content: "too long"})
	require.ErrorAs(t, err, &he)
	assert.Equal(t, "content must be at most 5 characters", he.Message)
}
