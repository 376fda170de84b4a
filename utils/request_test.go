package utils

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeJSON(t *testing.T) {
	var v struct {
		Name string `json:"name"`
	}
	r := httptest.NewRequest("POST", "/", strings.NewReader(`{"name":"Sport Elite"}`))
	require.NoError(t, DecodeJSON(r, &v))
	assert.Equal(t, "Sport Elite", v.Name)

	r = httptest.NewRequest("POST", "/", strings.NewReader(`{"nome":"x"}`))
	assert.Error(t, DecodeJSON(r, &v))
}

func TestOptionalFloat(t *testing.T) {
	v, err := OptionalFloat("")
	require.NoError(t, err)
	assert.Nil(t, v)

	v, err = OptionalFloat(" 42.5 ")
	require.NoError(t, err)
	assert.Equal(t, 42.5, *v)

	_, err = OptionalFloat("abc")
	assert.Error(t, err)
}

func TestSanitizeFilename(t *testing.T) {
	assert.Equal(t, "Royal_Heritage-virtual-try-on.png", SanitizeFilename("Royal Heritage-virtual-try-on.png"))
	assert.Equal(t, "passwd", SanitizeFilename("../../etc/passwd"))
	assert.Equal(t, "file", SanitizeFilename(""))
}
