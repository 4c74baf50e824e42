package common

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClampLimit(t *testing.T) {
	assert.Equal(t, 5, ClampLimit(5, 1, 20))
	assert.Equal(t, 1, ClampLimit(0, 1, 20))
	assert.Equal(t, 1, ClampLimit(-3, 1, 20))
	assert.Equal(t, 20, ClampLimit(50, 1, 20))
}

func TestParsePage(t *testing.T) {
	cases := []struct {
		url    string
		limit  int
		offset int
	}{
		{"/x", 50, 0},
		{"/x?limit=10&offset=20", 10, 20},
		{"/x?limit=0", 1, 0},
		{"/x?limit=999", 100, 0},
		{"/x?limit=abc&offset=-5", 50, 0},
	}

	for _, tc := range cases {
		r := httptest.NewRequest("GET", tc.url, nil)
		page := ParsePage(r, 50, 100)
		assert.Equal(t, tc.limit, page.Limit, tc.url)
		assert.Equal(t, tc.offset, page.Offset, tc.url)
	}
}
