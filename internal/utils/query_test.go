package utils

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePagination(t *testing.T) {
	tests := []struct {
		name   string
		query  string
		page   int
		limit  int
		offset int
	}{
		{"Defaults", "", 1, 10, 0},
		{"Explicit", "?page=3&limit=5", 3, 5, 10},
		{"Garbage", "?page=abc&limit=-2", 1, 10, 0},
		{"Capped", "?limit=1000", 1, MaxPageLimit, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := ParsePagination(httptest.NewRequest(http.MethodGet, "/api/orders"+tt.query, nil))
			assert.Equal(t, tt.page, p.Page)
			assert.Equal(t, tt.limit, p.Limit)
			assert.Equal(t, tt.offset, p.Offset())
		})
	}
}

func TestParseBool(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/api/orders?isPaid=true&isDelivered=maybe", nil)

	paid := ParseBool(r, "isPaid")
	if assert.NotNil(t, paid) {
		assert.True(t, *paid)
	}
	assert.Nil(t, ParseBool(r, "isDelivered"))
	assert.Nil(t, ParseBool(r, "missing"))
}

func TestParseSort(t *testing.T) {
	allowed := map[string]string{"createdAt": "created_at", "totalPrice": "total_price"}
	fallback := Sort{Column: "created_at", Desc: true}

	r := httptest.NewRequest(http.MethodGet, "/?sort=-totalPrice", nil)
	assert.Equal(t, "total_price DESC", ParseSort(r, allowed, fallback).SQL())

	r = httptest.NewRequest(http.MethodGet, "/?sort=createdAt", nil)
	assert.Equal(t, "created_at ASC", ParseSort(r, allowed, fallback).SQL())

	r = httptest.NewRequest(http.MethodGet, "/?sort=password", nil)
	assert.Equal(t, fallback, ParseSort(r, allowed, fallback))
}

func TestIsUUID(t *testing.T) {
	assert.True(t, IsUUID("0b6f2f0e-6a5c-4f0e-9a7d-1f1d0c7b8e11"))
	assert.False(t, IsUUID("64b7f0c2e1"))
}

func TestCanonicalID(t *testing.T) {
	const want = "aaaaaaaa-bbbb-cccc-dddd-eeeeeeeeeeee"
	for _, in := range []string{
		want,
		"AAAAAAAA-BBBB-CCCC-DDDD-EEEEEEEEEEEE",
		"{aaaaaaaa-bbbb-cccc-dddd-eeeeeeeeeeee}",
		"urn:uuid:aaaaaaaa-bbbb-cccc-dddd-eeeeeeeeeeee",
		"aaaaaaaabbbbccccddddeeeeeeeeeeee",
		"  " + want + " ",
	} {
		assert.Equal(t, want, CanonicalID(in), in)
	}

	assert.Equal(t, "not-a-uuid", CanonicalID(" not-a-uuid "))
}
