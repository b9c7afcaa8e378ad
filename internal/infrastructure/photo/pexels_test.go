package photo

import (
	"context"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pnodev/internal/core/apperror"
)

func TestPexels_RandomImage(t *testing.T) {
	var gotAuth, gotPath string
	var gotQuery map[string][]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		gotQuery = r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"page":3,"photos":[{"id":11,"src":{"original":"https://images.test/11.jpg","large":"https://images.test/11-l.jpg"}}]}`))
	}))
	defer srv.Close()

	p := NewPexels("secret-key",
		WithBaseURL(srv.URL+"/v1/"),
		WithHTTPClient(srv.Client()),
		WithRand(rand.New(rand.NewSource(1))),
		WithMaxPage(5),
	)

	img, err := p.RandomImage(context.Background(), "shop")
	require.NoError(t, err)
	assert.Equal(t, "https://images.test/11.jpg", img)
	assert.Equal(t, "secret-key", gotAuth)
	assert.Equal(t, "/v1/curated", gotPath)
	assert.Equal(t, []string{"1"}, gotQuery["per_page"])
	require.Len(t, gotQuery["page"], 1)
	assert.Contains(t, []string{"1", "2", "3", "4", "5"}, gotQuery["page"][0])
}

func TestPexels_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantMsg string
	}{
		{name: "unauthorized", status: http.StatusUnauthorized, body: `{}`, wantMsg: "unexpected status 401"},
		{name: "empty page", status: http.StatusOK, body: `{"photos":[]}`, wantMsg: "no photos"},
		{name: "bad json", status: http.StatusOK, body: `{`, wantMsg: "decode response"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			p := NewPexels("k", WithBaseURL(srv.URL), WithHTTPClient(srv.Client()))
			_, err := p.RandomImage(context.Background(), "")
			require.Error(t, err)
			appErr, ok := apperror.AsAppError(err)
			require.True(t, ok)
			assert.Equal(t, apperror.CodeProvider, appErr.Code)
			assert.True(t, strings.Contains(err.Error(), tt.wantMsg), err.Error())
		})
	}
}

func TestPlaceholder(t *testing.T) {
	a, err := NewPlaceholder(rand.New(rand.NewSource(4))).RandomImage(context.Background(), "")
	require.NoError(t, err)
	b, err := NewPlaceholder(rand.New(rand.NewSource(4))).RandomImage(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.True(t, strings.HasPrefix(a, "https://"), a)
}
