package distance

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/opticore/optirider/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOSRMClient_Matrix_RoundsToNearestSecond(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"code":"Ok","durations":[[0,548.7],[547.9,0]]}`))
	}))
	defer srv.Close()

	c := NewOSRMClient(srv.URL, 0)
	matrix, err := c.Matrix(context.Background(), []model.Point{
		{Longitude: 1, Latitude: 1},
		{Longitude: 2, Latitude: 2},
	})
	require.NoError(t, err)
	assert.Equal(t, [][]int{{0, 549}, {548, 0}}, matrix)
}

func TestOSRMClient_Matrix_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("boom"))
	}))
	defer srv.Close()

	c := NewOSRMClient(srv.URL, 0)
	_, err := c.Matrix(context.Background(), []model.Point{{}, {}})
	assert.Error(t, err)
}

func TestOSRMClient_Matrix_Empty(t *testing.T) {
	c := NewOSRMClient("http://unused", 0)
	matrix, err := c.Matrix(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, matrix)
}
