package appscript

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostSendsJSONAndIgnoresStatus(t *testing.T) {
	received := make(chan map[string]any, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		body, _ := io.ReadAll(r.Body)
		var decoded map[string]any
		_ = json.Unmarshal(body, &decoded)
		received <- decoded

		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client, err := NewClient(srv.URL, time.Second)
	require.NoError(t, err)

	err = client.Post(context.Background(), map[string]any{"type": "SALE", "data": map[string]any{"total": 40}})
	require.NoError(t, err)

	got := <-received
	assert.Equal(t, "SALE", got["type"])
}

func TestPostReportsTransportErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	client, err := NewClient(url, 200*time.Millisecond)
	require.NoError(t, err)

	assert.Error(t, client.Post(context.Background(), map[string]string{"type": "SALE"}))
}

func TestNewClientRequiresURL(t *testing.T) {
	_, err := NewClient("", time.Second)
	assert.Error(t, err)
}
