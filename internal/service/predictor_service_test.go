package service

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/orquestadev/orquesta/internal/scoring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func TestPredictParsesScore(t *testing.T) {
	var received string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/predict", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		var body json.RawMessage
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		received = string(body)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"score": 0.83}`))
	}))
	defer srv.Close()

	svc := NewPredictorService(srv.URL)
	got, err := svc.Predict(scoring.Features{Age: 40, ExperienceYears: 10, Available: true}, "lector")
	require.NoError(t, err)
	assert.InDelta(t, 0.83, got, 1e-9)

	assert.Equal(t, "lector", gjson.Get(received, "role").String())
	assert.Equal(t, int64(scoring.RoleIndex("lector")), gjson.Get(received, "role_index").Int())
	assert.Equal(t, 40.0, gjson.Get(received, "features.age").Float())
	assert.Equal(t, int64(1), gjson.Get(received, "features.available").Int())
}

func TestPredictNon200IsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not ready", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := NewPredictorService(srv.URL).Predict(scoring.Features{}, "lector")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
}

func TestPredictMissingScoreIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"prediction": 0.5}`))
	}))
	defer srv.Close()

	_, err := NewPredictorService(srv.URL).Predict(scoring.Features{}, "lector")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing score")
}

func TestPredictConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	_, err := NewPredictorService(srv.URL).Predict(scoring.Features{}, "lector")
	assert.Error(t, err)
}
