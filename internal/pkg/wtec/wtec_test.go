package wtec

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Read(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, password, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "bridge", user)
		assert.Equal(t, "hunter2", password)
		w.Write([]byte(`{"sensorStats":{"motion":{"instant":5},"humidity":{"instant":45}}}`))
	}))
	defer ts.Close()

	client := NewClient("bridge", "hunter2", 5*time.Second)
	doc, err := client.Read(context.Background(), ts.URL)
	require.NoError(t, err)

	raw, ok := doc.MotionInstant()
	assert.True(t, ok)
	assert.Equal(t, json.RawMessage("5"), raw)
	assert.Equal(t, json.RawMessage("45"), doc.SensorStats.Humidity.Instant)
}

func Test_Read_SelfSignedCert(t *testing.T) {
	ts := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"sensorStats":{"motion":{"instant":1}}}`))
	}))
	defer ts.Close()

	client := NewClient("bridge", "hunter2", 5*time.Second)
	doc, err := client.Read(context.Background(), ts.URL)
	require.NoError(t, err)

	_, ok := doc.MotionInstant()
	assert.True(t, ok)
}

func Test_Read_BadStatus(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer ts.Close()

	client := NewClient("bridge", "hunter2", 5*time.Second)
	_, err := client.Read(context.Background(), ts.URL)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status 500")
}

func Test_Read_MalformedBody(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	}))
	defer ts.Close()

	client := NewClient("bridge", "hunter2", 5*time.Second)
	_, err := client.Read(context.Background(), ts.URL)
	assert.Error(t, err)
}

func Test_Read_ConnectionError(t *testing.T) {
	client := NewClient("bridge", "hunter2", time.Second)
	_, err := client.Read(context.Background(), "http://127.0.0.1:1")
	assert.Error(t, err)
}
