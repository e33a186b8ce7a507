package predict

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validInput() Input {
	return Input{
		Vessel:               "Tacoma",
		Departing:            "seattle",
		Arriving:             "bainbridge island",
		Weekday:              1,
		Hour:                 8,
		ClassName:            "Jumbo Mark II",
		SpeedInKnots:         18,
		EngineCount:          4,
		Horsepower:           16000,
		MaxPassengerCount:    2499,
		PropulsionInfo:       "DIESEL-ELECTRIC (AC)",
		YearBuilt:            1997,
		YearRebuilt:          2024,
		DepartingWeatherCode: 3,
		ArrivingWeatherCode:  61,
	}
}

func TestNewClient_RequiresEndpointAndKey(t *testing.T) {
	_, err := NewClient("", "key")
	assert.ErrorIs(t, err, ErrMissingEndpoint)

	_, err = NewClient("http://model.example", "")
	assert.ErrorIs(t, err, ErrMissingAPIKey)
}

func TestPredict(t *testing.T) {
	var got []map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Key s3cret", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"predict": [4.26, -1.04]}`))
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL, "s3cret")
	require.NoError(t, err)

	second := validInput()
	second.Hour = 17
	preds, err := c.Predict(context.Background(), []Input{validInput(), second})
	require.NoError(t, err)
	assert.Equal(t, []float64{4.3, -1.0}, preds)

	require.Len(t, got, 2)
	assert.Equal(t, "Tacoma", got[0]["Vessel"])
	assert.Equal(t, "3", got[0]["departing_weather_code"], "weather codes are sent as strings")
	assert.Equal(t, "61", got[0]["arriving_weather_code"])
	assert.Nil(t, got[0]["PassengerOnly"])
	assert.Contains(t, got[0], "FastFerry")
	assert.EqualValues(t, 17, got[1]["Hour"])
}

func TestPredict_NonOKIsAnError(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		http.Error(w, "model unavailable", http.StatusBadGateway)
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL, "key")
	require.NoError(t, err)

	preds, err := c.Predict(context.Background(), []Input{validInput()})
	require.Error(t, err)
	assert.Nil(t, preds)

	var reqErr *RequestError
	require.True(t, errors.As(err, &reqErr))
	assert.Equal(t, http.StatusBadGateway, reqErr.StatusCode)
	assert.Equal(t, "model unavailable", reqErr.Body)
	assert.Equal(t, int32(1), hits.Load())
}

func TestPredict_CountMismatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"predict": []}`))
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL, "key")
	require.NoError(t, err)

	_, err = c.Predict(context.Background(), []Input{validInput()})
	assert.ErrorContains(t, err, "0 predictions for 1 records")
}

func TestPredict_InvalidInputNeverSent(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL, "key")
	require.NoError(t, err)

	bad := validInput()
	bad.Hour = 24
	bad.DepartingWeatherCode = 4

	_, err = c.Predict(context.Background(), []Input{bad})
	require.ErrorIs(t, err, ErrInvalidInput)
	assert.ErrorContains(t, err, "Hour (max)")
	assert.ErrorContains(t, err, "DepartingWeatherCode (wmo)")

	_, err = c.Predict(context.Background(), nil)
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Zero(t, hits.Load())
}
