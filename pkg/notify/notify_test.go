package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPSink_SendsJSONPayload(t *testing.T) {
	var received ScheduledMessage
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	sink := NewHTTPSink(srv.URL, nil)
	msg := ScheduledMessage{
		CandidateEmail: "c@example.com",
		CandidateName:  "Ada",
		JobTitle:       "Backend Engineer",
		StartTimeIST:   "15 Jun 2025, 10:00 AM IST",
		SessionURL:     "https://example.com/interview/?session_key=abc",
	}
	err := sink.Send(context.Background(), msg)
	require.NoError(t, err)
	assert.Equal(t, msg, received)
}

func TestHTTPSink_NonSuccessStatusIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	sink := NewHTTPSink(srv.URL, nil)
	err := sink.Send(context.Background(), ScheduledMessage{CandidateEmail: "c@example.com"})
	require.Error(t, err)
}

func TestSplitHostPort(t *testing.T) {
	host, port, err := splitHostPort("smtp.example.com:587")
	require.NoError(t, err)
	assert.Equal(t, "smtp.example.com", host)
	assert.Equal(t, "587", port)
}

func TestSplitHostPort_NoPort(t *testing.T) {
	host, port, err := splitHostPort("smtp.example.com")
	require.NoError(t, err)
	assert.Equal(t, "smtp.example.com", host)
	assert.Equal(t, "", port)
}

func TestNewFromConfig_UnknownProviderErrors(t *testing.T) {
	_, err := NewFromConfig("carrier-pigeon", SMTPConfig{}, "", nil)
	require.Error(t, err)
}

func TestNewFromConfig_DefaultsToSMTP(t *testing.T) {
	sink, err := NewFromConfig("", SMTPConfig{Addr: "localhost:25"}, "", nil)
	require.NoError(t, err)
	_, ok := sink.(*SMTPSink)
	assert.True(t, ok)
}
