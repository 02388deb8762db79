package relay

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"pet-services/internal/ports/mail"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSend_PostsMessage(t *testing.T) {
	var got mail.Message
	var key string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key = r.Header.Get("X-Api-Key")
		require.Equal(t, http.MethodPost, r.Method)
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	s, err := NewSender(srv.URL, "secret")
	require.NoError(t, err)

	msg := mail.Message{To: "ana@example.com", Subject: "Hola", HTML: "<p>hi</p>"}
	require.NoError(t, s.Send(context.Background(), msg))
	assert.Equal(t, msg, got)
	assert.Equal(t, "secret", key)
}

func TestSend_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	s, err := NewSender(srv.URL, "")
	require.NoError(t, err)
	assert.Error(t, s.Send(context.Background(), mail.Message{To: "x@y.z"}))
}
