package clients_test

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

	"exhibitions/internal/infrastructure/clients"
)

func TestWhatsAppClientSend(t *testing.T) {
	t.Run("posts phone and message, returns provider response", func(t *testing.T) {
		var gotBody map[string]string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/mobile-send-otp", r.URL.Path)
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

			body, err := io.ReadAll(r.Body)
			require.NoError(t, err)
			require.NoError(t, json.Unmarshal(body, &gotBody))

			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"status":"queued","id":"abc-123"}`))
		}))
		defer srv.Close()

		client := clients.NewWhatsAppClient(srv.URL, time.Second)
		response, err := client.Send(context.Background(), "9876543210", "your booking is confirmed")
		require.NoError(t, err)

		assert.Equal(t, "9876543210", gotBody["phone"])
		assert.Equal(t, "your booking is confirmed", gotBody["message"])
		assert.JSONEq(t, `{"status":"queued","id":"abc-123"}`, string(response))
	})

	t.Run("wraps non-json provider response", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("OK"))
		}))
		defer srv.Close()

		client := clients.NewWhatsAppClient(srv.URL, time.Second)
		response, err := client.Send(context.Background(), "9876543210", "hello")
		require.NoError(t, err)
		assert.Equal(t, `"OK"`, string(response))
	})

	t.Run("non-200 status is an error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "rate limited", http.StatusTooManyRequests)
		}))
		defer srv.Close()

		client := clients.NewWhatsAppClient(srv.URL, time.Second)
		_, err := client.Send(context.Background(), "9876543210", "hello")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "429")
	})

	t.Run("respects context cancellation", func(t *testing.T) {
		blocked := make(chan struct{})
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			<-blocked
		}))
		defer srv.Close()
		defer close(blocked)

		client := clients.NewWhatsAppClient(srv.URL, time.Minute)

		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()

		_, err := client.Send(ctx, "9876543210", "hello")
		require.Error(t, err)
	})
}
