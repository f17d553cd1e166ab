package pubsub_test

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/golang-jwt/jwt"
	"github.com/stretchr/testify/require"
	"github.com/tdex-network/custody-ledger/internal/core/ports"
	"github.com/tdex-network/custody-ledger/internal/infrastructure/pubsub"
)

const testMessage = `{"id":"b6bb7a9c-8b3c-4c1b-9d5e-0a6b4b1b7a10","owner":"sender_address","action":"deposit","denom":"utest","amount":"100000","timestamp":1666000000000000000}`

type request struct {
	path          string
	authorization string
	payload       string
}

func TestPubSubService(t *testing.T) {
	server, requests := newTestWebServer(t)
	secret := randomSecret()

	pubsubSvc := pubsub.NewService("")

	testSubs := []struct {
		topic    string
		endpoint string
		secret   string
	}{
		{"deposit", server.URL + "/deposit", secret},
		{"deposit", server.URL + "/deposit", ""},
		{"withdraw", server.URL + "/withdraw", ""},
		{ports.AnyTopic, server.URL + "/allevents", ""},
	}
	for _, sub := range testSubs {
		subID, err := pubsubSvc.Subscribe(sub.topic, sub.endpoint, sub.secret)
		require.NoError(t, err)
		require.NotEmpty(t, subID)
	}

	subs := pubsubSvc.ListSubscriptionsForTopic("deposit")
	require.Len(t, subs, 3)
	require.Equal(t, ports.AnyTopic, subs[2].Topic())
	require.Len(t, pubsubSvc.ListSubscriptionsForTopic(ports.AnyTopic), 1)

	err := pubsubSvc.Publish("deposit", testMessage)
	require.NoError(t, err)

	received := requests()
	require.Len(t, received, 3)
	numOfSigned := 0
	for _, r := range received {
		require.Equal(t, testMessage, r.payload)
		require.Contains(t, []string{"/deposit", "/allevents"}, r.path)
		if r.authorization == "" {
			continue
		}

		numOfSigned++
		tokenString := strings.TrimPrefix(r.authorization, "Bearer ")
		token, err := jwt.Parse(tokenString, func(*jwt.Token) (interface{}, error) {
			return []byte(secret), nil
		})
		require.NoError(t, err)
		require.True(t, token.Valid)
	}
	require.Equal(t, 1, numOfSigned)

	for _, s := range subs {
		err := pubsubSvc.Unsubscribe(s.Topic(), s.Id())
		require.NoError(t, err)
	}
	require.Empty(t, pubsubSvc.ListSubscriptionsForTopic("deposit"))
	require.Len(t, pubsubSvc.ListSubscriptionsForTopic("withdraw"), 1)

	err = pubsubSvc.Unsubscribe("deposit", subs[0].Id())
	require.ErrorIs(t, err, pubsub.ErrSubscriptionNotFound)

	// Checks that it's all ok if there are no hooks to invoke.
	err = pubsubSvc.Publish("unknown", testMessage)
	require.NoError(t, err)
}

func TestDefaultSecret(t *testing.T) {
	server, requests := newTestWebServer(t)
	pubsubSvc := pubsub.NewService(randomSecret())

	sub, err := pubsubSvc.Subscribe("withdraw", server.URL+"/withdraw", "")
	require.NoError(t, err)
	require.NotEmpty(t, sub)
	require.True(t, pubsubSvc.ListSubscriptionsForTopic("withdraw")[0].IsSecured())

	err = pubsubSvc.Publish("withdraw", testMessage)
	require.NoError(t, err)

	received := requests()
	require.Len(t, received, 1)
	require.True(t, strings.HasPrefix(received[0].authorization, "Bearer "))
}

func TestFailingPublish(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "unavailable", http.StatusServiceUnavailable)
		},
	))
	t.Cleanup(server.Close)

	pubsubSvc := pubsub.NewService("")
	_, err := pubsubSvc.Subscribe("deposit", server.URL, "")
	require.NoError(t, err)

	err = pubsubSvc.Publish("deposit", testMessage)
	require.Error(t, err)
}

func TestFailingSubscribe(t *testing.T) {
	pubsubSvc := pubsub.NewService("")

	_, err := pubsubSvc.Subscribe("", "http://localhost:8080", "")
	require.ErrorIs(t, err, pubsub.ErrMissingTopic)

	_, err = pubsubSvc.Subscribe("deposit", "not an url", "")
	require.ErrorIs(t, err, pubsub.ErrInvalidEndpoint)
}

func newTestWebServer(t *testing.T) (*httptest.Server, func() []request) {
	lock := &sync.Mutex{}
	requests := make([]request, 0)

	server := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				http.Error(w, "Bad method", http.StatusMethodNotAllowed)
				return
			}
			if r.Header.Get("Content-Type") == "" {
				http.Error(w, "Missing Content-Type header", http.StatusUnsupportedMediaType)
				return
			}

			defer r.Body.Close()
			payload, _ := io.ReadAll(r.Body)

			lock.Lock()
			requests = append(requests, request{
				path:          r.URL.Path,
				authorization: r.Header.Get("Authorization"),
				payload:       string(payload),
			})
			lock.Unlock()

			fmt.Fprintf(w, "Done")
		},
	))
	t.Cleanup(server.Close)

	return server, func() []request {
		lock.Lock()
		defer lock.Unlock()
		return append([]request{}, requests...)
	}
}

func randomSecret() string {
	b := make([]byte, 32)
	//nolint
	rand.Read(b)
	return hex.EncodeToString(b)
}
