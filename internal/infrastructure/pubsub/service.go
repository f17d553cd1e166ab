package pubsub

import (
	"fmt"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/sony/gobreaker"
	"github.com/tdex-network/custody-ledger/internal/core/ports"
	"github.com/tdex-network/custody-ledger/pkg/circuitbreaker"
	"golang.org/x/sync/errgroup"
)

const requestTimeout = 15 * time.Second

type service struct {
	lock          *sync.RWMutex
	subsByTopic   map[string]subscriptions
	httpClient    *client
	cb            *gobreaker.CircuitBreaker
	defaultSecret string
}

// NewService returns a webhook pubsub service. Messages are POSTed as JSON to
// every endpoint subscribed for the published topic or for AnyTopic.
// Subscriptions added without a secret are signed with defaultSecret, if any.
func NewService(defaultSecret string) ports.PubSub {
	return &service{
		lock:          &sync.RWMutex{},
		subsByTopic:   make(map[string]subscriptions),
		httpClient:    newHTTPClient(requestTimeout),
		cb:            circuitbreaker.NewCircuitBreaker("webhook"),
		defaultSecret: defaultSecret,
	}
}

func (ws *service) Subscribe(topic, endpoint, secret string) (string, error) {
	if secret == "" {
		secret = ws.defaultSecret
	}
	sub, err := NewSubscription(topic, endpoint, secret)
	if err != nil {
		return "", err
	}

	ws.lock.Lock()
	defer ws.lock.Unlock()

	ws.subsByTopic[topic] = append(ws.subsByTopic[topic], *sub)
	return sub.ID, nil
}

func (ws *service) Unsubscribe(topic, id string) error {
	ws.lock.Lock()
	defer ws.lock.Unlock()

	subs := ws.subsByTopic[topic]
	for i, sub := range subs {
		if sub.ID != id {
			continue
		}
		subs = append(subs[:i], subs[i+1:]...)
		if len(subs) <= 0 {
			delete(ws.subsByTopic, topic)
		} else {
			ws.subsByTopic[topic] = subs
		}
		return nil
	}
	return ErrSubscriptionNotFound
}

func (ws *service) ListSubscriptionsForTopic(topic string) []ports.Subscription {
	return ws.listSubscriptionsForTopic(topic).toPortable()
}

func (ws *service) Publish(topic string, message string) error {
	subs := ws.listSubscriptionsForTopic(topic)

	eg := &errgroup.Group{}
	for i := range subs {
		sub := subs[i]
		eg.Go(func() error { return ws.doRequest(sub, message) })
	}
	return eg.Wait()
}

func (ws *service) listSubscriptionsForTopic(topic string) subscriptions {
	ws.lock.RLock()
	defer ws.lock.RUnlock()

	subs := append(subscriptions{}, ws.subsByTopic[topic]...)
	sort.SliceStable(subs, func(i, j int) bool {
		return subs[i].ID < subs[j].ID
	})
	if topic != ports.AnyTopic {
		subs = append(subs, ws.subsByTopic[ports.AnyTopic]...)
	}
	return subs
}

func (ws *service) doRequest(sub Subscription, payload string) error {
	_, err := ws.cb.Execute(func() (interface{}, error) {
		headers := map[string]string{
			"Content-Type": "application/json",
		}
		if sub.IsSecured() {
			token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.StandardClaims{
				Subject:  sub.Event,
				IssuedAt: time.Now().Unix(),
			})
			tokenString, err := token.SignedString([]byte(sub.Secret))
			if err != nil {
				return nil, err
			}
			headers["Authorization"] = fmt.Sprintf("Bearer %s", tokenString)
		}

		status, resp, err := ws.httpClient.post(sub.Endpoint, payload, headers)
		if err != nil {
			return nil, err
		}
		if status != http.StatusOK {
			return nil, fmt.Errorf(
				"endpoint %s replied with status %d: %s", sub.Endpoint, status, resp,
			)
		}
		return nil, nil
	})

	return err
}
