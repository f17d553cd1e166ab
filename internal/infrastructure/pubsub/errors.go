package pubsub

import "errors"

var (
	ErrMissingTopic         = errors.New("missing topic")
	ErrInvalidEndpoint      = errors.New("invalid webhook endpoint, must be a valid URI")
	ErrSubscriptionNotFound = errors.New("subscription not found")
)
