package ports

const AnyTopic = "*"

type Subscription interface {
	Topic() string
	Id() string
	IsSecured() bool
	NotifyAt() string
}

// Publisher forwards messages about committed ledger events to the clients
// subscribed for their topic.
type Publisher interface {
	// Publish publishes a message for a certain topic. All clients subscribed
	// for such topic, or for AnyTopic, will receive the message.
	Publish(topic string, message string) error
}

// PubSub defines the methods of a pubsub service.
type PubSub interface {
	Publisher
	// Subscribe adds a new subscription for the requested topic.
	Subscribe(topic, endpoint, secret string) (string, error)
	// Unsubscribe removes some client defined by its id for a topic.
	Unsubscribe(topic, id string) error
	// ListSubscriptionsForTopic returns the info of all clients subscribed for
	// a certain topic.
	ListSubscriptionsForTopic(topic string) []Subscription
}
