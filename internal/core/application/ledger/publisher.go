package ledger

import (
	"encoding/json"
	"sync"

	log "github.com/sirupsen/logrus"
	"github.com/tdex-network/custody-ledger/internal/core/domain"
	"github.com/tdex-network/custody-ledger/internal/core/ports"
)

const eventQueueSize = 1024

// eventQueue publishes committed receipts one at a time, in the same order
// they were pushed.
type eventQueue struct {
	publisher ports.Publisher

	lock     *sync.RWMutex
	closed   bool
	receipts chan domain.Receipt
	done     chan struct{}
}

func newEventQueue(publisher ports.Publisher) *eventQueue {
	q := &eventQueue{
		publisher: publisher,
		lock:      &sync.RWMutex{},
		receipts:  make(chan domain.Receipt, eventQueueSize),
		done:      make(chan struct{}),
	}
	go q.listen()
	return q
}

// push enqueues receipt for publishing. Receipts pushed after close are
// dropped.
func (q *eventQueue) push(receipt domain.Receipt) {
	q.lock.RLock()
	defer q.lock.RUnlock()

	if q.closed {
		log.Warnf(
			"pubsub: queue closed, dropped topic for receipt with id %s", receipt.ID,
		)
		return
	}
	q.receipts <- receipt
}

// close stops accepting new receipts and waits for the pending ones to be
// published.
func (q *eventQueue) close() {
	q.lock.Lock()
	if q.closed {
		q.lock.Unlock()
		return
	}
	q.closed = true
	close(q.receipts)
	q.lock.Unlock()

	<-q.done
}

func (q *eventQueue) listen() {
	defer close(q.done)

	for receipt := range q.receipts {
		q.publish(receipt)
	}
}

func (q *eventQueue) publish(receipt domain.Receipt) {
	message, err := json.Marshal(receipt)
	if err != nil {
		log.WithError(err).Warnf(
			"pubsub: failed to serialize receipt with id %s", receipt.ID,
		)
		return
	}
	if err := q.publisher.Publish(receipt.Topic(), string(message)); err != nil {
		log.WithError(err).Warnf(
			"pubsub: failed to publish topic for receipt with id %s", receipt.ID,
		)
		return
	}
	log.Debugf("pubsub: published topic for receipt with id %s", receipt.ID)
}
