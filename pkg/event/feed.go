package event

import (
	"sync"
)

// FeedConsumer is a function type that processes event records
type FeedConsumer func(r Record)

// DataFeed represents the buffered channel of one event kind
type DataFeed struct {
	Data chan Record
}

// Feed fans records out to the consumers subscribed to their kind
type Feed struct {
	mu                  sync.RWMutex
	wg                  sync.WaitGroup
	EventFeeds          map[Kind]*DataFeed
	SubscriptionsByKind map[Kind][]FeedConsumer
}

var _ Sink = (*Feed)(nil)

// NewFeed creates a new event feed
func NewFeed() *Feed {
	return &Feed{
		EventFeeds:          make(map[Kind]*DataFeed),
		SubscriptionsByKind: make(map[Kind][]FeedConsumer),
	}
}

// Subscribe registers a consumer for the given kinds, every kind when none
// is given
func (f *Feed) Subscribe(consumer FeedConsumer, kinds ...Kind) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(kinds) == 0 {
		kinds = []Kind{KindSignal, KindOrderOpen, KindOrderClose, KindOrderUpdate}
	}

	for _, kind := range kinds {
		if _, ok := f.EventFeeds[kind]; !ok {
			f.EventFeeds[kind] = &DataFeed{
				Data: make(chan Record, 100),
			}
		}
		f.SubscriptionsByKind[kind] = append(f.SubscriptionsByKind[kind], consumer)
	}
}

// Publish queues the record for the subscribers of its kind. Records are
// dropped when nobody subscribed or the buffer is full.
func (f *Feed) Publish(r Record) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()

	feed, ok := f.EventFeeds[r.Kind]
	if !ok {
		return false
	}

	select {
	case feed.Data <- r:
		return true
	default:
		return false
	}
}

// Emit implements Sink
func (f *Feed) Emit(r Record) { f.Publish(r) }

// Start begins dispatching records of every subscribed kind
func (f *Feed) Start() {
	f.mu.RLock()
	defer f.mu.RUnlock()

	for kind, feed := range f.EventFeeds {
		f.wg.Add(1)
		go f.dispatch(kind, feed)
	}
}

func (f *Feed) dispatch(kind Kind, feed *DataFeed) {
	defer f.wg.Done()

	for r := range feed.Data {
		f.mu.RLock()
		consumers := f.SubscriptionsByKind[kind]
		f.mu.RUnlock()

		for _, consumer := range consumers {
			consumer(r)
		}
	}
}

// Stop closes every channel and waits for queued records to be dispatched
func (f *Feed) Stop() {
	f.mu.Lock()
	for kind, feed := range f.EventFeeds {
		close(feed.Data)
		delete(f.EventFeeds, kind)
	}
	f.mu.Unlock()

	f.wg.Wait()

	f.mu.Lock()
	f.SubscriptionsByKind = make(map[Kind][]FeedConsumer)
	f.mu.Unlock()
}
