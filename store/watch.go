package store

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
)

const watchBackoff = 2 * time.Second

// watchCollection is the shared change-stream loop behind WatchOrders and
// WatchUsers. The initial snapshot is delivered right away; afterwards every
// change event triggers a re-materialization of the full set via list. The
// channel holds at most the latest snapshot, so a slow consumer only ever
// sees current data. Stream errors do not kill the subscription; the stream
// is reopened after a backoff until ctx is cancelled.
func watchCollection[T any](ctx context.Context, col *mongo.Collection, list func(context.Context) ([]T, error)) <-chan []T {
	out := make(chan []T, 1)

	send := func() {
		lctx, cancel := context.WithTimeout(ctx, 10*time.Second)
		records, err := list(lctx)
		cancel()
		if err != nil {
			log.Printf("watch %s: snapshot failed: %v", col.Name(), err)
			return
		}
		// latest-wins: replace any undelivered snapshot
		select {
		case out <- records:
		default:
			select {
			case <-out:
			default:
			}
			select {
			case out <- records:
			default:
			}
		}
	}

	go func() {
		defer close(out)
		send()
		for ctx.Err() == nil {
			stream, err := col.Watch(ctx, mongo.Pipeline{})
			if err != nil {
				log.Printf("watch %s: open failed: %v", col.Name(), err)
				select {
				case <-time.After(watchBackoff):
					continue
				case <-ctx.Done():
					return
				}
			}
			// the stream may have missed events while down
			send()
			for stream.Next(ctx) {
				send()
			}
			if err := stream.Err(); err != nil && ctx.Err() == nil {
				log.Printf("watch %s: stream error: %v", col.Name(), err)
			}
			stream.Close(context.Background())
			select {
			case <-time.After(watchBackoff):
			case <-ctx.Done():
				return
			}
		}
	}()

	return out
}
