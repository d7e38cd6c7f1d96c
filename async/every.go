// Package async schedules periodic work and runs blocking or spawned tasks on
// a shared executor that stops with the node.
package async

import (
	"context"
	"reflect"
	"runtime"
	"time"

	"github.com/sirupsen/logrus"
)

var log = logrus.WithField("prefix", "async")

// RunEvery calls f once per period from a new goroutine until ctx is done.
// f is handed ctx so a call in flight sees the cancellation too.
func RunEvery(ctx context.Context, period time.Duration, f func(ctx context.Context)) {
	entry := log.WithField("function", runtime.FuncForPC(reflect.ValueOf(f).Pointer()).Name())
	go func() {
		ticker := time.NewTicker(period)
		defer ticker.Stop()
		for ctx.Err() == nil {
			select {
			case <-ctx.Done():
			case <-ticker.C:
				entry.Trace("Running")
				f(ctx)
			}
		}
		entry.Debug("Context is closed, exiting")
	}()
}
