// Package stream provides the channel combinators the presentation pipeline is
// assembled from. Every stream is a receive-only channel that the producer
// closes when it is exhausted; every combinator stops early when its context
// is cancelled.
package stream

import (
	"context"

	"github.com/sourcegraph/conc"
)

// Just returns a closed stream holding vs.
func Just[T any](vs ...T) <-chan T {
	out := make(chan T, len(vs))
	for _, v := range vs {
		out <- v
	}
	close(out)
	return out
}

// Send delivers v on out unless ctx is done first.
func Send[T any](ctx context.Context, out chan<- T, v T) bool {
	select {
	case out <- v:
		return true
	case <-ctx.Done():
		return false
	}
}

// Drain discards whatever ins still produce and returns once every input has
// closed. Producers feeding a stopped consumer keep making progress.
func Drain[T any](ins ...<-chan T) {
	var wg conc.WaitGroup
	for _, in := range ins {
		if in == nil {
			continue
		}
		wg.Go(func() {
			for range in {
			}
		})
	}
	wg.Wait()
}

// Merge interleaves the values of ins in arrival order. The result closes once
// every input has closed or ctx is done.
func Merge[T any](ctx context.Context, ins ...<-chan T) <-chan T {
	out := make(chan T)
	var wg conc.WaitGroup
	for _, in := range ins {
		if in == nil {
			continue
		}
		wg.Go(func() {
			for {
				select {
				case <-ctx.Done():
					return
				case v, ok := <-in:
					if !ok {
						return
					}
					if !Send(ctx, out, v) {
						return
					}
				}
			}
		})
	}
	go func() {
		wg.Wait()
		close(out)
	}()
	return out
}

// SwitchMap maps every value of in to an inner stream and forwards the values of
// the most recent inner stream only. When a new value arrives the previous inner
// stream's context is cancelled and anything it produced but has not yet been
// delivered is dropped. The result closes after in has closed and the last inner
// stream is exhausted, or when ctx is done.
//
// fn must close its stream and must stop sending once its context is done.
func SwitchMap[T, R any](ctx context.Context, in <-chan T, fn func(context.Context, T) <-chan R) <-chan R {
	out := make(chan R)
	go func() {
		defer close(out)

		var (
			inner   <-chan R
			cancel  context.CancelFunc = func() {}
			pending R
			holding bool
		)
		defer func() { cancel() }()

		for in != nil || inner != nil || holding {
			var (
				send chan<- R
				recv <-chan R
			)
			if holding {
				send = out
			} else {
				recv = inner
			}

			select {
			case <-ctx.Done():
				return
			case v, ok := <-in:
				if !ok {
					in = nil
					continue
				}
				cancel()
				var zero R
				pending, holding = zero, false
				var innerCtx context.Context
				innerCtx, cancel = context.WithCancel(ctx)
				inner = fn(innerCtx, v)
			case r, ok := <-recv:
				if !ok {
					inner = nil
					continue
				}
				pending, holding = r, true
			case send <- pending:
				var zero R
				pending, holding = zero, false
			}
		}
	}()
	return out
}
