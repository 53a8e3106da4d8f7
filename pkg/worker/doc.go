// Package worker provides a generic worker pool used to summarize several
// documents concurrently.
//
// A Pool runs a fixed number of goroutines that pull work items of type T
// from a bounded queue and hand them to a processor function:
//
//	pool := worker.NewPool(4, 16, func(ctx context.Context, job Job) error {
//	    results[job.Index], errs[job.Index] = summarize(ctx, job.Text)
//	    return errs[job.Index]
//	})
//	if err := pool.Start(ctx); err != nil {
//	    return err
//	}
//	for _, job := range jobs {
//	    if err := pool.SubmitWait(ctx, job); err != nil {
//	        return err
//	    }
//	}
//	return pool.Stop(time.Minute) // drains the queue
//
// Submit never blocks and reports ErrQueueFull under backpressure.
// SubmitWait blocks until the item is queued or ctx ends. Stop closes the
// queue and waits for the workers to drain it.
//
// The pool keeps atomic statistics (Stats) and, when WithMetricsRegistry is
// given, Prometheus metrics under the supplied prefix.
package worker
