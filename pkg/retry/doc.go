// Package retry runs an operation with exponential backoff.
//
// It is used at startup, for example while waiting for the NATS server to
// accept connections. Errors classified as invalid or fatal by the errors
// package stop the loop at once; everything else is retried until the
// attempts run out or the context ends.
//
//	err := retry.Do(ctx, retry.Quick(), func() error {
//	    return client.Connect(ctx)
//	})
package retry
