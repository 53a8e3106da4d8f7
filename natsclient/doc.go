// Package natsclient wraps the NATS Go client with circuit breaker
// protection, connection state tracking and request/reply helpers used by
// the lexrank NATS gateway.
//
// # Connection Lifecycle
//
// A Client moves through Disconnected, Connecting, Connected and
// Reconnecting. Reconnects are delegated to nats.go; the client mirrors its
// callbacks into the status, into optional callbacks and into the
// lexrank_nats_connected gauge when WithMetrics is set.
//
// # Circuit Breaker
//
// After a threshold of failed Connect attempts (default 5) the circuit opens
// and Connect returns ErrCircuitOpen immediately. After the current backoff
// the circuit half-opens and the next Connect may try again. Backoff doubles
// per round up to WithMaxBackoff.
//
// # Usage
//
//	client, err := natsclient.NewClient("nats://localhost:4222",
//	    natsclient.WithName("lexrank"),
//	    natsclient.WithLogger(logger),
//	)
//	if err != nil {
//	    return err
//	}
//	if err := client.Connect(ctx); err != nil {
//	    return err
//	}
//	defer client.Close(ctx)
//
//	err = client.QueueSubscribe(ctx, "lexrank.summarize", "lexrank",
//	    func(ctx context.Context, msg *nats.Msg) {
//	        _ = msg.Respond(handle(ctx, msg.Data))
//	    })
//
// Each handler invocation receives a context bounded by the handler timeout
// (30s unless WithHandlerTimeout is given).
//
// # Testing
//
// NewTestClient starts a NATS container with testcontainers-go and returns a
// connected client whose cleanup is registered on the test. Tests using it
// are tagged integration.
package natsclient
