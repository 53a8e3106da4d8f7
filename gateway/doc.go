// Package gateway holds what the lexrank transports share: the request and
// error payloads, request decoding, request IDs and the mapping from
// classified errors to caller-safe messages.
//
// # Transports
//
//   - HTTP: POST /v1/summarize (gateway/http/)
//   - NATS: request/reply on a queue group (gateway/nats/)
//
// Both accept the same body
//
//	{"text": "Cats are mammals. Dogs are mammals too.", "ratio": 0.5}
//
// and reply with a summarizer.Result or an ErrorResponse:
//
//	{"error": "summary ratio must be in (0, 1]", "class": "invalid", "request_id": "..."}
//
// A missing or zero ratio selects the configured default. Only messages of
// known input sentinels reach callers; everything else is reduced to a
// generic message for its class.
package gateway
