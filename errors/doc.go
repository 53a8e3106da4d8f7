// Package errors provides the error classification used across lexrank.
//
// Every error that leaves a lexrank package belongs to one of three classes:
//
//   - Invalid: the caller supplied bad input (a summary ratio outside (0,1],
//     empty text, a malformed request body). Retrying the same call cannot help.
//   - Fatal: the process is misconfigured (invalid or missing configuration).
//     The host should stop and report.
//   - Transient: a collaborator is temporarily unavailable (the NATS
//     connection, a cancelled context). The host may retry.
//
// The summarization core itself is pure and deterministic, so the only errors
// it produces are Invalid ones raised during input validation. Degenerate
// inputs (a single sentence, a punctuation-only sentence) are not errors.
//
// # Wrapping
//
// All wrapping follows the pattern "Component.Method: action failed: %w":
//
//	if err := cfg.Validate(); err != nil {
//	    return errors.WrapFatal(err, "Loader", "Load", "validate configuration")
//	}
//
// WrapInvalid, WrapFatal and WrapTransient attach a class; Wrap keeps whatever
// class the wrapped error already carries.
//
// # Inspection
//
// Classification survives wrapping and works with the standard library:
//
//	if errors.IsInvalid(err) {
//	    w.WriteHeader(http.StatusBadRequest)
//	}
//
//	var ce *errors.ClassifiedError
//	if stderrors.As(err, &ce) {
//	    logger.Warn("request failed", "component", ce.Component, "class", ce.Class)
//	}
package errors
