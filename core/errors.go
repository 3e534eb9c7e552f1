package core

import (
	"errors"
	"fmt"
)

// Sentinel collection errors. Every failure the engine produces classifies
// into exactly one of these; see Kind and the propagation rules in freeze.go
// and partition_driver.go.
var (
	// ErrBadParams signals a caller/config error: pre-flight fatal.
	ErrBadParams = errors.New("bad params")
	// ErrBadSchema signals a schema that cannot be resolved: pre-flight fatal.
	ErrBadSchema = errors.New("bad schema")
	// ErrRPC signals a transport, timeout, or decode failure: per-work-item fatal.
	ErrRPC = errors.New("rpc error")
	// ErrCollect signals a logical failure (missing block, unsupported
	// datatype for a collector path): per-work-item fatal.
	ErrCollect = errors.New("collect error")
	// ErrCancelled signals a task stopped due to upstream cancellation.
	ErrCancelled = errors.New("cancelled")
)

// BadParams wraps msg as an ErrBadParams.
func BadParams(msg string) error { return fmt.Errorf("%w: %s", ErrBadParams, msg) }

// BadParamsf wraps a formatted msg as an ErrBadParams.
func BadParamsf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrBadParams, fmt.Sprintf(format, args...))
}

// BadSchema wraps msg as an ErrBadSchema.
func BadSchema(msg string) error { return fmt.Errorf("%w: %s", ErrBadSchema, msg) }

// BadSchemaf wraps a formatted msg as an ErrBadSchema.
func BadSchemaf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrBadSchema, fmt.Sprintf(format, args...))
}

// RPCError wraps err as an ErrRPC, preserving the original error for Unwrap.
func RPCError(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %v", ErrRPC, err)
}

// CollectErrorf wraps a formatted msg as an ErrCollect.
func CollectErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrCollect, fmt.Sprintf(format, args...))
}

// Kind names the taxonomy bucket an error falls into, used by the JSON
// report to summarize errors by kind rather than by raw message.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrBadParams):
		return "BadParams"
	case errors.Is(err, ErrBadSchema):
		return "BadSchema"
	case errors.Is(err, ErrRPC):
		return "RpcError"
	case errors.Is(err, ErrCollect):
		return "CollectError"
	case errors.Is(err, ErrCancelled):
		return "Cancelled"
	default:
		return "Unknown"
	}
}
