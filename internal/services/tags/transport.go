package tags

import "context"

// Transport abstracts reading and writing player payloads on physical
// proximity tags.
//
// At most one operation is in flight at a time. Starting a scan or a
// write atomically cancels and replaces any prior operation. Cancelling
// a scan is idempotent and never surfaces through onError.
type Transport interface {
	// Supported reports whether a tag reader is available
	Supported(ctx context.Context) bool

	// Scan begins a long-lived listening operation. onPayload is invoked
	// zero or more times as tags are presented; onError on unrecoverable
	// read failures. There is no timeout: the scan waits until the
	// returned cancel function is called or the operation is replaced.
	Scan(ctx context.Context, onPayload func(Payload), onError func(error)) (cancel func(), err error)

	// Write stores a payload on a tag, one-shot. Any active scan is
	// stopped first to avoid device contention.
	Write(ctx context.Context, p Payload) error

	// Clear blanks a tag by writing an empty payload, same contention
	// rule as Write
	Clear(ctx context.Context) error
}
