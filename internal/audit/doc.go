// Package audit delivers login-flow audit events to a sink off the UI thread.
//
// # Components
//
//   - [Sink]: event consumer (channel, JSON lines, slog, no-op).
//   - [Dispatcher]: buffered relay with drop-if-full or block-if-full delivery.
//   - [Event]: one flow outcome with attempt id, screen, user and metadata.
//
// # Architecture boundaries
//
// This package owns buffering and sink delivery. The root package decides
// which events exist and when they are emitted.
//
// # What this package must NOT do
//
//   - Filter events based on flow logic.
//   - Import the root package or any sibling internal package.
package audit
