// Package flows contains the decision logic behind each screen action.
//
// # Architecture boundaries
//
// Flow functions are pure orchestration: they validate input, order
// precondition checks, classify SDK failures, pick routes and chain remote
// calls. They receive everything through *Deps structs built by the root
// package and never touch views, the UI thread or package-level state.
//
// # What this package must NOT do
//
//   - Import the root package (no import cycles).
//   - Write to the session store; the root package does that on the UI thread.
//   - Produce user-facing text.
package flows
