// Package goBioLogin orchestrates biometric login around a vendor account SDK
// and a vendor biometric SDK.
//
// An [Engine], assembled by [Builder], owns a local [session.Store], both SDKs
// and a single UI loop ([uithread.Loop]). Hosts open screens through the
// engine (password login, register, biometric login, home), render them
// through a [View] and call screen actions from the UI loop. Every SDK
// completion is posted back to the loop and applied only while the screen is
// still open.
//
// # Architecture boundaries
//
// goBioLogin is the public surface: [Engine], [Builder], [Config], screens,
// sentinel errors and metrics. Flow decisions (validation, precondition order,
// routing, chained registration) live in internal/flows; timers live in
// internal/countdown and internal/clickguard.
//
// # What this package must NOT do
//
//   - Call View methods off the UI loop.
//   - Retry SDK calls on its own.
//   - Hold process-wide singletons; every dependency is injected.
package goBioLogin
