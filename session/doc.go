// Package session persists the locally remembered login identity.
//
// # Model
//
// A [Session] holds the user id, account name and country code of the most
// recently authenticated user plus a logged-in flag. Logging out only clears
// the flag so biometric login stays possible; [Store.ClearAll] forgets
// everything.
//
// # Backends
//
// [RedisStore] keeps one hash per device profile, [SQLiteStore] keeps a
// key/value table in a local database file, and [MemoryStore] is for tests and
// ephemeral hosts. Every write is committed atomically: readers never see a
// half-written identity.
//
// # Architecture boundaries
//
// This package does not talk to any SDK and does not decide navigation; it is
// plain storage.
package session
