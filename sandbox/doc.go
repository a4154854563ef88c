// Package sandbox is a self-contained, Redis-backed stand-in for the account
// and biometric SDKs. It backs the demo CLI and the integration tests.
//
// AccountService keeps accounts, verification codes and remote sessions in
// Redis. Passwords are Argon2id hashes and sessions are HS256 tokens.
// BiometricDevice simulates the sensor: hardware presence and availability,
// enrolled templates, and a queue of scripted prompt outcomes.
//
// Both return futures completed on their own goroutines, like the real SDKs.
package sandbox
