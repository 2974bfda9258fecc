// Package session manages the platform session lifecycle.
//
// A session is a (token, server URL) pair returned by the platform's
// login endpoint. The pair is persisted to durable storage the moment
// it is acquired and destroyed the moment the platform stops accepting
// it; the two values are never stored one without the other.
//
// Lifecycle:
//   - Authenticator.Login exchanges credentials for a session
//   - Store persists it and mirrors it in memory
//   - Validator re-checks it on every panel activation and clears it
//     on any rejection, including transport failure (fail closed)
//
// Passwords are never persisted; only the resulting token and server
// URL reach the store.
package session
