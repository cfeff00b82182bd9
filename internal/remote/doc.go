// Package remote implements the control engine for a single Fire TV
// device: waking it, pairing with it, and sending remote-control commands
// over its REST API.
//
// # Endpoints
//
// The device exposes two surfaces:
//
//   - DIAL wake:  POST http://<addr>:8009/apps/FireTVRemote (plain text,
//     empty body). Success is any 2xx; some firmware answers 201.
//   - Control API: https://<addr>:8080/v1/... with a self-signed
//     certificate, a fixed x-api-key header, and (once paired) an
//     x-client-token header.
//
// Every control response carries a JSON envelope whose description field
// equals "OK" on success regardless of HTTP status. Anything else is a
// command failure.
//
// # Wake Coalescing
//
// EnsureAwake is the precondition for every command and pairing call.
// Concurrent callers while a wake is in flight are queued and released
// together with the shared outcome, so rapid repeated input produces
// exactly one wake network call. A successful wake stays fresh for 30s;
// after the wake POST succeeds the engine waits out a settle delay before
// releasing callers, because the device needs a moment before it accepts
// API calls. Failed wakes retry with linear backoff before giving up.
//
// # Pairing
//
// Pairing is a PIN handshake: RequestPin makes the device display a PIN
// on screen, VerifyPin submits it. The verify response's description field
// doubles as token-on-success and status-message-on-failure, distinguished
// only by emptiness. The token persists via the CredentialStore and rides
// along as x-client-token on every authenticated call.
//
// A 401 or 403 on any authenticated response means the device invalidated
// the token out of band (factory reset, re-pair elsewhere). The engine
// tears down pairing state immediately and fires RepairRequired; it never
// retries the rejected command.
//
// # Rate Limiting
//
// Navigation and system keys route through a single-lane FIFO queue with a
// minimum interval between dispatch starts, enforced with x/time's rate
// limiter at actual send time. Media and text commands dispatch directly;
// the device throttles key input but not the transport/text paths, and the
// asymmetry is kept on purpose.
package remote
