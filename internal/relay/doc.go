// Package relay implements the privileged request pass-through used by
// restricted panel contexts.
//
// The panel cannot always reach the platform directly (cross-origin
// rules, forbidden headers), so it hands requests to a relay that
// performs them on its behalf and normalizes the outcome into a
// success/error envelope.
//
// Protocol (process boundary, JSON):
//   - request:  {"type": "API_REQUEST", "id": "...", "payload": {url, method, headers, body}}
//   - response: {"id": "...", "success": true, "data": ...}
//     or        {"id": "...", "success": false, "error": "...", "status": 401}
//
// Ports:
//   - Executor: executes in-process, for privileged callers and tests
//   - Client: WebSocket client of the relay daemon; a torn-down
//     channel surfaces as ErrChannelClosed, which callers must treat
//     as retryable after reconnect rather than an application error
//
// Built on go-resty/resty with a retryablehttp transport, matching the
// rest of the codebase's outbound HTTP stack.
package relay
