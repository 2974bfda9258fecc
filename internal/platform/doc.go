// Package platform consumes the cloud integration platform's REST API.
//
// The platform's responses are loosely shaped: the same concept shows
// up under several field spellings depending on API version and asset
// kind. All such sniffing is concentrated in extract.go as ordered-
// fallback functions, documented once and reused everywhere; the rest
// of the package works with canonical types.
//
// Endpoints consumed (contract only, the API is an external
// collaborator):
//   - GET  {pod}/public/core/v3/objects?q=type=='PROJECT'  folder listing
//   - GET  {pod}/api/v2/mttask                             task listing
//   - GET  {pod}/api/v2/mttask/{id}                        single task
//   - POST {pod}/api/v2/mttask                             task creation
//   - POST {pod}/api/v2/job                                job start
//
// All calls go through a relay.Port and re-derive the session header
// from the current session, so the client works identically whether it
// runs privileged or behind the relay daemon.
package platform
