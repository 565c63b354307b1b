// Package protocol defines the JSON frames that carry document patches from
// the server to browsers.
//
// Each frame is one WebSocket text message:
//
//	{"type":"patches","seq":3,"ops":[
//	  {"op":"insert","hid":"h3","parent":"h0","index":2,"html":"<div ...>"}
//	]}
//
// # Operations
//
//   - insert: parse html and insert it under parent at index
//   - attr: set attribute key to value on hid
//   - remove: detach hid
//
// # Sequencing
//
// Seq increases by one per frame on a stream. A client that sees a gap, or
// receives a fatal error frame, reloads the page to resynchronise from a
// fresh server render. After a non-fatal error frame the client reconnects
// and names the last Seq it applied, so the server can replay the rest.
//
// # Limits
//
// Decode rejects frames larger than MaxFrameSize and frames with more than
// MaxOpsPerFrame operations.
package protocol
