package clientdist

import _ "embed"

// AlertsJS is the thin client that applies document patches in the browser.
//
// It is served by the server at "/_alerts/client.js".
//
//go:embed alerts.js
var AlertsJS []byte
