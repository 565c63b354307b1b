// Package errors provides structured, actionable error messages for the
// alerts server and CLI.
//
// Every error has a unique code that maps to a registered template:
//   - A short message describing the error
//   - A detailed explanation
//   - A documentation URL
//
// # Error Categories
//
//   - config: alerts.json loading and validation (E1xx)
//   - protocol: patch frames exchanged with browsers (E2xx)
//   - server: HTTP, stream and lifecycle errors (E3xx)
//   - cli: command usage errors (E4xx)
//
// # Usage
//
//	err := errors.New("E104").
//	    WithField("stream.transport").
//	    WithDetail(`got "grpc"`).
//	    WithSuggestion(`Use "websocket" or "sse"`)
//
//	fmt.Println(err.Format())
//	// Output:
//	// ERROR E104: Invalid stream transport
//	//
//	//   stream.transport
//	//
//	//   got "grpc"
//	//
//	//   Hint: Use "websocket" or "sse"
//	//
//	//   Learn more: https://alerts.vango.dev/errors/E104
package errors
