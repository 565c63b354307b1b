package errors

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	Detail   string
	DocURL   string
}

const docBase = "https://alerts.vango.dev/errors/"

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Config Errors (E101-E199)
	// ============================================

	"E101": {
		Category: CategoryConfig,
		Message:  "Config file not found",
		Detail:   "No alerts.json was found at the given path.",
		DocURL:   docBase + "E101",
	},
	"E102": {
		Category: CategoryConfig,
		Message:  "Invalid config file",
		Detail:   "alerts.json could not be parsed as JSON.",
		DocURL:   docBase + "E102",
	},
	"E103": {
		Category: CategoryConfig,
		Message:  "Invalid port",
		Detail:   "The server port must be between 1 and 65535.",
		DocURL:   docBase + "E103",
	},
	"E104": {
		Category: CategoryConfig,
		Message:  "Invalid stream transport",
		Detail:   `The stream transport must be "websocket" or "sse".`,
		DocURL:   docBase + "E104",
	},
	"E105": {
		Category: CategoryConfig,
		Message:  "Invalid stream buffer size",
		Detail:   "Each browser stream needs a buffer of at least one update, and the patch history must keep at least one frame.",
		DocURL:   docBase + "E105",
	},
	"E106": {
		Category: CategoryConfig,
		Message:  "Invalid duration",
		Detail:   `Durations use Go syntax such as "10s" or "500ms" and must be positive.`,
		DocURL:   docBase + "E106",
	},
	"E107": {
		Category: CategoryConfig,
		Message:  "Invalid log level",
		Detail:   `The log level must be one of "debug", "info", "warn" or "error".`,
		DocURL:   docBase + "E107",
	},
	"E108": {
		Category: CategoryConfig,
		Message:  "Config write failed",
		Detail:   "alerts.json could not be written.",
		DocURL:   docBase + "E108",
	},
	"E109": {
		Category: CategoryConfig,
		Message:  "Invalid metrics path",
		Detail:   `The metrics path must start with "/" and must not shadow another route.`,
		DocURL:   docBase + "E109",
	},

	// ============================================
	// Protocol Errors (E201-E299)
	// ============================================

	"E201": {
		Category: CategoryProtocol,
		Message:  "Invalid frame operation",
		Detail:   `Frame operations must be "insert", "attr" or "remove".`,
		DocURL:   docBase + "E201",
	},
	"E202": {
		Category: CategoryProtocol,
		Message:  "Malformed frame",
		Detail:   "The frame is not valid JSON or is missing required fields.",
		DocURL:   docBase + "E202",
	},
	"E203": {
		Category: CategoryProtocol,
		Message:  "Unsupported patch",
		Detail:   "The document produced a patch the wire protocol cannot express.",
		DocURL:   docBase + "E203",
	},

	// ============================================
	// Server Errors (E301-E399)
	// ============================================

	"E301": {
		Category: CategoryServer,
		Message:  "Listen failed",
		Detail:   "The server could not bind its address. Another process may be using the port.",
		DocURL:   docBase + "E301",
	},
	"E302": {
		Category: CategoryServer,
		Message:  "Stream upgrade failed",
		Detail:   "The browser connection could not be upgraded to a patch stream.",
		DocURL:   docBase + "E302",
	},
	"E303": {
		Category: CategoryServer,
		Message:  "Invalid alert request",
		Detail:   `POST /alerts expects {"kind": "...", "message": "..."} as JSON or a form.`,
		DocURL:   docBase + "E303",
	},
	"E304": {
		Category: CategoryServer,
		Message:  "Shutdown timed out",
		Detail:   "Open connections did not finish before the shutdown timeout.",
		DocURL:   docBase + "E304",
	},
	"E305": {
		Category: CategoryServer,
		Message:  "Stream dropped",
		Detail:   "The browser stream fell behind the document and was closed. The client reconnects and is replayed the frames it missed.",
		DocURL:   docBase + "E305",
	},
	"E306": {
		Category: CategoryServer,
		Message:  "Resync required",
		Detail:   "The page is older than the patch history, or newer than the document. Reload to resynchronise.",
		DocURL:   docBase + "E306",
	},

	// ============================================
	// CLI Errors (E401-E499)
	// ============================================

	"E401": {
		Category: CategoryCLI,
		Message:  "Invalid arguments",
		Detail:   "The command was called with missing or malformed arguments.",
		DocURL:   docBase + "E401",
	},
	"E402": {
		Category: CategoryCLI,
		Message:  "Config already exists",
		Detail:   "An alerts.json already exists in the target directory.",
		DocURL:   docBase + "E402",
	},
}

// GetAllCodes returns all registered error codes.
func GetAllCodes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	return codes
}

// GetTemplate returns the template for an error code.
func GetTemplate(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}

// Register adds a new error template to the registry.
func Register(code string, template ErrorTemplate) {
	registry[code] = template
}
