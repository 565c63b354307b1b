package errors

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		code    string
		wantMsg string
		wantCat Category
	}{
		{
			name:    "config error",
			code:    "E104",
			wantMsg: "Invalid stream transport",
			wantCat: CategoryConfig,
		},
		{
			name:    "protocol error",
			code:    "E201",
			wantMsg: "Invalid frame operation",
			wantCat: CategoryProtocol,
		},
		{
			name:    "server error",
			code:    "E303",
			wantMsg: "Invalid alert request",
			wantCat: CategoryServer,
		},
		{
			name:    "cli error",
			code:    "E402",
			wantMsg: "Config already exists",
			wantCat: CategoryCLI,
		},
		{
			name:    "unknown error code",
			code:    "E999",
			wantMsg: "Unknown error",
			wantCat: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(tt.code)
			if err.Message != tt.wantMsg {
				t.Errorf("Message = %q, want %q", err.Message, tt.wantMsg)
			}
			if err.Category != tt.wantCat {
				t.Errorf("Category = %q, want %q", err.Category, tt.wantCat)
			}
			if err.Code != tt.code {
				t.Errorf("Code = %q, want %q", err.Code, tt.code)
			}
		})
	}
}

func TestRegistryCodesMatchCategories(t *testing.T) {
	want := map[byte]Category{
		'1': CategoryConfig,
		'2': CategoryProtocol,
		'3': CategoryServer,
		'4': CategoryCLI,
	}
	for _, code := range GetAllCodes() {
		tmpl, _ := GetTemplate(code)
		if got := want[code[1]]; got != tmpl.Category {
			t.Errorf("%s: category = %q, want %q", code, tmpl.Category, got)
		}
		if !strings.HasSuffix(tmpl.DocURL, code) {
			t.Errorf("%s: DocURL %q does not end with the code", code, tmpl.DocURL)
		}
	}
}

func TestNewf(t *testing.T) {
	err := Newf(CategoryServer, "stream %q closed", "abc")
	if err.Message != `stream "abc" closed` {
		t.Errorf("Message = %q, want %q", err.Message, `stream "abc" closed`)
	}
	if err.Category != CategoryServer {
		t.Errorf("Category = %q, want %q", err.Category, CategoryServer)
	}
}

func TestAlertsError_Error(t *testing.T) {
	err := New("E201")
	if got, want := err.Error(), "E201: Invalid frame operation"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	// Without code
	err2 := &AlertsError{Message: "test error"}
	if err2.Error() != "test error" {
		t.Errorf("Error() = %q, want %q", err2.Error(), "test error")
	}

	// With cause
	err3 := New("E101").Wrap(fmt.Errorf("open alerts.json: no such file"))
	if got, want := err3.Error(), "E101: Config file not found: open alerts.json: no such file"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestAlertsError_Builders(t *testing.T) {
	err := New("E104").
		WithField("stream.transport").
		WithDetail(`got "grpc"`).
		WithSuggestion(`Use "websocket" or "sse"`)

	if err.Field != "stream.transport" {
		t.Errorf("Field = %q", err.Field)
	}
	if err.Detail != `got "grpc"` {
		t.Errorf("Detail = %q", err.Detail)
	}
	if err.Suggestion != `Use "websocket" or "sse"` {
		t.Errorf("Suggestion = %q", err.Suggestion)
	}
}

func TestAlertsError_WrapAndIs(t *testing.T) {
	cause := stderrors.New("boom")
	outer := New("E301").Wrap(cause)

	if outer.Unwrap() != cause {
		t.Error("Unwrap() should return wrapped error")
	}
	if !stderrors.Is(outer, cause) {
		t.Error("errors.Is should find the cause")
	}
	if !stderrors.Is(fmt.Errorf("serve: %w", outer), New("E301")) {
		t.Error("errors.Is should match on code")
	}
	if stderrors.Is(outer, New("E302")) {
		t.Error("errors.Is should not match a different code")
	}

	var ae *AlertsError
	if !stderrors.As(fmt.Errorf("ctx: %w", outer), &ae) || ae.Code != "E301" {
		t.Error("errors.As should extract the AlertsError")
	}
}

func TestHasCode(t *testing.T) {
	inner := New("E102")
	outer := New("E101").Wrap(inner)
	wrapped := fmt.Errorf("load: %w", outer)

	if !HasCode(wrapped, "E101") {
		t.Error("HasCode should find outer code")
	}
	if !HasCode(wrapped, "E102") {
		t.Error("HasCode should find inner code")
	}
	if HasCode(wrapped, "E103") {
		t.Error("HasCode should not find absent code")
	}
	if HasCode(nil, "E101") {
		t.Error("HasCode(nil) should be false")
	}
}

func TestFromError(t *testing.T) {
	if FromError(nil, "E301") != nil {
		t.Error("FromError(nil, ...) should return nil")
	}

	ae := New("E301")
	if FromError(ae, "E302") != ae {
		t.Error("FromError should return AlertsError as-is")
	}
	if FromError(fmt.Errorf("wrap: %w", ae), "E302") != ae {
		t.Error("FromError should unwrap to the AlertsError")
	}

	stdErr := stderrors.New("test error")
	result := FromError(stdErr, "E301")
	if result.Wrapped != stdErr {
		t.Error("Standard error should be wrapped")
	}
	if result.Code != "E301" {
		t.Errorf("Code = %q, want E301", result.Code)
	}
}

func TestFormat(t *testing.T) {
	DisableColors()
	defer EnableColors()

	err := New("E104").
		WithField("stream.transport").
		WithSuggestion(`Use "websocket" or "sse"`).
		Wrap(stderrors.New("bad value"))

	formatted := err.Format()
	for _, want := range []string{
		"ERROR E104: Invalid stream transport",
		"stream.transport",
		"Cause: bad value",
		`Hint: Use "websocket" or "sse"`,
		"Learn more: https://alerts.vango.dev/errors/E104",
	} {
		if !strings.Contains(formatted, want) {
			t.Errorf("Format() missing %q in:\n%s", want, formatted)
		}
	}
	if strings.Contains(formatted, "\033[") {
		t.Error("Format() should not contain ANSI codes when colors are disabled")
	}
}

func TestFormatPlain(t *testing.T) {
	err := New("E103").WithField("server.port").WithDetail("got 70000")
	want := "E103: Invalid port [server.port]: got 70000"
	if got := err.FormatPlain(); got != want {
		t.Errorf("FormatPlain() = %q, want %q", got, want)
	}
}

func TestFormatJSON(t *testing.T) {
	err := New("E303").WithField("kind").Wrap(stderrors.New("secret internals"))

	var decoded map[string]string
	if jerr := json.Unmarshal([]byte(err.FormatJSON()), &decoded); jerr != nil {
		t.Fatalf("FormatJSON() is not valid JSON: %v", jerr)
	}
	if decoded["code"] != "E303" {
		t.Errorf("code = %q", decoded["code"])
	}
	if decoded["category"] != "server" {
		t.Errorf("category = %q", decoded["category"])
	}
	if decoded["field"] != "kind" {
		t.Errorf("field = %q", decoded["field"])
	}
	if strings.Contains(err.FormatJSON(), "secret internals") {
		t.Error("FormatJSON() must not leak the wrapped cause")
	}
}

func TestPrintError(t *testing.T) {
	DisableColors()
	defer EnableColors()

	var buf bytes.Buffer
	PrintError(&buf, fmt.Errorf("serve: %w", New("E301")))
	if !strings.Contains(buf.String(), "ERROR E301: Listen failed") {
		t.Errorf("PrintError() = %q", buf.String())
	}

	buf.Reset()
	PrintError(&buf, stderrors.New("plain"))
	if !strings.Contains(buf.String(), "ERROR: plain") {
		t.Errorf("PrintError() = %q", buf.String())
	}
}

func TestRegister(t *testing.T) {
	Register("E999", ErrorTemplate{
		Category: CategoryServer,
		Message:  "Custom test error",
		Detail:   "This is a test error",
		DocURL:   "https://test.dev/E999",
	})
	defer delete(registry, "E999")

	err := New("E999")
	if err.Message != "Custom test error" {
		t.Errorf("Message = %q, want %q", err.Message, "Custom test error")
	}
}

func TestWrapText(t *testing.T) {
	got := wrapText("short text", 100)
	if len(got) != 1 || got[0] != "short text" {
		t.Errorf("wrapText short text: got %v", got)
	}

	got = wrapText("this is a longer text that should be wrapped", 20)
	if len(got) != 3 {
		t.Errorf("wrapText long text: expected 3 lines, got %d: %v", len(got), got)
	}

	got = wrapText("", 10)
	if len(got) != 0 {
		t.Errorf("wrapText empty: expected empty, got %v", got)
	}
}

func TestColorFunctions(t *testing.T) {
	EnableColors()
	if !strings.Contains(red("test"), "\033[31m") {
		t.Error("red should contain ANSI code when colors enabled")
	}

	DisableColors()
	if strings.Contains(red("test"), "\033[") {
		t.Error("red should not contain ANSI code when colors disabled")
	}
	EnableColors()
}
