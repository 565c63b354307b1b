package protocol

import (
	"strings"
	"testing"

	"github.com/vango-dev/alerts/internal/errors"
)

func TestEncodeDecode(t *testing.T) {
	f := NewPatchFrame(7,
		Op{Kind: OpInsert, HID: "h1", Parent: "h0", HTML: `<div class="alert" data-hid="h1">Saved!</div>`},
		Op{Kind: OpAttr, HID: "h1", Key: "class", Value: "alert"},
		Op{Kind: OpRemove, HID: "h1"},
	)

	data, err := Encode(f)
	if err != nil {
		t.Fatalf("Encode() error: %v", err)
	}
	if !strings.Contains(string(data), `"op":"insert"`) {
		t.Errorf("encoded frame should name ops as strings: %s", data)
	}
	if !strings.HasPrefix(string(data), `{"type":"patches","seq":7,`) {
		t.Errorf("unexpected frame prefix: %s", data)
	}

	got, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode() error: %v", err)
	}
	if got.Seq != 7 || len(got.Ops) != 3 {
		t.Fatalf("Decode() = %+v", got)
	}
	for i := range f.Ops {
		if got.Ops[i] != f.Ops[i] {
			t.Errorf("op %d = %+v, want %+v", i, got.Ops[i], f.Ops[i])
		}
	}
}

func TestDecodeInvalidOp(t *testing.T) {
	_, err := Decode([]byte(`{"type":"patches","seq":1,"ops":[{"op":"eval","hid":"h1"}]}`))
	if !errors.HasCode(err, "E201") {
		t.Fatalf("Decode() error = %v, want E201", err)
	}
	ae := errors.FromError(err, "")
	if ae.Field != "ops[0].op" {
		t.Errorf("Field = %q, want ops[0].op", ae.Field)
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"not json", `{`},
		{"unknown field", `{"type":"patches","extra":1}`},
		{"unknown type", `{"type":"hello"}`},
		{"error without message", `{"type":"error"}`},
		{"missing hid", `{"type":"patches","ops":[{"op":"remove"}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Decode([]byte(tt.input)); !errors.HasCode(err, "E202") {
				t.Fatalf("Decode(%s) error = %v, want E202", tt.input, err)
			}
		})
	}
}

func TestDecodeLimits(t *testing.T) {
	big := make([]byte, MaxFrameSize+1)
	if _, err := Decode(big); !errors.HasCode(err, "E202") {
		t.Fatalf("Decode(oversized) error = %v, want E202", err)
	}

	ops := make([]Op, MaxOpsPerFrame+1)
	for i := range ops {
		ops[i] = Op{Kind: OpRemove, HID: "h1"}
	}
	if _, err := Encode(NewPatchFrame(1, ops...)); !errors.HasCode(err, "E202") {
		t.Fatalf("Encode(too many ops) error = %v, want E202", err)
	}
}

func TestErrorFrame(t *testing.T) {
	f := NewErrorFrame(errors.New("E305").WithDetail("internal detail"))
	data, err := Encode(f)
	if err != nil {
		t.Fatalf("Encode() error: %v", err)
	}
	if strings.Contains(string(data), "internal detail") {
		t.Error("error frames must not carry details")
	}

	got, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode() error: %v", err)
	}
	if got.Type != FrameError || got.Error.Code != "E305" || !got.Error.Fatal {
		t.Fatalf("Decode() = %+v", got)
	}

	data, err = Encode(NewRetryFrame(errors.New("E305")))
	if err != nil {
		t.Fatalf("Encode(retry) error: %v", err)
	}
	if strings.Contains(string(data), "fatal") {
		t.Errorf("retry frame = %s, want no fatal flag", data)
	}
}
