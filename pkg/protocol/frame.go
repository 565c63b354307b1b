package protocol

import (
	"bytes"
	"encoding/json"
	"strconv"

	"github.com/vango-dev/alerts/internal/errors"
)

// Frame limits.
const (
	// MaxFrameSize is the largest frame Decode accepts, in bytes.
	MaxFrameSize = 1 << 20

	// MaxOpsPerFrame bounds the operations in a single frame.
	MaxOpsPerFrame = 1024
)

// FrameType identifies the type of frame.
type FrameType string

const (
	FramePatches FrameType = "patches" // Server → Client patches
	FrameError   FrameType = "error"   // Server → Client error
)

// Frame is one message on a patch stream.
type Frame struct {
	Type  FrameType     `json:"type"`
	Seq   uint64        `json:"seq,omitempty"`
	Ops   []Op          `json:"ops,omitempty"`
	Error *ErrorMessage `json:"error,omitempty"`
}

// ErrorMessage is sent when the server gives up on a stream.
type ErrorMessage struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	// Fatal tells the client to stop applying patches and reload.
	Fatal bool `json:"fatal,omitempty"`
}

// NewPatchFrame returns a patches frame.
func NewPatchFrame(seq uint64, ops ...Op) Frame {
	return Frame{Type: FramePatches, Seq: seq, Ops: ops}
}

// NewErrorFrame returns a fatal error frame for err. Only the code and the
// template message are sent.
func NewErrorFrame(err *errors.AlertsError) Frame {
	return Frame{Type: FrameError, Error: &ErrorMessage{
		Code:    err.Code,
		Message: err.Message,
		Fatal:   true,
	}}
}

// NewRetryFrame returns a non-fatal error frame for err. The client keeps
// its page and reconnects from the last version it applied.
func NewRetryFrame(err *errors.AlertsError) Frame {
	f := NewErrorFrame(err)
	f.Error.Fatal = false
	return f
}

// Validate checks the frame and all of its operations.
func (f Frame) Validate() error {
	switch f.Type {
	case FramePatches:
		if len(f.Ops) > MaxOpsPerFrame {
			return errors.New("E202").
				WithField("ops").
				WithDetail(strconv.Itoa(len(f.Ops)) + " operations exceed the frame limit")
		}
		for i, op := range f.Ops {
			if err := op.Validate(); err != nil {
				ae := errors.FromError(err, "E202")
				ae.Field = "ops[" + strconv.Itoa(i) + "]." + ae.Field
				return ae
			}
		}
	case FrameError:
		if f.Error == nil {
			return errors.New("E202").WithField("error").WithDetail("error frame without a message")
		}
	default:
		return errors.New("E202").
			WithField("type").
			WithDetail(strconv.Quote(string(f.Type)) + " is not a known frame type")
	}
	return nil
}

// Encode validates and serialises a frame.
func Encode(f Frame) ([]byte, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	data, err := json.Marshal(f)
	if err != nil {
		return nil, errors.New("E202").Wrap(err)
	}
	return data, nil
}

// Decode parses and validates a frame.
func Decode(data []byte) (Frame, error) {
	if len(data) > MaxFrameSize {
		return Frame{}, errors.New("E202").
			WithDetail(strconv.Itoa(len(data)) + " bytes exceed the frame limit")
	}
	var f Frame
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&f); err != nil {
		return Frame{}, errors.New("E202").Wrap(err)
	}
	if err := f.Validate(); err != nil {
		return Frame{}, err
	}
	return f, nil
}
