package errors

import (
	"errors"
	"fmt"
	"os"
	"testing"
)

func TestErrorString(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{
			name: "self-loop",
			err:  New(ErrCodeDegenerateEdge, "edge (%g, %g)-(%g, %g) is a self-loop", 3.0, 4.0, 3.0, 4.0),
			want: "DEGENERATE_EDGE: edge (3, 4)-(3, 4) is a self-loop",
		},
		{
			name: "same x",
			err:  New(ErrCodeDegenerateCorrespondence, "control points share x = %g", 12.5),
			want: "DEGENERATE_CORRESPONDENCE: control points share x = 12.5",
		},
		{
			name: "with cause",
			err:  Wrap(ErrCodeMalformedRecord, errors.New(`parse "abc"`), "line %d", 7),
			want: `MALFORMED_INPUT_RECORD: line 7: parse "abc"`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWrapFileNotFound(t *testing.T) {
	_, cause := os.Open("/nonexistent/skeleton.csv")
	err := Wrap(ErrCodeFileNotFound, cause, "open edge list")

	if !errors.Is(err, os.ErrNotExist) {
		t.Error("wrapped os error should still match os.ErrNotExist")
	}
	if errors.Unwrap(err) != cause {
		t.Errorf("Unwrap() = %v, want %v", errors.Unwrap(err), cause)
	}
	if !Is(err, ErrCodeFileNotFound) {
		t.Error("Is(FILE_NOT_FOUND) = false")
	}
}

// Locating a control point rewraps the graph's lookup error under the
// same code with the point's name.
func controlPointError(name string) error {
	inner := New(ErrCodeControlPointNotFound, "no node within %g of (%g, %g)", 1e-6, 50.0, 0.0)
	return Wrap(GetCode(inner), inner, "control point %q", name)
}

func TestIs(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code Code
		want bool
	}{
		{"matching code", New(ErrCodeEmptyGraph, "graph has no nodes"), ErrCodeEmptyGraph, true},
		{"other code", New(ErrCodeEmptyGraph, "graph has no nodes"), ErrCodeDegenerateEdge, false},
		{"rewrapped control point", controlPointError("gym"), ErrCodeControlPointNotFound, true},
		{"outermost code wins", Wrap(ErrCodeInvalidConfig, New(ErrCodeInvalidLocation, "bad"), "locations"), ErrCodeInvalidLocation, false},
		{"behind fmt.Errorf", fmt.Errorf("stage fit: %w", New(ErrCodeDegenerateCorrespondence, "same y")), ErrCodeDegenerateCorrespondence, true},
		{"plain error", errors.New("plain"), ErrCodeInternal, false},
		{"nil", nil, ErrCodeInternal, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.want {
				t.Errorf("Is() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGetCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Code
	}{
		{"control point", controlPointError("front gate"), ErrCodeControlPointNotFound},
		{"behind fmt.Errorf", fmt.Errorf("load: %w", New(ErrCodeMalformedRecord, "line 2")), ErrCodeMalformedRecord},
		{"plain error", errors.New("plain"), ""},
		{"nil", nil, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCode(tt.err); got != tt.want {
				t.Errorf("GetCode() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"control point", controlPointError("gym"), `control point "gym"`},
		{"behind fmt.Errorf", fmt.Errorf("stage build: %w", New(ErrCodeEmptyGraph, "graph has no nodes")), "graph has no nodes"},
		{"plain error", errors.New("disk full"), "disk full"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UserMessage(tt.err); got != tt.want {
				t.Errorf("UserMessage() = %q, want %q", got, tt.want)
			}
		})
	}
}
