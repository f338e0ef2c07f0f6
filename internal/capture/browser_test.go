package capture

import (
	"errors"
	"strings"
	"testing"
)

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()
	if opts.Timeout != DefaultTimeout {
		t.Errorf("Timeout = %v, want %v", opts.Timeout, DefaultTimeout)
	}
	if opts.InstructionSelector == "" || opts.ImageSelector == "" {
		t.Error("default selectors must be non-empty")
	}
}

func TestError_Formatting(t *testing.T) {
	cause := errors.New("net down")
	err := &Error{URL: "http://example.com", Message: "challenge capture failed", Cause: cause}

	if !strings.Contains(err.Error(), "http://example.com") {
		t.Errorf("error should mention the URL: %s", err.Error())
	}
	if !errors.Is(err, cause) {
		t.Error("error should unwrap to its cause")
	}

	bare := &Error{URL: "http://example.com", Message: "no candidate images found"}
	if strings.Contains(bare.Error(), "<nil>") {
		t.Errorf("error without cause should not print nil: %s", bare.Error())
	}
}
