//go:build !gstreamer

package player

import (
	"testing"

	"go.uber.org/zap"
)

func TestStubDriverRefuses(t *testing.T) {
	if _, err := NewDriver(zap.NewNop(), "playbin uri={url}", ""); err == nil {
		t.Fatalf("expected error without gstreamer build tag")
	}

	var d Driver
	if err := d.Play(); err == nil {
		t.Fatalf("expected error from stub")
	}
	if err := d.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}
