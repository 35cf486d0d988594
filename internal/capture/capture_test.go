package capture

import (
	"context"
	"testing"
	"time"
)

func TestNormalizeDefaults(t *testing.T) {
	o := Options{URL: "http://127.0.0.1:8080/calendar"}
	if err := o.normalize(); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if o.Width != DefaultWidth || o.Height != DefaultHeight || o.Timeout != DefaultTimeout {
		t.Fatalf("defaults not applied: %+v", o)
	}

	o = Options{URL: "x", Width: 1024, Height: 768, Timeout: time.Second}
	if err := o.normalize(); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if o.Width != 1024 || o.Height != 768 || o.Timeout != time.Second {
		t.Fatalf("explicit values overwritten: %+v", o)
	}
}

func TestMissingFields(t *testing.T) {
	if _, err := CapturePNG(context.Background(), Options{}); err == nil {
		t.Fatalf("CapturePNG without URL returned nil error")
	}
	if err := CaptureCalendarPNG(context.Background(), Options{URL: "http://127.0.0.1/calendar"}); err == nil {
		t.Fatalf("CaptureCalendarPNG without OutputPath returned nil error")
	}
}

func TestAllocatorOptions(t *testing.T) {
	base := len(Options{}.allocatorOptions())
	got := len(Options{ExecPath: "/usr/bin/chromium", NoSandbox: true}.allocatorOptions())
	if got != base+2 {
		t.Fatalf("allocator options = %d, want %d", got, base+2)
	}
}
