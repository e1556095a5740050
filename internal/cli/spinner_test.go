package cli

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"
)

func testCLI() (*CLI, *bytes.Buffer) {
	var out bytes.Buffer
	c := New(io.Discard, LogInfo)
	c.SetOutput(&out)
	return c, &out
}

func TestSpinnerBasic(t *testing.T) {
	c, _ := testCLI()
	s := c.newSpinner(context.Background(), "Testing...")
	s.Start()
	time.Sleep(100 * time.Millisecond)
	s.Stop()

	if s.Cancelled() {
		t.Error("Cancelled() = true after Stop, want false")
	}
}

func TestSpinnerWithContext(t *testing.T) {
	c, _ := testCLI()
	ctx, cancel := context.WithCancel(context.Background())

	s := c.newSpinner(ctx, "Testing with context...")
	s.Start()
	cancel()
	time.Sleep(100 * time.Millisecond)

	if !s.Cancelled() {
		t.Error("Spinner should be cancelled after context cancellation")
	}
	s.Stop()
}

func TestSpinnerWithTimeout(t *testing.T) {
	c, _ := testCLI()
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	s := c.newSpinner(ctx, "Testing with timeout...")
	s.Start()
	time.Sleep(100 * time.Millisecond)

	if !s.Cancelled() {
		t.Error("Spinner should be cancelled after context timeout")
	}
}

func TestSpinnerStopIsIdempotent(t *testing.T) {
	c, _ := testCLI()
	s := c.newSpinner(context.Background(), "Testing idempotent stop...")
	s.Start()

	s.Stop()
	s.Stop()
}

func TestSpinnerStopMessages(t *testing.T) {
	c, out := testCLI()

	s := c.newSpinner(context.Background(), "Working...")
	s.Start()
	s.StopWithSuccess("Done!")

	s = c.newSpinner(context.Background(), "Working...")
	s.Start()
	s.StopWithError("Failed!")

	got := out.String()
	for _, want := range []string{"Done!", "Failed!"} {
		if !strings.Contains(got, want) {
			t.Errorf("output %q does not contain %q", got, want)
		}
	}
}

func TestSpin(t *testing.T) {
	c, _ := testCLI()
	want := errors.New("boom")
	if err := c.spin(context.Background(), "Working...", func() error { return want }); err != want {
		t.Errorf("spin() = %v, want %v", err, want)
	}
}
