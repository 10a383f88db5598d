package main

import (
	"os"
	"syscall"
	"testing"
	"time"
)

func TestStopAfterClosesOnDuration(t *testing.T) {
	stop := stopAfter(10*time.Millisecond, make(chan os.Signal))

	select {
	case <-stop:
	case <-time.After(2 * time.Second):
		t.Fatalf("stop channel never closed after the duration elapsed")
	}
}

func TestStopAfterSurvivesDualTrigger(t *testing.T) {
	sigs := make(chan os.Signal, 1)
	stop := stopAfter(time.Millisecond, sigs)
	sigs <- syscall.SIGTERM

	select {
	case <-stop:
	case <-time.After(2 * time.Second):
		t.Fatalf("stop channel never closed")
	}

	// Give the second trigger time to fire; a double close would
	// panic the process and fail the test run here.
	time.Sleep(20 * time.Millisecond)
	<-stop
}

func TestStopAfterZeroDurationWaitsForSignal(t *testing.T) {
	sigs := make(chan os.Signal, 1)
	stop := stopAfter(0, sigs)

	select {
	case <-stop:
		t.Fatalf("stop channel closed without any trigger")
	case <-time.After(20 * time.Millisecond):
	}

	sigs <- syscall.SIGINT
	select {
	case <-stop:
	case <-time.After(2 * time.Second):
		t.Fatalf("stop channel never closed after the signal")
	}
}
