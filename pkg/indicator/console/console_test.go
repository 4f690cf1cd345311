package console

import (
	"bytes"
	"io"
	"os"
	"testing"
	"time"

	"github.com/ericogr/aht20-udp-node/pkg/indicator"
)

func captureStdout(f func()) string {
	r, w, _ := os.Pipe()
	stdout := os.Stdout
	os.Stdout = w
	outC := make(chan string)
	go func() {
		var buf bytes.Buffer
		_, _ = io.Copy(&buf, r)
		outC <- buf.String()
	}()
	f()
	_ = w.Close()
	os.Stdout = stdout
	return <-outC
}

func TestConsoleActiveIdle(t *testing.T) {
	ts := time.Date(2025, 9, 19, 14, 41, 54, 0, time.UTC)
	c := &ConsoleIndicator{now: func() time.Time { return ts }}
	out := captureStdout(func() {
		_ = c.SetActive(indicator.ColorTransmit)
		_ = c.SetIdle()
	})
	want := "2025-09-19T14:41:54Z indicator=active hue=120 saturation=255 value=32\n" +
		"2025-09-19T14:41:54Z indicator=idle\n"
	if out != want {
		t.Fatalf("console output mismatch:\n got: %q\nwant: %q", out, want)
	}
}
