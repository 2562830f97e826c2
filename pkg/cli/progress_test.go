package cli

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestSimpleProgress(t *testing.T) {
	var buf bytes.Buffer
	p := NewProgressReporter(&buf, "orders")

	clock := time.Date(2025, 7, 25, 2, 0, 0, 0, time.UTC)
	p.now = func() time.Time { return clock }

	p.Start(200)
	clock = clock.Add(2 * time.Second)
	p.Update(100)

	out := buf.String()
	if !strings.Contains(out, " 50.0% (100/200) 50.0 orders/s") {
		t.Errorf("progress line = %q", out)
	}

	p.Finish()
	if !strings.Contains(buf.String(), "100.0% (200/200)") || !strings.HasSuffix(buf.String(), "\n") {
		t.Errorf("finish output = %q", buf.String())
	}
}

func TestSimpleProgress_ZeroTotal(t *testing.T) {
	var buf bytes.Buffer
	p := NewProgressReporter(&buf, "")

	p.Start(0)
	p.Update(5)
	if buf.Len() != 0 {
		t.Errorf("zero total should render nothing, got %q", buf.String())
	}

	p.Error(errors.New("disk full"))
	if !strings.Contains(buf.String(), "error: disk full") {
		t.Errorf("error output = %q", buf.String())
	}
}
