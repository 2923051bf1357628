package progress

import (
	"bytes"
	"strings"
	"testing"
)

func TestBar_DisabledWritesPlainMessages(t *testing.T) {
	var buf bytes.Buffer
	b := New(Options{Total: 3, Disabled: true, Writer: &buf})

	if !b.IsDisabled() {
		t.Fatal("bar should be disabled")
	}

	b.WriteMessage("✅ %s\n", "a.jpg")
	b.Increment()
	b.IncrementSkipped()
	b.IncrementFailed()
	b.Finish()

	if got := buf.String(); got != "✅ a.jpg\n" {
		t.Errorf("output = %q, want %q", got, "✅ a.jpg\n")
	}
}

func TestBar_ZeroTotalIsDisabled(t *testing.T) {
	var buf bytes.Buffer
	b := New(Options{Total: 0, Writer: &buf})
	if !b.IsDisabled() {
		t.Error("bar with zero total should be disabled")
	}
}

func TestBar_Enabled(t *testing.T) {
	var buf bytes.Buffer
	b := New(Options{Total: 2, Description: "Превью", Writer: &buf})
	if b.IsDisabled() {
		t.Fatal("bar should be enabled")
	}

	b.Increment()
	b.WriteMessage("⏭️  %s\n", "b.jpg")
	b.IncrementSkipped()
	b.Finish()

	if !strings.Contains(buf.String(), "b.jpg") {
		t.Errorf("output %q does not contain the message", buf.String())
	}
}

func TestBar_DescriptionCountsSkippedAndFailed(t *testing.T) {
	var buf bytes.Buffer
	b := New(Options{Total: 3, Description: "Веб-версии", Writer: &buf})

	b.Increment()
	b.IncrementSkipped()
	b.IncrementFailed()
	b.Finish()

	if !strings.Contains(buf.String(), "Веб-версии (пропущено: 1, ошибок: 1)") {
		t.Errorf("output %q does not show skipped and failed counts", buf.String())
	}
}
