package progress

import (
	"bytes"
	"strings"
	"testing"
)

func TestBar_RendersFolders(t *testing.T) {
	var buf bytes.Buffer
	bar := New(2, &buf)

	bar.SetDirectory("photos")
	bar.Increment()
	bar.SetDirectory("music")
	bar.Increment()

	out := buf.String()
	if !strings.Contains(out, "100% (2/2)") {
		t.Errorf("Expected completed bar, got %q", out)
	}
	if !strings.Contains(out, "music, photos") {
		t.Errorf("Expected sorted folder list, got %q", out)
	}
}

func TestBar_Finish(t *testing.T) {
	var buf bytes.Buffer
	bar := New(10, &buf)
	bar.Increment()
	bar.Finish()

	if !strings.HasSuffix(buf.String(), "(10/10)\n") {
		t.Errorf("Finish should render a full bar, got %q", buf.String())
	}
}

func TestBar_DisabledWithoutTotal(t *testing.T) {
	var buf bytes.Buffer
	bar := New(0, &buf)
	bar.Increment()
	bar.Finish()

	if buf.Len() != 0 {
		t.Errorf("Empty bar should write nothing, got %q", buf.String())
	}
}
