package cli

import (
	"testing"

	"github.com/rcliao/wellness-profile/internal/model"
)

func TestSplitList(t *testing.T) {
	got := splitList(" yoga, ,Chess ,")
	if len(got) != 2 || got[0] != "yoga" || got[1] != "Chess" {
		t.Errorf("unexpected list %v", got)
	}
	if splitList("") != nil {
		t.Error("expected nil for empty input")
	}
}

func TestParseSignals(t *testing.T) {
	got, err := parseSignals([]string{"meaning=2.5", " engagement = -1"})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got[model.Meaning] != 2.5 || got[model.Engagement] != -1 {
		t.Errorf("unexpected signals %v", got)
	}

	for _, bad := range []string{"meaning", "joy=1", "meaning=lots"} {
		if _, err := parseSignals([]string{bad}); err == nil {
			t.Errorf("expected error for %q", bad)
		}
	}
}
