package logging

import (
	"testing"

	"github.com/sirupsen/logrus"
)

func TestSetLevel(t *testing.T) {
	defer Log.SetLevel(logrus.InfoLevel)

	if err := SetLevel("debug"); err != nil {
		t.Fatalf("SetLevel(debug) error: %v", err)
	}
	if Log.GetLevel() != logrus.DebugLevel {
		t.Errorf("level = %v, want debug", Log.GetLevel())
	}

	if err := SetLevel("loud"); err == nil {
		t.Error("expected error for unknown level")
	}
	if Log.GetLevel() != logrus.DebugLevel {
		t.Error("invalid level should leave the current level untouched")
	}
}
