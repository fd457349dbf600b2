package internal

import (
	"testing"

	"github.com/kcmvp/archunit"
)

func TestArchitecture(t *testing.T) {
	core := archunit.Packages("core", []string{
		".../internal/color/...",
		".../internal/lights/...",
		".../internal/hue/...",
	})
	tools := archunit.Packages("tools", []string{".../internal/tools/..."})
	application := archunit.Packages("app", []string{".../internal/app/..."})

	// Rule 1: color resolution and command projection never depend on the tool server
	if err := core.ShouldNotReferLayers(tools); err != nil {
		t.Errorf("Architecture violation: core depends on tools: %v", err)
	}

	// Rule 2: nothing below the app layer wires the application
	if err := core.ShouldNotReferLayers(application); err != nil {
		t.Errorf("Architecture violation: core depends on app: %v", err)
	}
	if err := tools.ShouldNotReferLayers(application); err != nil {
		t.Errorf("Architecture violation: tools depends on app: %v", err)
	}
}

func TestColorIsPure(t *testing.T) {
	colorPkg := archunit.Packages("color", []string{".../internal/color"})
	if len(colorPkg.Packages()) == 0 {
		t.Fatal("No color package found")
	}

	bridge := archunit.Packages("bridge", []string{".../internal/hue/...", ".../internal/lights/..."})
	if err := colorPkg.ShouldNotReferLayers(bridge); err != nil {
		t.Errorf("Architecture violation: color depends on bridge code: %v", err)
	}
}
