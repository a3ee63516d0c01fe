package main

import (
	"testing"

	"github.com/openclaude/streamparse/internal/parser"
)

func TestKnownVariantsAllResolve(t *testing.T) {
	for _, variant := range knownVariants {
		if _, err := parser.ConfigForVariant(variant, ""); err != nil {
			t.Fatalf("variant %s does not resolve: %v", variant, err)
		}
	}
}

func TestVariantsCommandRuns(t *testing.T) {
	cmd := variantsCommand()
	if err := cmd.RunE(cmd, nil); err != nil {
		t.Fatalf("variants command: %v", err)
	}
}
