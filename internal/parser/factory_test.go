package parser

import "testing"

func TestResolveVariantExplicitOverridesEnvironment(t *testing.T) {
	t.Setenv(EnvParserVariant, "json")
	if got := ResolveVariant(VariantSentinel); got != VariantSentinel {
		t.Fatalf("expected explicit variant to win, got %s", got)
	}
}

func TestResolveVariantFallsBackToEnvironment(t *testing.T) {
	t.Setenv(EnvParserVariant, "sentinel")
	if got := ResolveVariant(""); got != VariantSentinel {
		t.Fatalf("expected env variant sentinel, got %s", got)
	}
}

func TestResolveVariantDefaultsToXML(t *testing.T) {
	t.Setenv(EnvParserVariant, "")
	if got := ResolveVariant(""); got != VariantXML {
		t.Fatalf("expected default xml, got %s", got)
	}
}

func TestConfigForVariantNativeDisablesToolParsing(t *testing.T) {
	config, err := ConfigForVariant(VariantNative, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if config.ParseToolCalls {
		t.Fatalf("expected ParseToolCalls=false for native variant")
	}
}

func TestConfigForVariantAPIToolCallAliasesNative(t *testing.T) {
	nativeConfig, _ := ConfigForVariant(VariantNative, "")
	apiConfig, _ := ConfigForVariant(VariantAPIToolCall, "")
	if nativeConfig.ParseToolCalls != apiConfig.ParseToolCalls {
		t.Fatalf("expected api_tool_call to alias native")
	}
}

func TestConfigForVariantUnknownReturnsError(t *testing.T) {
	if _, err := ConfigForVariant(Variant("bogus"), ""); err != ErrUnknownParserVariant {
		t.Fatalf("expected ErrUnknownParserVariant, got %v", err)
	}
}
