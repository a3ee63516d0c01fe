package parser

import "os"

// EnvParserVariant is the environment variable consulted when no variant is
// named explicitly (spec.md §6 "Configuration from environment"; renamed from
// the original AUTOBYTEUS_STREAM_PARSER per SPEC_FULL.md §6, since that name
// belongs to another project).
const EnvParserVariant = "STREAMPARSE_PARSER"

// Variant names a parser configuration preset. `native` and `api_tool_call` are
// aliases for the same pass-through behavior: tools arrive over a side channel
// rather than inline markup (spec.md §6).
type Variant string

const (
	VariantXML         Variant = "xml"
	VariantJSON        Variant = "json"
	VariantNative      Variant = "native"
	VariantSentinel    Variant = "sentinel"
	VariantAPIToolCall Variant = "api_tool_call"
)

// ConfigForVariant returns the ParserConfig a named variant resolves to.
// VariantNative and VariantAPIToolCall disable tool parsing entirely; callers
// using either should prefer NewPassthroughParser over NewParser, since neither
// variant recognizes markup at all.
func ConfigForVariant(variant Variant, idPrefix string) (ParserConfig, error) {
	switch variant {
	case VariantXML:
		return ParserConfig{
			ParseToolCalls: true,
			StrategyOrder:  []Strategy{StrategyXMLTag},
			IDPrefix:       idPrefix,
			JSONDialect:    JSONDialectGeneric,
		}, nil
	case VariantJSON:
		return ParserConfig{
			ParseToolCalls: true,
			StrategyOrder:  []Strategy{StrategyXMLTag, StrategyJSONTool},
			IDPrefix:       idPrefix,
			JSONDialect:    JSONDialectGeneric,
		}, nil
	case VariantSentinel:
		return ParserConfig{
			ParseToolCalls: true,
			StrategyOrder:  []Strategy{StrategyXMLTag, StrategySentinel},
			IDPrefix:       idPrefix,
			JSONDialect:    JSONDialectGeneric,
		}, nil
	case VariantNative, VariantAPIToolCall:
		return ParserConfig{
			ParseToolCalls: false,
			IDPrefix:       idPrefix,
		}, nil
	default:
		return ParserConfig{}, ErrUnknownParserVariant
	}
}

// ResolveVariant picks the variant to use: explicit (if non-empty) always wins
// over the environment; otherwise STREAMPARSE_PARSER is consulted; with
// neither set, VariantXML is the default (spec.md §6).
func ResolveVariant(explicit Variant) Variant {
	if explicit != "" {
		return explicit
	}
	if fromEnv := os.Getenv(EnvParserVariant); fromEnv != "" {
		return Variant(fromEnv)
	}
	return VariantXML
}

// NewHandlerForVariant builds a Handler for the resolved variant name. For the
// pass-through variants it wraps a ParseToolCalls: false Parser, not a
// PassthroughParser: tool markup comes through as TEXT, while
// `<!doctype html>` blocks still become IFRAME segments.
func NewHandlerForVariant(explicit Variant, idPrefix string, opts ...HandlerOption) (*Handler, error) {
	config, err := ConfigForVariant(ResolveVariant(explicit), idPrefix)
	if err != nil {
		return nil, err
	}
	return NewHandler(config, opts...), nil
}
