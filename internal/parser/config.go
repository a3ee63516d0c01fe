package parser

// Strategy names one of the markup-recognition strategies TextState may transition
// into (spec.md §4.11 "TextState strategy order").
type Strategy string

// The three recognizer strategies a parser instance may enable.
const (
	StrategyXMLTag   Strategy = "xml_tag"
	StrategyJSONTool Strategy = "json_tool"
	StrategySentinel Strategy = "sentinel"
)

// ParserConfig controls a single parser instance's behavior (spec.md §3 "Parser
// Config").
type ParserConfig struct {
	// ParseToolCalls is the master switch; when false, all tool-bearing markup is
	// passed through as text.
	ParseToolCalls bool
	// StrategyOrder lists which recognizers TextState honors, in priority order.
	// The XML tag trigger ('<') is always active independent of this list, and
	// xml_tag's presence here is not consulted: whether a <tool> tag is processed
	// as markup (rather than passed through) depends on ParseToolCalls alone.
	StrategyOrder []Strategy
	// IDPrefix is prepended to every segment id this parser instance allocates.
	IDPrefix string
	// JSONDialect selects the provider-specific JSON tool-call shape JsonTool uses
	// to extract {name, arguments} from a completed JSON value.
	JSONDialect JSONDialect
	// JSONToolPatterns are the signature prefixes that flag a JSON-shaped tool call
	// (e.g. `{"name"`, `[{"tool"`). Empty uses defaultJSONToolPatterns.
	JSONToolPatterns []string
}

// DefaultParserConfig returns the conventional xml-tool configuration: tool parsing
// enabled, xml_tag and sentinel strategies active, generic JSON dialect.
func DefaultParserConfig() ParserConfig {
	return ParserConfig{
		ParseToolCalls: true,
		StrategyOrder:  []Strategy{StrategyXMLTag, StrategySentinel},
		JSONDialect:    JSONDialectGeneric,
	}
}
