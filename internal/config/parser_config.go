package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/openclaude/streamparse/internal/parser"
)

// ParserSettings is the on-disk shape of a parser configuration file. It mirrors
// parser.ParserConfig but uses JSON-friendly types (strategy names as strings). It
// has no dialect field, since parser.ParserConfig's JSONDialect carries an
// unexported function field; a loaded config uses the generic dialect.
type ParserSettings struct {
	// Variant selects a named preset (xml, json, native, sentinel, api_tool_call).
	// When set, ParseToolCalls/StrategyOrder/JSONToolPatterns below are ignored in
	// favor of the preset's own values; set Variant to "" to specify StrategyOrder
	// directly. With both Variant and StrategyOrder empty, STREAMPARSE_PARSER (if
	// set) names the preset.
	Variant string `json:"variant"`
	// ParseToolCalls is the master switch; ignored when Variant is non-empty.
	ParseToolCalls bool `json:"parse_tool_calls"`
	// StrategyOrder lists recognizer strategy names in priority order.
	StrategyOrder []string `json:"strategy_order"`
	// IDPrefix is prepended to every segment id this parser instance allocates.
	IDPrefix string `json:"id_prefix"`
	// JSONToolPatterns are signature prefixes that flag a JSON-shaped tool call.
	JSONToolPatterns []string `json:"json_tool_patterns"`
}

var (
	// ErrParserConfigMissing is returned when the config file does not exist.
	ErrParserConfigMissing = errors.New("parser config missing")
	// ErrParserConfigInvalid is returned when the file contains an unknown variant
	// or strategy name.
	ErrParserConfigInvalid = errors.New("parser config invalid")
)

// ParserConfigPath returns the default parser config path.
func ParserConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".streamparse", "parser.json"), nil
}

// LoadParserConfig reads, validates, and resolves a parser.ParserConfig from disk.
// An empty path resolves to ParserConfigPath(). Environment override of the
// variant (STREAMPARSE_PARSER, spec.md §6) is applied when the file sets neither
// Variant nor strategy_order, mirroring LoadProviderConfig's
// read-parse-validate-default shape.
func LoadParserConfig(path string) (parser.ParserConfig, error) {
	if path == "" {
		var err error
		path, err = ParserConfigPath()
		if err != nil {
			return parser.ParserConfig{}, err
		}
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return parser.ParserConfig{}, ErrParserConfigMissing
		}
		return parser.ParserConfig{}, fmt.Errorf("read parser config: %w", err)
	}

	var settings ParserSettings
	if err := json.Unmarshal(raw, &settings); err != nil {
		return parser.ParserConfig{}, fmt.Errorf("parse parser config: %w", err)
	}

	return resolveParserSettings(settings)
}

// resolveParserSettings turns the on-disk ParserSettings into a parser.ParserConfig,
// preferring a named Variant (taken from the environment when the file names
// neither a variant nor a strategy order) over an explicit StrategyOrder.
func resolveParserSettings(settings ParserSettings) (parser.ParserConfig, error) {
	variant := settings.Variant
	if variant == "" && len(settings.StrategyOrder) == 0 {
		variant = os.Getenv(parser.EnvParserVariant)
	}
	if variant != "" {
		cfg, err := parser.ConfigForVariant(parser.ResolveVariant(parser.Variant(variant)), settings.IDPrefix)
		if err != nil {
			return parser.ParserConfig{}, fmt.Errorf("%w: %s", ErrParserConfigInvalid, variant)
		}
		return cfg, nil
	}

	strategies := make([]parser.Strategy, 0, len(settings.StrategyOrder))
	for _, name := range settings.StrategyOrder {
		strategy, ok := strategyByName(name)
		if !ok {
			return parser.ParserConfig{}, fmt.Errorf("%w: unknown strategy %q", ErrParserConfigInvalid, name)
		}
		strategies = append(strategies, strategy)
	}

	cfg := parser.DefaultParserConfig()
	cfg.ParseToolCalls = settings.ParseToolCalls
	cfg.IDPrefix = settings.IDPrefix
	if len(strategies) > 0 {
		cfg.StrategyOrder = strategies
	}
	if len(settings.JSONToolPatterns) > 0 {
		cfg.JSONToolPatterns = settings.JSONToolPatterns
	}
	return cfg, nil
}

func strategyByName(name string) (parser.Strategy, bool) {
	switch parser.Strategy(name) {
	case parser.StrategyXMLTag:
		return parser.StrategyXMLTag, true
	case parser.StrategyJSONTool:
		return parser.StrategyJSONTool, true
	case parser.StrategySentinel:
		return parser.StrategySentinel, true
	default:
		return "", false
	}
}
