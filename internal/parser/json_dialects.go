package parser

import "encoding/json"

// toolCallRecord is one {name, arguments} extracted from a completed JSON tool-call
// value.
type toolCallRecord struct {
	name      string
	arguments map[string]any
}

// JSONDialect names a provider-specific shape for extracting tool-call records from
// a JSON blob (spec.md "json_tool_parser: opaque profile"). Providers disagree on
// where the name and arguments live (top-level, nested under "function", wrapped in
// a "tool_calls" array); a dialect is just the function that knows which.
type JSONDialect struct {
	Name    string
	extract func(data any) []toolCallRecord
}

// JSONDialectGeneric accepts the superset of shapes the reference parser's
// json_tool_parser recognizes: a bare object, an array of objects, or an object
// wrapping a "tool_calls" array — each record's name from "name"/"tool"/
// "function.name" and its arguments from "arguments"/"parameters"/
// "function.arguments" (itself re-parsed if given as a JSON string).
var JSONDialectGeneric = JSONDialect{Name: "generic", extract: extractGenericToolCalls}

func extractGenericToolCalls(data any) []toolCallRecord {
	switch value := data.(type) {
	case []any:
		var records []toolCallRecord
		for _, item := range value {
			records = append(records, extractGenericToolCalls(item)...)
		}
		return records
	case map[string]any:
		if rawCalls, ok := value["tool_calls"].([]any); ok {
			var records []toolCallRecord
			for _, item := range rawCalls {
				records = append(records, extractGenericToolCalls(item)...)
			}
			return records
		}
		if record, ok := extractSingleRecord(value); ok {
			return []toolCallRecord{record}
		}
	}
	return nil
}

func extractSingleRecord(data map[string]any) (toolCallRecord, bool) {
	name, _ := data["name"].(string)
	if name == "" {
		name, _ = data["tool"].(string)
	}
	if name == "" {
		if fn, ok := data["function"].(map[string]any); ok {
			name, _ = fn["name"].(string)
		}
	}
	if name == "" {
		return toolCallRecord{}, false
	}

	arguments := lookupArguments(data, "arguments")
	if arguments == nil {
		arguments = lookupArguments(data, "parameters")
	}
	if arguments == nil {
		if fn, ok := data["function"].(map[string]any); ok {
			arguments = lookupArguments(fn, "arguments")
		}
	}
	if arguments == nil {
		arguments = map[string]any{}
	}
	return toolCallRecord{name: name, arguments: arguments}, true
}

func lookupArguments(data map[string]any, key string) map[string]any {
	raw, ok := data[key]
	if !ok {
		return nil
	}
	switch typed := raw.(type) {
	case map[string]any:
		return typed
	case string:
		var parsed map[string]any
		if err := json.Unmarshal([]byte(typed), &parsed); err == nil {
			return parsed
		}
	}
	return nil
}
