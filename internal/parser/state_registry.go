package parser

// toolStateConstructor builds the specialized content state for one tool name,
// given the full opening tag text (e.g. `<tool name="write_file">`).
type toolStateConstructor func(openingTag string) state

// toolStateRegistry maps canonical tool names to specialized content-state
// constructors (spec.md §4.11 "Per-tool-name state registry"). XmlTagInit consults
// it when dispatching a `<tool name="X">`; unregistered names fall back to the
// generic XmlTool state.
type toolStateRegistry struct {
	constructors map[string]toolStateConstructor
}

func newToolStateRegistry() *toolStateRegistry {
	return &toolStateRegistry{
		constructors: map[string]toolStateConstructor{
			"write_file": func(openingTag string) state { return newWriteFileState(openingTag) },
			"patch_file": func(openingTag string) state { return newPatchFileState(openingTag) },
			"edit_file":  func(openingTag string) state { return newPatchFileState(openingTag) },
			"run_terminal_cmd": func(openingTag string) state {
				return newRunTerminalCmdState(openingTag)
			},
		},
	}
}

func (r *toolStateRegistry) lookup(toolName string, openingTag string) (state, bool) {
	constructor, ok := r.constructors[toolName]
	if !ok {
		return nil, false
	}
	return constructor(openingTag), true
}
