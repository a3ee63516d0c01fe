package parser

// toolArgsBuilder synthesizes the argument map the adapter attaches to a
// ToolInvocation for segment types that don't carry a ready-made `arguments` map in
// their own metadata (spec.md §4.12). It returns nil when the segment's accumulated
// metadata/content isn't enough to build a usable call.
type toolArgsBuilder func(metadata map[string]any, content string) map[string]any

// toolSyntaxSpec defines how one non-generic segment type maps onto a tool
// invocation (spec.md "Tool Syntax Registry").
type toolSyntaxSpec struct {
	toolName       string
	buildArguments toolArgsBuilder
}

// toolSyntaxRegistry is a static segment-type → tool-syntax-spec mapping, consulted
// only for segment types whose tool name and arguments aren't already carried
// directly in their own metadata (unlike tool_call, which the generic XmlTool and
// JsonTool states populate with {tool_name, arguments} themselves).
type toolSyntaxRegistry struct {
	specs map[SegmentType]toolSyntaxSpec
}

func newToolSyntaxRegistry() *toolSyntaxRegistry {
	return &toolSyntaxRegistry{
		specs: map[SegmentType]toolSyntaxSpec{
			SegmentWriteFile:      {toolName: "write_file", buildArguments: buildWriteFileArgs},
			SegmentPatchFile:      {toolName: "patch_file", buildArguments: buildPatchFileArgs},
			SegmentRunTerminalCmd: {toolName: "execute_bash", buildArguments: buildRunTerminalCmdArgs},
		},
	}
}

func (r *toolSyntaxRegistry) lookup(segmentType SegmentType) (toolSyntaxSpec, bool) {
	spec, ok := r.specs[segmentType]
	return spec, ok
}

func buildWriteFileArgs(metadata map[string]any, content string) map[string]any {
	path, _ := metadata["path"].(string)
	if path == "" {
		return nil
	}
	return map[string]any{"path": path, "content": content}
}

func buildPatchFileArgs(metadata map[string]any, content string) map[string]any {
	path, _ := metadata["path"].(string)
	if path == "" {
		return nil
	}
	return map[string]any{"path": path, "patch": content}
}

func buildRunTerminalCmdArgs(metadata map[string]any, content string) map[string]any {
	command, _ := metadata["command"].(string)
	if command == "" {
		command = content
	}
	if command == "" {
		return nil
	}
	return map[string]any{"command": command}
}
