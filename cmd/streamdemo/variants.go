package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/openclaude/streamparse/internal/parser"
)

// knownVariants lists every name parser.ConfigForVariant accepts: the three
// tool-parsing presets first, then the two pass-through aliases.
var knownVariants = []parser.Variant{
	parser.VariantXML,
	parser.VariantJSON,
	parser.VariantSentinel,
	parser.VariantNative,
	parser.VariantAPIToolCall,
}

func variantsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "variants",
		Short: "List the parser variants run/watch accept via --variant or STREAMPARSE_PARSER",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, variant := range knownVariants {
				cfg, err := parser.ConfigForVariant(variant, "")
				if err != nil {
					return err
				}
				fmt.Printf("%-14s parse_tool_calls=%-5v strategies=%v\n", variant, cfg.ParseToolCalls, cfg.StrategyOrder)
			}
			return nil
		},
	}
}
