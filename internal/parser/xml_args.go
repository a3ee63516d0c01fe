package parser

import (
	"encoding/xml"
	"errors"
	"io"
	"regexp"
	"strings"
)

var argsWrapperPattern = regexp.MustCompile(`(?is)<arguments>(.*?)</arguments>`)
var tagSplitPattern = regexp.MustCompile(`(<[A-Za-z!/][^>]*>)`)
var bareEntityPattern = regexp.MustCompile(`&(?:amp|lt|gt|quot|apos|#\d+|#x[0-9a-fA-F]+);|&`)

// parseXMLArguments assembles the final `arguments` map from a tool call's raw
// accumulated inner-body string, per spec.md §4.6.1: strict XML parse of a
// synthetic `<root>` wrapper, then a sanitize-and-retry pass, then a permissive
// regex fallback.
func parseXMLArguments(content string) map[string]any {
	argsContent := content
	if match := argsWrapperPattern.FindStringSubmatch(content); match != nil {
		argsContent = match[1]
	} else {
		argsContent = strings.TrimSpace(content)
	}
	if argsContent == "" {
		return map[string]any{}
	}

	if root, err := parseXMLFragment(argsContent); err == nil {
		return parseXMLChildren(root)
	}

	sanitized := sanitizeXMLFragment(argsContent)
	if root, err := parseXMLFragment(sanitized); err == nil {
		return parseXMLChildren(root)
	}

	return parseLegacyArguments(argsContent)
}

type xmlNode struct {
	tag      string
	attrs    map[string]string
	children []*xmlNode
	text     strings.Builder
}

func parseXMLFragment(fragment string) (*xmlNode, error) {
	decoder := xml.NewDecoder(strings.NewReader("<root>" + fragment + "</root>"))
	decoder.Strict = true

	// The first start element is the synthetic <root> wrapper itself; it becomes
	// the returned node rather than a child of another root.
	var root *xmlNode
	var stack []*xmlNode

	for {
		tok, err := decoder.Token()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			node := &xmlNode{tag: t.Name.Local, attrs: map[string]string{}}
			for _, attr := range t.Attr {
				node.attrs[attr.Name.Local] = attr.Value
			}
			if len(stack) == 0 {
				root = node
			} else {
				parent := stack[len(stack)-1]
				parent.children = append(parent.children, node)
			}
			stack = append(stack, node)
		case xml.EndElement:
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		case xml.CharData:
			if len(stack) > 0 {
				stack[len(stack)-1].text.Write(t)
			}
		}
	}
	return root, nil
}

func parseXMLChildren(elem *xmlNode) map[string]any {
	result := map[string]any{}
	for _, child := range elem.children {
		name := child.attrs["name"]
		if name == "" {
			name = child.tag
		}
		if name == "" {
			continue
		}
		result[name] = parseXMLValue(child)
	}
	return result
}

func parseXMLValue(elem *xmlNode) any {
	var items []*xmlNode
	var argChildren []*xmlNode
	var otherChildren []*xmlNode
	for _, child := range elem.children {
		switch child.tag {
		case "item":
			items = append(items, child)
		case "arg":
			argChildren = append(argChildren, child)
		default:
			otherChildren = append(otherChildren, child)
		}
	}

	if len(items) > 0 {
		list := make([]any, 0, len(items))
		for _, item := range items {
			list = append(list, parseItemValue(item))
		}
		return list
	}
	if len(argChildren) > 0 || len(otherChildren) > 0 {
		return parseXMLChildren(elem)
	}
	return strings.TrimSpace(elem.text.String())
}

func parseItemValue(elem *xmlNode) any {
	var argChildren []*xmlNode
	var otherChildren []*xmlNode
	for _, child := range elem.children {
		if child.tag == "arg" {
			argChildren = append(argChildren, child)
		} else if child.tag != "item" {
			otherChildren = append(otherChildren, child)
		}
	}
	if len(argChildren) > 0 || len(otherChildren) > 0 {
		return parseXMLChildren(elem)
	}
	return strings.TrimSpace(elem.text.String())
}

// sanitizeXMLFragment escapes raw text runs between tags so the fragment becomes
// well-formed XML, without touching the tags themselves.
func sanitizeXMLFragment(fragment string) string {
	parts := tagSplitPattern.Split(fragment, -1)
	tags := tagSplitPattern.FindAllString(fragment, -1)

	var out strings.Builder
	tagIdx := 0
	for i, part := range parts {
		if part != "" {
			escaped := bareEntityPattern.ReplaceAllStringFunc(part, func(match string) string {
				if match == "&" {
					return "&amp;"
				}
				return match
			})
			escaped = strings.ReplaceAll(escaped, "<", "&lt;")
			out.WriteString(escaped)
		}
		if i < len(parts)-1 && tagIdx < len(tags) {
			out.WriteString(tags[tagIdx])
			tagIdx++
		}
	}
	return out.String()
}

// parseLegacyArguments is the permissive fallback: flat `<k>v</k>` pairs.
func parseLegacyArguments(argsContent string) map[string]any {
	arguments := map[string]any{}
	matches := legacyArgFinder.FindAllStringSubmatch(argsContent, -1)
	for _, match := range matches {
		if match[1] != match[3] {
			continue
		}
		arguments[match[1]] = strings.TrimSpace(match[2])
	}
	return arguments
}

var legacyArgFinder = regexp.MustCompile(`(?s)<(\w+)>(.*?)</(\w+)>`)
