package manifest

import (
	"bytes"
	"strings"

	"gopkg.in/yaml.v3"
)

// textLines is manifest text split on "\n". A trailing newline shows up as a
// final empty element so joining restores the text exactly.
type textLines struct {
	lines []string
	cr    string
}

func newTextLines(data []byte) *textLines {
	s := string(data)
	t := &textLines{}
	if strings.Contains(s, "\r\n") {
		t.cr = "\r"
	}
	if s != "" && !strings.HasSuffix(s, "\n") {
		s += t.cr + "\n"
	}
	t.lines = strings.Split(s, "\n")
	return t
}

func (t *textLines) bytes() []byte {
	return []byte(strings.Join(t.lines, "\n"))
}

// replace swaps lines [from, to) (0-based) for block.
func (t *textLines) replace(from, to int, block []string) {
	out := make([]string, 0, len(t.lines)+len(block))
	out = append(out, t.lines[:from]...)
	for _, l := range block {
		out = append(out, l+t.cr)
	}
	out = append(out, t.lines[to:]...)
	t.lines = out
}

// contentEnd returns the index just past the last line in [from, to) that is
// neither blank nor a comment. Trailing comments stay with whatever follows.
func (t *textLines) contentEnd(from, to int) int {
	for to > from {
		trimmed := strings.TrimSpace(t.lines[to-1])
		if trimmed != "" && !strings.HasPrefix(trimmed, "#") {
			break
		}
		to--
	}
	return to
}

// eof is the boundary used when a node has no following sibling.
func (t *textLines) eof() int {
	return len(t.lines) - 1
}

// splice rewrites only the lines holding flutter.assets and leaves every other
// byte of data alone. It reports false when the layout is not plain block
// style, in which case the caller re-encodes the node tree instead.
func splice(data []byte, doc *Document, assets []string) ([]byte, bool) {
	root := doc.Root()
	if root.Kind != yaml.MappingNode || root.Style&yaml.FlowStyle != 0 {
		return nil, false
	}
	if bytes.HasPrefix(bytes.TrimSpace(data), []byte("---")) {
		return nil, false
	}
	rendered, flow, ok := renderSequence(assets, doc.indent)
	if !ok {
		return nil, false
	}
	text := newTextLines(data)
	step := strings.Repeat(" ", doc.indent)

	idx := entryIndex(root, SectionKey)
	if idx < 0 {
		block := append([]string{SectionKey + ":"}, assetsBlock(step, step+step, rendered, flow)...)
		end := text.eof()
		text.replace(end, end, block)
		return text.bytes(), true
	}

	key, section := root.Content[idx], root.Content[idx+1]
	sectionEnd := text.eof()
	if idx+2 < len(root.Content) {
		sectionEnd = root.Content[idx+2].Line - 1
	}

	switch {
	case IsNull(section):
		if section.Value != "" && section.Line != key.Line {
			return nil, false
		}
		line := text.lines[key.Line-1]
		indent := line[:key.Column-1]
		head := indent + SectionKey + ":"
		if c := strings.Index(line, " #"); c >= 0 {
			head += strings.TrimSuffix(line[c:], "\r")
		}
		block := append([]string{head}, assetsBlock(indent+step, indent+step+step, rendered, flow)...)
		text.replace(key.Line-1, key.Line, block)
		return text.bytes(), true

	case section.Kind == yaml.MappingNode:
		if section.Style&yaml.FlowStyle != 0 || len(section.Content) == 0 || section.Line == key.Line {
			return nil, false
		}
		indent := strings.Repeat(" ", section.Content[0].Column-1)
		itemIndent := indent + step

		ai := entryIndex(section, AssetsKey)
		if ai < 0 {
			end := text.contentEnd(key.Line, sectionEnd)
			text.replace(end, end, assetsBlock(indent, itemIndent, rendered, flow))
			return text.bytes(), true
		}

		value := section.Content[ai+1]
		if value.Kind == yaml.ScalarNode && value.Style&(yaml.LiteralStyle|yaml.FoldedStyle) != 0 {
			return nil, false
		}
		if value.Kind == yaml.SequenceNode && value.Style&yaml.FlowStyle == 0 && len(value.Content) > 0 {
			itemIndent = strings.Repeat(" ", value.Column-1)
		}
		valueEnd := sectionEnd
		if ai+2 < len(section.Content) {
			valueEnd = section.Content[ai+2].Line - 1
		}
		start := section.Content[ai].Line - 1
		end := text.contentEnd(start+1, valueEnd)
		text.replace(start, end, assetsBlock(indent, itemIndent, rendered, flow))
		return text.bytes(), true
	}
	return nil, false
}

func entryIndex(m *yaml.Node, key string) int {
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			return i
		}
	}
	return -1
}

// renderSequence encodes assets as a YAML sequence, one element per line, and
// reports whether the result is the flow form used for an empty list.
func renderSequence(assets []string, indent int) ([]string, bool, bool) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(indent)
	seq := StringSequence(assets)
	if err := enc.Encode(seq); err != nil {
		return nil, false, false
	}
	if err := enc.Close(); err != nil {
		return nil, false, false
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != len(assets) && len(assets) > 0 {
		return nil, false, false
	}
	return lines, seq.Style&yaml.FlowStyle != 0, true
}

func assetsBlock(keyIndent, itemIndent string, rendered []string, flow bool) []string {
	if flow {
		return []string{keyIndent + AssetsKey + ": " + rendered[0]}
	}
	block := make([]string, 0, len(rendered)+1)
	block = append(block, keyIndent+AssetsKey+":")
	for _, l := range rendered {
		block = append(block, itemIndent+l)
	}
	return block
}
