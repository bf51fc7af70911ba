// Package frontmatter writes and reads the YAML block at the top of an entry.
package frontmatter

import (
	"bufio"
	"bytes"
	"io"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	delim = "---"

	// TimeLayout always carries a numeric offset, never "Z".
	TimeLayout = "2006-01-02T15:04:05-07:00"
)

// Field is a single key/value line. An empty Value renders as "key:".
type Field struct {
	Key   string
	Value string
}

// FormatTime renders t in the local zone with TimeLayout.
func FormatTime(t time.Time) string {
	return t.Local().Format(TimeLayout)
}

// Write emits a delimited frontmatter block with fields in the given order.
func Write(w io.Writer, fields ...Field) error {
	bw := bufio.NewWriter(w)
	bw.WriteString(delim + "\n")
	for _, f := range fields {
		bw.WriteString(f.Key)
		bw.WriteByte(':')
		if f.Value != "" {
			bw.WriteByte(' ')
			bw.WriteString(f.Value)
		}
		bw.WriteByte('\n')
	}
	bw.WriteString(delim + "\n")
	return bw.Flush()
}

// Document is a parsed entry.
type Document struct {
	Frontmatter map[string]any `json:"frontmatter,omitempty"`
	Body        string         `json:"body"`
}

// Split separates the YAML frontmatter from the Markdown body. Content
// without a closed or valid frontmatter block is returned entirely as body.
func Split(data []byte) Document {
	trimmed := bytes.TrimLeft(data, "\n\r")
	if !bytes.HasPrefix(trimmed, []byte(delim)) {
		return Document{Body: string(data)}
	}

	rest := trimmed[len(delim):]
	idx := bytes.Index(rest, []byte("\n"+delim))
	if idx < 0 {
		return Document{Body: string(data)}
	}

	block := rest[:idx]
	after := rest[idx+1+len(delim):]
	body := strings.TrimPrefix(string(after), "\n")

	var root yaml.Node
	if err := yaml.Unmarshal(block, &root); err != nil {
		return Document{Body: string(data)}
	}
	fm := map[string]any{}
	if len(root.Content) > 0 {
		m, ok := plain(root.Content[0]).(map[string]any)
		if !ok {
			return Document{Body: string(data)}
		}
		fm = m
	}
	return Document{Frontmatter: fm, Body: body}
}

// plain converts a node to strings, slices and maps, keeping scalars as
// written so timestamps are not reformatted. Null and empty scalars are nil.
func plain(n *yaml.Node) any {
	switch n.Kind {
	case yaml.AliasNode:
		return plain(n.Alias)
	case yaml.ScalarNode:
		if n.Tag == "!!null" || n.Value == "" {
			return nil
		}
		return n.Value
	case yaml.SequenceNode:
		out := make([]any, 0, len(n.Content))
		for _, c := range n.Content {
			out = append(out, plain(c))
		}
		return out
	case yaml.MappingNode:
		out := make(map[string]any, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			out[n.Content[i].Value] = plain(n.Content[i+1])
		}
		return out
	}
	return nil
}
