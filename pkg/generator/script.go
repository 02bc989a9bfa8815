package generator

import (
	"strings"
)

// scriptBuilder accumulates generated text with an indentation level.
type scriptBuilder struct {
	b      strings.Builder
	indent string
	level  int
}

func newScriptBuilder(indent string) *scriptBuilder {
	return &scriptBuilder{indent: indent}
}

func (s *scriptBuilder) Indent() { s.level++ }

func (s *scriptBuilder) Dedent() {
	if s.level > 0 {
		s.level--
	}
}

func (s *scriptBuilder) writeIndent() {
	for range s.level {
		s.b.WriteString(s.indent)
	}
}

func (s *scriptBuilder) Append(text string) { s.b.WriteString(text) }

func (s *scriptBuilder) AppendIndented(text string) {
	s.writeIndent()
	s.b.WriteString(text)
}

func (s *scriptBuilder) AppendLine(text string) {
	s.b.WriteString(text)
	s.b.WriteByte('\n')
}

func (s *scriptBuilder) AppendLineIndented(text string) {
	s.writeIndent()
	s.AppendLine(text)
}

func (s *scriptBuilder) Len() int { return s.b.Len() }

func (s *scriptBuilder) String() string { return s.b.String() }
