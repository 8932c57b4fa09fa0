package debug

import "testing"

func TestTreeWriter_Line(t *testing.T) {
	tests := []struct {
		name   string
		depth  int
		format string
		args   []any
		want   string
	}{
		{"no depth", 0, "test", nil, "test\n"},
		{"depth 1", 1, "indented", nil, "  indented\n"},
		{"depth 2", 2, "double indent", nil, "    double indent\n"},
		{"with formatting", 1, "page %d: %s", []any{3, "ready"}, "  page 3: ready\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tw := NewTreeWriter()
			tw.Line(tt.depth, tt.format, tt.args...)
			if got := tw.String(); got != tt.want {
				t.Errorf("Line() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTreeWriter_Field(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  string
	}{
		{"plain", "01.png", "  url: 01.png\n"},
		{"empty", "", "  url: -\n"},
		{"spaces", "chapter 1/01.png", "  url: \"chapter 1/01.png\"\n"},
		{"control", "a\tb", "  url: \"a\\tb\"\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tw := NewTreeWriter()
			tw.Field(1, "url", tt.value)
			if got := tw.String(); got != tt.want {
				t.Errorf("Field() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTreeWriter_Accumulates(t *testing.T) {
	tw := NewTreeWriter()
	if tw.String() != "" {
		t.Fatal("expected empty writer")
	}
	tw.Line(0, "chapter")
	tw.Field(1, "id", "x")
	if got := string(tw.Bytes()); got != "chapter\n  id: x\n" {
		t.Errorf("Bytes() = %q", got)
	}
}
