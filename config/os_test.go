package config

import "testing"

func TestCleanFileName(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "Chapter 7", "Chapter 7"},
		{"separator", "vol1/ch2", "vol1ch2"},
		{"leading dots", "..hidden", "hidden"},
		{"spaces", "  title \t", "title"},
		{"control", "a\x00b\nc", "abc"},
		{"nothing left", "./", "_bad_file_name_"},
		{"empty", "", "_bad_file_name_"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanFileName(tt.in); got != tt.want {
				t.Errorf("CleanFileName(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
