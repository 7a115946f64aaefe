package core

import (
	"regexp"
	"strings"
	"testing"
)

func TestGenerateFilename_Extension(t *testing.T) {
	tests := []struct {
		original string
		wantExt  string
	}{
		{original: "photo.png", wantExt: ".png"},
		{original: "archive.tar.gz", wantExt: ".gz"},
		{original: "UPPER.JPEG", wantExt: ".JPEG"},
		{original: "noextension", wantExt: ""},
		{original: ".hidden", wantExt: ""},
		{original: "dir/.hidden", wantExt: ""},
		{original: "..hidden", wantExt: ".hidden"},
		{original: ".hidden.png", wantExt: ".png"},
		{original: "..", wantExt: ""},
		{original: ".", wantExt: ""},
		{original: "trailingdot.", wantExt: "."},
		{original: "", wantExt: ""},
	}

	hexPrefix := regexp.MustCompile(`^[0-9a-f]{32}`)

	for _, tt := range tests {
		t.Run(tt.original, func(t *testing.T) {
			got, err := GenerateFilename(tt.original)
			if err != nil {
				t.Fatalf("GenerateFilename(%q) error: %v", tt.original, err)
			}
			if !hexPrefix.MatchString(got) {
				t.Fatalf("GenerateFilename(%q) = %q, expected 32 hex characters prefix", tt.original, got)
			}
			if ext := got[32:]; ext != tt.wantExt {
				t.Errorf("GenerateFilename(%q) extension = %q, want %q", tt.original, ext, tt.wantExt)
			}
		})
	}
}

func TestGenerateFilename_Uniqueness(t *testing.T) {
	const n = 1000
	seen := make(map[string]struct{}, n)
	for i := 0; i < n; i++ {
		got, err := GenerateFilename("a.png")
		if err != nil {
			t.Fatalf("GenerateFilename error: %v", err)
		}
		if !strings.HasSuffix(got, ".png") {
			t.Fatalf("expected .png suffix, got %q", got)
		}
		if _, dup := seen[got]; dup {
			t.Fatalf("GenerateFilename returned duplicate %q", got)
		}
		seen[got] = struct{}{}
	}
}
