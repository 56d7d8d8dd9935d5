package vecpic

import (
	"errors"
	"testing"
)

const testSVG = `<?xml version="1.0" encoding="UTF-8"?>
<!-- Generator: visioncortex VTracer 0.6.4 -->
<svg version="1.1" xmlns="http://www.w3.org/2000/svg" width="10" height="10">
<path d="M0 0 C0 0 10 0 10 0 L10 10 L0 10 Z" fill="#FF0000" transform="translate(0,0)"/>
</svg>
`

func TestValidateSVG(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		data    string
		wantErr error
	}{
		{"vtracer output", testSVG, nil},
		{"bare svg", `<svg/>`, nil},
		{"namespaced root", `<svg:svg xmlns:svg="http://www.w3.org/2000/svg"></svg:svg>`, nil},
		{"doctype", `<!DOCTYPE svg><svg></svg>`, nil},
		{"empty", "", ErrEmptyOutput},
		{"whitespace", " \n\t", ErrEmptyOutput},
		{"wrong root", `<html><body/></html>`, ErrInvalidSVG},
		{"unclosed root", `<svg><path d="M0 0"/>`, ErrInvalidSVG},
		{"mismatched tags", `<svg><g></svg></g>`, ErrInvalidSVG},
		{"not xml", "PNG\x00garbage", ErrInvalidSVG},
		{"text only", "hello", ErrInvalidSVG},
		{"invalid utf-8", "<svg>\xff\xfe</svg>", ErrInvalidSVG},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := validateSVG([]byte(tt.data))
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("validateSVG() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("validateSVG() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
