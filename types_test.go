package vecpic

// Notes:
// - ValidateFilename mirrors the upload check: extension after the last dot,
//   case-sensitive, whole name when there is no dot
// - stagedNames is tested directly since it decides the files the tracer sees

import (
	"errors"
	"testing"
	"time"
)

// ---------------------------------------------------------------------------
// TestValidateFilename - Extension rules
// ---------------------------------------------------------------------------

func TestValidateFilename(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		filename string
		wantErr  error
	}{
		{"png", "test.png", nil},
		{"jpg", "photo.jpg", nil},
		{"jpeg", "scan.final.jpeg", nil},
		{"bare extension name", "png", nil},
		{"empty", "", ErrEmptyFilename},
		{"text file", "doc.txt", ErrInvalidFileType},
		{"uppercase rejected", "PHOTO.PNG", ErrInvalidFileType},
		{"no dot", "photo", ErrInvalidFileType},
		{"trailing dot", "photo.", ErrInvalidFileType},
		{"gif", "anim.gif", ErrInvalidFileType},
		{"double extension", "image.png.exe", ErrInvalidFileType},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := ValidateFilename(tt.filename)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateFilename(%q) = %v, want nil", tt.filename, err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateFilename(%q) = %v, want %v", tt.filename, err, tt.wantErr)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestInput_Validate - Input validation order
// ---------------------------------------------------------------------------

func TestInput_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   Input
		wantErr error
	}{
		{"valid", Input{Image: []byte{1}, Filename: "a.png"}, nil},
		{"empty filename first", Input{Filename: ""}, ErrEmptyFilename},
		{"bad extension before empty image", Input{Filename: "a.txt"}, ErrInvalidFileType},
		{"empty image", Input{Filename: "a.jpg"}, ErrEmptyImage},
		{"output name is not validated", Input{Image: []byte{1}, Filename: "a.png", OutputName: "notes.txt"}, nil},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.input.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestInput_stagedNames - Job directory file names
// ---------------------------------------------------------------------------

func TestInput_stagedNames(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		input      Input
		wantInput  string
		wantOutput string
	}{
		{
			name:       "upload name",
			input:      Input{Filename: "test.png"},
			wantInput:  "input_test.png",
			wantOutput: "test.svg",
		},
		{
			name:       "override name",
			input:      Input{Filename: "IMG_0001.jpeg", OutputName: "holiday.jpeg"},
			wantInput:  "input_holiday.jpeg",
			wantOutput: "holiday.svg",
		},
		{
			name:       "override without extension keeps upload extension",
			input:      Input{Filename: "IMG_0001.jpg", OutputName: "logo"},
			wantInput:  "input_logo.jpg",
			wantOutput: "logo.svg",
		},
		{
			name:       "override with other extension",
			input:      Input{Filename: "a.png", OutputName: "report.pdf"},
			wantInput:  "input_report.png",
			wantOutput: "report.svg",
		},
		{
			name:       "traversal is sanitized",
			input:      Input{Filename: "x.png", OutputName: "../../etc/passwd.png"},
			wantInput:  "input_etc_passwd.png",
			wantOutput: "etc_passwd.svg",
		},
		{
			name:       "spaces and accents",
			input:      Input{Filename: "Café au lait.png"},
			wantInput:  "input_Cafe_au_lait.png",
			wantOutput: "Cafe_au_lait.svg",
		},
		{
			name:       "unsanitizable name falls back",
			input:      Input{Filename: "x.png", OutputName: "日本"},
			wantInput:  "input_image.png",
			wantOutput: "image.svg",
		},
		{
			name:       "windows device name",
			input:      Input{Filename: "CON.png"},
			wantInput:  "input__CON.png",
			wantOutput: "_CON.svg",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			gotInput, gotOutput := tt.input.stagedNames()
			if gotInput != tt.wantInput {
				t.Errorf("input name = %q, want %q", gotInput, tt.wantInput)
			}
			if gotOutput != tt.wantOutput {
				t.Errorf("output name = %q, want %q", gotOutput, tt.wantOutput)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestDefaultParams - Fixed tracing parameters
// ---------------------------------------------------------------------------

func TestDefaultParams(t *testing.T) {
	t.Parallel()

	want := Params{
		Hierarchical:    "stacked",
		Mode:            "spline",
		FilterSpeckle:   4,
		ColorPrecision:  6,
		LayerDifference: 16,
		CornerThreshold: 60,
		LengthThreshold: 4.0,
		MaxIterations:   10,
		SpliceThreshold: 45,
		PathPrecision:   3,
	}
	if got := DefaultParams(); got != want {
		t.Errorf("DefaultParams() = %+v, want %+v", got, want)
	}
}

// ---------------------------------------------------------------------------
// TestWithTimeout - Option validation
// ---------------------------------------------------------------------------

func TestWithTimeout_PanicsOnNonPositive(t *testing.T) {
	t.Parallel()

	for _, d := range []time.Duration{0, -time.Second} {
		func() {
			defer func() {
				if recover() == nil {
					t.Errorf("WithTimeout(%v) did not panic", d)
				}
			}()
			WithTimeout(d)
		}()
	}
}
