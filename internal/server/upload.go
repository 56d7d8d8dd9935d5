package server

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"

	vecpic "github.com/alnah/go-vecpic"
)

// Multipart field names.
const (
	fieldFile      = "file"
	fieldColorMode = "colormode"
	fieldFilename  = "filename"
)

// maxFieldBytes caps text form values; longer values are truncated.
const maxFieldBytes = 4 << 10

// errNoFile reports a request without a usable "file" part.
var errNoFile = errors.New("no file part in request")

// upload is a parsed conversion request.
type upload struct {
	filename   string
	data       []byte
	colorMode  string
	outputName string
}

// input converts the upload into a converter input.
func (u *upload) input() vecpic.Input {
	return vecpic.Input{
		Image:      u.data,
		Filename:   u.filename,
		ColorMode:  u.colorMode,
		OutputName: u.outputName,
	}
}

// parseUpload streams the multipart body. The filename is validated as soon
// as the file part header is read, so rejected uploads are never buffered.
// Only the first "file" part and the first value of each text field count.
func parseUpload(r *http.Request) (*upload, error) {
	mr, err := r.MultipartReader()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errNoFile, err)
	}

	u := &upload{}
	var sawFile, sawColorMode, sawFilename bool

	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, partError(err)
		}

		filename, isFile := partFilename(part)
		switch name := part.FormName(); {
		case name == fieldFile && isFile && !sawFile:
			sawFile = true
			if err := vecpic.ValidateFilename(filename); err != nil {
				_ = part.Close()
				return nil, err
			}
			u.filename = filename
			if u.data, err = io.ReadAll(part); err != nil {
				return nil, partError(err)
			}

		case name == fieldColorMode && !isFile && !sawColorMode:
			sawColorMode = true
			if u.colorMode, err = readField(part); err != nil {
				return nil, partError(err)
			}

		case name == fieldFilename && !isFile && !sawFilename:
			sawFilename = true
			if u.outputName, err = readField(part); err != nil {
				return nil, partError(err)
			}
		}
		_ = part.Close()
	}

	if !sawFile {
		return nil, errNoFile
	}
	return u, nil
}

// partFilename reports the raw filename parameter of the part's
// Content-Disposition. Part.FileName cannot tell a missing parameter from
// an empty one, and applies filepath.Base.
func partFilename(p *multipart.Part) (string, bool) {
	_, params, err := mime.ParseMediaType(p.Header.Get("Content-Disposition"))
	if err != nil {
		return "", false
	}
	name, ok := params["filename"]
	return name, ok
}

func readField(p *multipart.Part) (string, error) {
	b, err := io.ReadAll(io.LimitReader(p, maxFieldBytes))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// partError keeps body-size errors distinguishable and reports anything
// else as a missing file, since the body could not be parsed.
func partError(err error) error {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return err
	}
	return fmt.Errorf("%w: %v", errNoFile, err)
}
