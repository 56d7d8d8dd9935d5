package vecpic

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"unicode/utf8"
)

// validateSVG checks that data is a UTF-8, well-formed XML document whose
// root element is <svg>.
func validateSVG(data []byte) error {
	if len(bytes.TrimSpace(data)) == 0 {
		return ErrEmptyOutput
	}
	if !utf8.Valid(data) {
		return fmt.Errorf("%w: not valid UTF-8", ErrInvalidSVG)
	}

	dec := xml.NewDecoder(bytes.NewReader(data))
	sawRoot := false
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidSVG, err)
		}

		start, ok := tok.(xml.StartElement)
		if !ok || sawRoot {
			continue
		}
		if start.Name.Local != "svg" {
			return fmt.Errorf("%w: root element is <%s>", ErrInvalidSVG, start.Name.Local)
		}
		sawRoot = true
	}

	if !sawRoot {
		return fmt.Errorf("%w: no root element", ErrInvalidSVG)
	}
	return nil
}
