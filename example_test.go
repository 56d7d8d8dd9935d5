package vecpic_test

import (
	"context"
	"errors"
	"fmt"

	"github.com/alnah/go-vecpic"
)

// Example_validation shows that inputs are checked before the tracer runs,
// so this example needs no vtracer binary.
func Example_validation() {
	conv, err := vecpic.NewConverter()
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	_, err = conv.Convert(context.Background(), vecpic.Input{
		Image:    []byte("plain text"),
		Filename: "doc.txt",
	})
	fmt.Println(errors.Is(err, vecpic.ErrInvalidFileType))
	// Output: true
}

// ExampleValidateFilename checks upload names the way the HTTP handler does.
func ExampleValidateFilename() {
	for _, name := range []string{"photo.jpeg", "photo.PNG", "scan"} {
		fmt.Println(name, vecpic.ValidateFilename(name) == nil)
	}
	// Output:
	// photo.jpeg true
	// photo.PNG false
	// scan false
}

// ExampleDefaultParams lists the fixed tracing parameters.
func ExampleDefaultParams() {
	p := vecpic.DefaultParams()
	fmt.Println(p.Hierarchical, p.Mode, p.FilterSpeckle, p.PathPrecision)
	// Output: stacked spline 4 3
}
