// Package vecpic converts raster images (PNG, JPEG) to SVG by running the
// vtracer command-line tracer.
//
// # Quick Start
//
// Create a converter and convert an image:
//
//	conv, err := vecpic.NewConverter()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	result, err := conv.Convert(ctx, vecpic.Input{
//	    Image:     data,
//	    Filename:  "photo.png",
//	    ColorMode: vecpic.ColorModeColor,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile(result.Filename, result.SVG, 0644)
//
// # Conversion Pipeline
//
// Each call to Convert runs these stages:
//
//  1. Input validation (non-empty filename, png/jpg/jpeg extension, non-empty image)
//  2. Staging: the image is written to a fresh job directory named by a UUID
//  3. Tracing: vtracer runs with fixed parameters (see DefaultParams) under a timeout
//  4. Read-back: the SVG is read and checked for well-formedness
//  5. Cleanup: the job directory is removed on every exit path
//
// Job directories make concurrent conversions of identically named files
// independent of each other.
//
// # Configuration
//
// Use functional options to customize the converter:
//
//	conv, err := vecpic.NewConverter(
//	    vecpic.WithTimeout(30 * time.Second),
//	    vecpic.WithWorkDir("/var/lib/vecpic"),
//	    vecpic.WithTracerBinary("/opt/vtracer/bin/vtracer"),
//	    vecpic.WithLogger(logger),
//	)
//
// # Parallel Processing
//
// For batch conversion, ConverterPool bounds the number of tracer processes:
//
//	pool := vecpic.NewConverterPool(4)
//	defer pool.Close()
//
//	conv, err := pool.Acquire(ctx)
//	if err != nil {
//	    return err
//	}
//	defer pool.Release(conv)
//	result, err := conv.Convert(ctx, input)
//
// # Tracer Requirements
//
// The vtracer binary must be on PATH (install with "cargo install vtracer")
// or configured with WithTracerBinary. Use LookupTracer to check for it
// before serving traffic.
package vecpic
