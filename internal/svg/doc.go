// Package svg rasterizes SVG documents to PNG.
//
// Two implementations satisfy Rasterizer:
//
//   - Converter shells out to rsvg-convert. This is the reference renderer:
//     `rsvg-convert <input> -f png --keep-aspect-ratio -w <width> -o <output>`.
//   - Renderer draws in-process with oksvg/rasterx, for hosts where the
//     command line tool is not installed.
//
// # Width
//
// Vector documents have no intrinsic pixel size. The width is a rendering
// hint that controls fidelity: render large, then scale down.
//
// # Scratch files
//
// Every successful conversion returns the path of a new temporary PNG. The
// caller owns it and must remove it; nothing here cleans it up later.
//
// # Errors
//
// A converter that cannot start or exits non-zero yields *ConvertError with
// the captured output. A converter that exits 0 but leaves something other
// than a PNG behind yields *InvalidOutputError; that file is left in place
// for inspection.
package svg
