// Package imaging wraps a decoded image with the operations used to prepare
// pictures for web and document delivery.
//
// An Image is loaded by a Loader, mutated in place by chained calls, and
// finally written with WriteTo or WriteFile:
//
//	img, err := imaging.Open(ctx, "photo.jpg")
//	if err != nil {
//	    return err
//	}
//	img.Cover(geometry.NewSize(200, 200)).OptimizePhoto()
//	_, err = img.WriteFile("thumb.jpg")
//
// # Loading
//
// The media type is sniffed from the content. Raster formats are decoded
// in-process with EXIF orientation applied. SVG is rasterized through an
// svg.Rasterizer at a configurable width and its transparent margins are
// trimmed. Anything else is a *WrongFormatError carrying the sniffed type.
//
// # Geometry
//
// Cover and Contain use the proportional arithmetic of geometry.Size.
// Cover with a zero target dimension degrades to a plain resize; Contain
// with a zero target dimension is an *InvalidSizeError.
//
// # Output
//
// Go's encoders write no EXIF, XMP or ICC data, so every written file is
// metadata free. JPEG output always uses 4:2:0 chroma subsampling and is
// always baseline; a progressive request is recorded but not honoured.
//
// # Thread Safety
//
// An Image is a mutable value owned by one goroutine. Loaders are safe for
// concurrent use as long as their Rasterizer is.
package imaging
