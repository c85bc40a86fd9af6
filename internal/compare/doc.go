// Package compare scores how different two images look by running
// ImageMagick's compare tool with the RMSE metric:
//
//	compare -metric RMSE <file1> <file2> null:
//
// The tool prints an absolute and a normalized value, for example
// "1234.5 (0.0188)"; the normalized one is returned. Run passes the files
// straight through. Compare first reduces both to blurred grayscale
// thumbnails so large or differently sized images give stable scores.
package compare
