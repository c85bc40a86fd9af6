package server

import (
	"context"
	"encoding/json"
	"fmt"
	"image/color"
	"io"
	"log/slog"
	"os"

	"github.com/ironsheep/imagekit/internal/geometry"
	"github.com/ironsheep/imagekit/internal/imaging"
	"github.com/ironsheep/imagekit/internal/media"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "image_info", "image_transform").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(ctx context.Context, req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(ctx, params.Name, params.Arguments)
	if err != nil {
		slog.Debug("Server: tool failed", "tool", params.Name, "error", err)
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
func (s *Server) executeTool(ctx context.Context, name string, args json.RawMessage) (interface{}, error) {
	if len(args) == 0 {
		args = json.RawMessage("{}")
	}

	switch name {
	case "image_info":
		return s.handleImageInfo(ctx, args)
	case "image_transform":
		return s.handleImageTransform(ctx, args)
	case "image_compare":
		return s.handleImageCompare(ctx, args)
	case "svg_convert":
		return s.handleSVGConvert(ctx, args)
	case "tools_status":
		return s.handleToolsStatus(ctx)
	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// On marshal failure it returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// === Image Information ===

type imageInfoArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageInfo(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a imageInfoArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Path == "" {
		return nil, fmt.Errorf("path is required")
	}
	return s.loader.Describe(ctx, a.Path)
}

// === Transform Pipeline ===

// stepNames lists the operations accepted in an image_transform step.
var stepNames = []string{
	"scale",
	"cover",
	"contain",
	"rotate_clockwise",
	"crop_physical",
	"trim",
	"color_overlay",
	"super_thumbnail",
	"optimize",
	"optimize_photo",
	"optimize_lossless",
	"optimize_document",
	"enhance_document",
	"quality",
	"format",
	"strip",
}

// TransformStep is one operation of an image_transform request. Fields not
// used by the operation are ignored.
type TransformStep struct {
	Op            string  `json:"op"`
	Width         float64 `json:"width"`
	Height        float64 `json:"height"`
	X             float64 `json:"x"`
	Y             float64 `json:"y"`
	UnitsPerPixel float64 `json:"units_per_pixel"`
	Color         string  `json:"color"`
	Times         int     `json:"times"`
	Quality       int     `json:"quality"`
	Format        string  `json:"format"`
}

type imageTransformArgs struct {
	Path     string          `json:"path"`
	Output   string          `json:"output"`
	SVGWidth int             `json:"svg_width"`
	Steps    []TransformStep `json:"steps"`
}

// TransformResult describes the file written by image_transform.
type TransformResult struct {
	Output        string `json:"output"`
	MediaType     string `json:"media_type"`
	Width         int    `json:"width"`
	Height        int    `json:"height"`
	Quality       int    `json:"quality"`
	Stripped      bool   `json:"stripped"`
	FileSizeBytes int64  `json:"file_size_bytes"`
}

func (s *Server) handleImageTransform(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a imageTransformArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Path == "" || a.Output == "" {
		return nil, fmt.Errorf("path and output are required")
	}

	loader := *s.loader
	if a.SVGWidth > 0 {
		loader.SVGWidth = a.SVGWidth
	}
	img, err := loader.Open(ctx, a.Path)
	if err != nil {
		return nil, err
	}

	for n, step := range a.Steps {
		if err := applyStep(img, step); err != nil {
			return nil, fmt.Errorf("step %d (%s): %w", n+1, step.Op, err)
		}
	}

	written, err := img.WriteFile(a.Output)
	if err != nil {
		return nil, err
	}
	stat, err := os.Stat(written)
	if err != nil {
		return nil, fmt.Errorf("failed to stat output: %w", err)
	}
	mediaType, err := media.DetectFile(written)
	if err != nil {
		return nil, err
	}

	size := img.Size()
	slog.Debug("Server: transform complete", "output", written, "size", size.String())
	return &TransformResult{
		Output:        written,
		MediaType:     mediaType,
		Width:         size.Width(),
		Height:        size.Height(),
		Quality:       img.Quality(),
		Stripped:      img.Stripped(),
		FileSizeBytes: stat.Size(),
	}, nil
}

// applyStep runs a single transform step against img.
func applyStep(img *imaging.Image, step TransformStep) error {
	target := geometry.NewSize(int(step.Width), int(step.Height))

	switch step.Op {
	case "scale":
		img.Scale(target.Width(), target.Height())
	case "cover":
		img.Cover(target)
	case "contain":
		var bg color.Color
		if step.Color != "" {
			c, err := imaging.ParseColor(step.Color)
			if err != nil {
				return err
			}
			bg = c
		}
		return img.Contain(target, bg)
	case "rotate_clockwise":
		times := step.Times
		if times == 0 {
			times = 1
		}
		for n := 0; n < ((times%4)+4)%4; n++ {
			img.RotateClockwise()
		}
	case "crop_physical":
		return img.CropPhysical(imaging.Rect{
			X:      step.X,
			Y:      step.Y,
			Width:  step.Width,
			Height: step.Height,
		}, step.UnitsPerPixel)
	case "trim":
		img.Trim()
	case "color_overlay":
		return img.ColorOverlayNamed(step.Color)
	case "super_thumbnail":
		if target.IsAreaEmpty() {
			return &imaging.InvalidSizeError{Width: target.Width(), Height: target.Height()}
		}
		img.MakeSuperThumbnail(target.Width(), target.Height())
	case "optimize":
		img.Optimize()
	case "optimize_photo":
		img.OptimizePhoto()
	case "optimize_lossless":
		img.OptimizeLossless()
	case "optimize_document":
		img.OptimizeDocument()
	case "enhance_document":
		img.EnhanceDocument()
	case "quality":
		img.SetQuality(step.Quality)
	case "format":
		f, err := imaging.ParseFormat(step.Format)
		if err != nil {
			return err
		}
		img.SetFormat(f)
	case "strip":
		img.Strip()
	default:
		return fmt.Errorf("unknown step: %q", step.Op)
	}
	return nil
}

// === Comparison ===

type imageCompareArgs struct {
	Path1 string `json:"path1"`
	Path2 string `json:"path2"`
	Raw   bool   `json:"raw"`
}

// CompareResult is the image_compare response.
type CompareResult struct {
	Score  float64 `json:"score"`
	Method string  `json:"method"`
}

func (s *Server) handleImageCompare(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a imageCompareArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Path1 == "" || a.Path2 == "" {
		return nil, fmt.Errorf("path1 and path2 are required")
	}

	if a.Raw {
		score, err := s.comparator.Run(ctx, a.Path1, a.Path2)
		if err != nil {
			return nil, err
		}
		return &CompareResult{Score: score, Method: "raw"}, nil
	}

	score, err := s.comparator.Compare(ctx, a.Path1, a.Path2)
	if err != nil {
		return nil, err
	}
	return &CompareResult{Score: score, Method: "thumbnail"}, nil
}

// === SVG Conversion ===

type svgConvertArgs struct {
	Path   string `json:"path"`
	Output string `json:"output"`
	Width  int    `json:"width"`
}

// ConvertResult is the svg_convert response.
type ConvertResult struct {
	Output string `json:"output"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

func (s *Server) handleSVGConvert(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a svgConvertArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Path == "" {
		return nil, fmt.Errorf("path is required")
	}
	mediaType, err := media.DetectFile(a.Path)
	if err != nil {
		return nil, err
	}
	if !media.IsVector(mediaType) {
		return nil, &imaging.WrongFormatError{MediaType: mediaType}
	}

	width := a.Width
	if width <= 0 {
		width = s.svgWidth
	}
	output, err := s.loader.Rasterizer.Rasterize(ctx, a.Path, width)
	if err != nil {
		return nil, err
	}
	if a.Output != "" {
		if err := moveFile(output, a.Output); err != nil {
			return nil, err
		}
		output = a.Output
	}

	info, err := s.loader.Describe(ctx, output)
	if err != nil {
		return nil, err
	}
	return &ConvertResult{Output: output, Width: info.Width, Height: info.Height}, nil
}

// moveFile copies src to dst and removes src. Temp files may live on a
// different filesystem, so os.Rename is not enough.
func moveFile(src, dst string) error {
	defer os.Remove(src)

	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", src, err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", dst, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("failed to write %s: %w", dst, err)
	}
	return out.Close()
}

// === Tool Status ===

// ExecutableStatus reports whether an external tool can be run.
type ExecutableStatus struct {
	Executable string `json:"executable"`
	Available  bool   `json:"available"`
}

// StatusResult is the tools_status response.
type StatusResult struct {
	SVGRenderer string           `json:"svg_renderer"`
	RsvgConvert ExecutableStatus `json:"rsvg_convert"`
	Compare     ExecutableStatus `json:"compare"`
}

func (s *Server) handleToolsStatus(ctx context.Context) (interface{}, error) {
	return &StatusResult{
		SVGRenderer: s.renderer,
		RsvgConvert: ExecutableStatus{
			Executable: s.converter.Executable(),
			Available:  s.converter.Exists(ctx),
		},
		Compare: ExecutableStatus{
			Executable: s.comparator.Executable,
			Available:  s.comparator.Exists(ctx),
		},
	}, nil
}
