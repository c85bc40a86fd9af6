package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

func pathProperty(description string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": description,
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		{
			Name:        "image_info",
			Description: "Report the sniffed media type, dimensions, color depth and file size of an image. SVG files are rasterized first.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty("Absolute path to the image file"),
				},
				"required": []string{"path"},
			},
		},
		{
			Name: "image_transform",
			Description: "Load an image (raster or SVG), apply a list of steps in order and write the result. " +
				"The output extension selects the encoding; without one the image's current format is used.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":   pathProperty("Absolute path to the source image"),
					"output": pathProperty("Absolute path of the file to write"),
					"svg_width": map[string]interface{}{
						"type":        "integer",
						"description": "Width used when rasterizing an SVG source (default from config)",
					},
					"steps": map[string]interface{}{
						"type":        "array",
						"description": "Operations applied in order",
						"items": map[string]interface{}{
							"type": "object",
							"properties": map[string]interface{}{
								"op": map[string]interface{}{
									"type": "string",
									"enum": stepNames,
								},
								"width": map[string]interface{}{
									"type":        "number",
									"description": "Target width in pixels, or crop width in physical units",
								},
								"height": map[string]interface{}{
									"type":        "number",
									"description": "Target height in pixels, or crop height in physical units",
								},
								"x": map[string]interface{}{
									"type":        "number",
									"description": "crop_physical: left edge in physical units",
								},
								"y": map[string]interface{}{
									"type":        "number",
									"description": "crop_physical: top edge in physical units",
								},
								"units_per_pixel": map[string]interface{}{
									"type":        "number",
									"description": "crop_physical: physical units covered by one pixel",
								},
								"color": map[string]interface{}{
									"type":        "string",
									"description": "color_overlay: color name or hex; contain: background (default transparent)",
								},
								"times": map[string]interface{}{
									"type":        "integer",
									"description": "rotate_clockwise: number of quarter turns (default 1)",
								},
								"quality": map[string]interface{}{
									"type":        "integer",
									"description": "quality: JPEG quality 1-100",
								},
								"format": map[string]interface{}{
									"type":        "string",
									"enum":        []string{"jpeg", "png", "gif", "tiff", "bmp"},
									"description": "format: output encoding when the output path has no extension",
								},
							},
							"required": []string{"op"},
						},
					},
				},
				"required": []string{"path", "output", "steps"},
			},
		},
		{
			Name: "image_compare",
			Description: "Score how different two images look with ImageMagick compare (RMSE, 0 = identical, 1 = too dissimilar). " +
				"By default both images are reduced to blurred grayscale thumbnails first.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path1": pathProperty("Absolute path to the first image"),
					"path2": pathProperty("Absolute path to the second image"),
					"raw": map[string]interface{}{
						"type":        "boolean",
						"description": "Compare the files directly without thumbnails (default: false)",
					},
				},
				"required": []string{"path1", "path2"},
			},
		},
		{
			Name:        "svg_convert",
			Description: "Rasterize an SVG file to PNG with the configured renderer.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":   pathProperty("Absolute path to the SVG file"),
					"output": pathProperty("Where to write the PNG (default: a new temp file)"),
					"width": map[string]interface{}{
						"type":        "integer",
						"description": "Output width in pixels (default from config)",
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "tools_status",
			Description: "Report whether the external rsvg-convert and compare executables can be run.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
			},
		},
	}
}
