// Package server implements the MCP (Model Context Protocol) server that
// exposes the imagekit operations as tools.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
//   - image_info: media type, dimensions and color depth of a file
//   - image_transform: load, apply steps (scale, cover, contain, rotate,
//     crop, optimize presets...) and write the result
//   - image_compare: RMSE difference score between two images
//   - svg_convert: rasterize an SVG file to PNG
//   - tools_status: availability of rsvg-convert and compare
//
// # Response Format
//
// Tool results are JSON objects wrapped in MCP's content structure:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// # Error Handling
//
// Errors follow JSON-RPC 2.0 conventions:
//   - -32700: Parse error
//   - -32601: Method not found
//   - -32602: Invalid params
//   - -32000: Tool execution failed (with details in data field)
package server
