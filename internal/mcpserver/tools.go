package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/spf13/afero"

	"github.com/phobologic/matsym/internal/index"
	"github.com/phobologic/matsym/internal/toon"
)

func fileParam() mcp.ToolOption {
	return mcp.WithString("file",
		mcp.Required(),
		mcp.Description("Path of the source file to scan"))
}

func (s *Server) registerTools() {
	s.mcp.AddTool(mcp.NewTool("matsym_candidates",
		mcp.WithDescription("List completion candidates for a file: function files on its search path (own directory plus addpath directories) followed by the identifiers in the file."),
		fileParam(),
	), s.handleCandidates)

	s.mcp.AddTool(mcp.NewTool("matsym_locate",
		mcp.WithDescription("Find where a word is declared: its first assignment, or failing that its position on the function declaration line. Returns null when not found."),
		fileParam(),
		mcp.WithString("word", mcp.Required(), mcp.Description("Identifier to locate")),
	), s.handleLocate)

	s.mcp.AddTool(mcp.NewTool("matsym_occurrences",
		mcp.WithDescription("List every whole-word occurrence of a name as zero-based row/column positions."),
		fileParam(),
		mcp.WithString("name", mcp.Required(), mcp.Description("Identifier to find")),
	), s.handleOccurrences)

	s.mcp.AddTool(mcp.NewTool("matsym_structs",
		mcp.WithDescription("List struct-like variables in a file together with the members accessed on them."),
		fileParam(),
	), s.handleStructs)

	s.mcp.AddTool(mcp.NewTool("matsym_calls",
		mcp.WithDescription("List multi-return call sites of the form [a, b] = f(x, y)."),
		fileParam(),
	), s.handleCalls)

	s.mcp.AddTool(mcp.NewTool("matsym_paths",
		mcp.WithDescription("List the literal paths added with addpath, in order."),
		fileParam(),
	), s.handlePaths)

	s.mcp.AddTool(mcp.NewTool("matsym_index",
		mcp.WithDescription("Build a ranked repository map in TOON format: files by PageRank, structs, multi-return calls and file dependencies."),
		mcp.WithString("root", mcp.Required(), mcp.Description("Project root directory")),
		mcp.WithNumber("max_files", mcp.Description("Maximum number of files to include (default: all)")),
	), s.handleIndex)
}

// fileArgs extracts the required string arguments and reads "file".
func (s *Server) fileArgs(request mcp.CallToolRequest, names ...string) (string, map[string]string, *mcp.CallToolResult) {
	argsMap, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return "", nil, mcp.NewToolResultError("invalid arguments format")
	}

	values := make(map[string]string, len(names)+1)
	for _, name := range append([]string{"file"}, names...) {
		v, ok := argsMap[name].(string)
		if !ok || v == "" {
			return "", nil, mcp.NewToolResultError(fmt.Sprintf("%s parameter is required", name))
		}
		values[name] = v
	}

	content, err := afero.ReadFile(s.analyzer.Fs(), values["file"])
	if err != nil {
		return "", nil, mcp.NewToolResultError(fmt.Sprintf("failed to read %s: %v", values["file"], err))
	}
	return string(content), values, nil
}

// marshalToolResponse marshals response to JSON text.
func marshalToolResponse(response interface{}) (*mcp.CallToolResult, error) {
	jsonData, err := json.Marshal(response)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal response: %w", err)
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (s *Server) handleCandidates(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	content, args, errResult := s.fileArgs(request)
	if errResult != nil {
		return errResult, nil
	}
	names, err := s.analyzer.ListCandidates(args["file"], content)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return marshalToolResponse(names)
}

func (s *Server) handleLocate(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	content, args, errResult := s.fileArgs(request, "word")
	if errResult != nil {
		return errResult, nil
	}
	pos, ok := s.analyzer.Locate(content, args["word"])
	if !ok {
		return marshalToolResponse(nil)
	}
	return marshalToolResponse(pos)
}

func (s *Server) handleOccurrences(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	content, args, errResult := s.fileArgs(request, "name")
	if errResult != nil {
		return errResult, nil
	}
	return marshalToolResponse(nonNil(s.analyzer.FindOccurrences(content, args["name"])))
}

func (s *Server) handleStructs(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	content, args, errResult := s.fileArgs(request)
	if errResult != nil {
		return errResult, nil
	}
	return marshalToolResponse(nonNil(s.analyzer.BuildCompletions(args["file"], content)))
}

func (s *Server) handleCalls(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	content, _, errResult := s.fileArgs(request)
	if errResult != nil {
		return errResult, nil
	}
	return marshalToolResponse(nonNil(s.analyzer.ExtractMultiReturnCalls(content)))
}

func (s *Server) handlePaths(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	content, _, errResult := s.fileArgs(request)
	if errResult != nil {
		return errResult, nil
	}
	return marshalToolResponse(nonNil(s.analyzer.ResolveAddedPaths(content)))
}

func (s *Server) handleIndex(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	argsMap, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return mcp.NewToolResultError("invalid arguments format"), nil
	}
	root, ok := argsMap["root"].(string)
	if !ok || root == "" {
		return mcp.NewToolResultError("root parameter is required"), nil
	}
	root, err := filepath.Abs(root)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("resolving root: %v", err)), nil
	}

	opts := s.indexOpt
	if n, ok := argsMap["max_files"].(float64); ok {
		if n < 0 {
			return mcp.NewToolResultError("max_files cannot be negative"), nil
		}
		opts.MaxFiles = int(n)
	}

	rm, err := index.Build(ctx, root, opts)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(toon.Encode(rm)), nil
}

// nonNil turns a nil slice into an empty one so it marshals as [].
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
