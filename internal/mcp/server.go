package mcp

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Notes is the read-only view of a vault the server exposes.
type Notes interface {
	List(ctx context.Context) ([]string, error)
	Find(ctx context.Context, pattern string) ([]string, error)
	Read(ctx context.Context, path string) (string, error)
}

// Server wraps the MCP server with vault-specific functionality
type Server struct {
	server *mcp.Server
	notes  Notes
	root   string
}

// NewServer creates a new MCP server instance serving the vault at root.
func NewServer(notes Notes, root, version string) *Server {
	mcpServer := mcp.NewServer(&mcp.Implementation{
		Name:    "notemgr",
		Version: version,
	}, nil)

	s := &Server{
		server: mcpServer,
		notes:  notes,
		root:   root,
	}

	// Register tools
	s.registerTools()

	return s
}

// Run starts the MCP server with stdio transport
func (s *Server) Run(ctx context.Context) error {
	return s.RunTransport(ctx, &mcp.StdioTransport{})
}

// RunTransport serves a single session over t until it is closed.
func (s *Server) RunTransport(ctx context.Context, t mcp.Transport) error {
	return s.server.Run(ctx, t)
}

func (s *Server) registerTools() {
	// notes_list
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "notes_list",
		Description: "List every markdown note in the vault",
	}, s.handleList)

	// notes_find
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "notes_find",
		Description: "Find notes whose path fuzzily matches a pattern",
	}, s.handleFind)

	// notes_read
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "notes_read",
		Description: "Read the content of a note returned by notes_list or notes_find",
	}, s.handleRead)
}

// Input/Output types for each tool

type ListInput struct{}

type ListOutput struct {
	Root  string   `json:"root"`
	Notes []string `json:"notes"`
}

type FindInput struct {
	Pattern string `json:"pattern" jsonschema:"characters that must appear in order in the note path"`
}

type FindOutput struct {
	Matches   []string `json:"matches"`
	Ambiguous bool     `json:"ambiguous"`
}

type ReadInput struct {
	Path string `json:"path" jsonschema:"note path relative to the vault root"`
}

type ReadOutput struct {
	Path    string `json:"path"`
	Content string `json:"content"`
}

// Tool handlers

func (s *Server) handleList(ctx context.Context, req *mcp.CallToolRequest, input ListInput) (*mcp.CallToolResult, ListOutput, error) {
	files, err := s.notes.List(ctx)
	if err != nil {
		return nil, ListOutput{}, fmt.Errorf("failed to list notes: %w", err)
	}

	return nil, ListOutput{
		Root:  s.root,
		Notes: slashed(files),
	}, nil
}

func (s *Server) handleFind(ctx context.Context, req *mcp.CallToolRequest, input FindInput) (*mcp.CallToolResult, FindOutput, error) {
	matches, err := s.notes.Find(ctx, input.Pattern)
	if err != nil {
		return nil, FindOutput{}, fmt.Errorf("failed to find notes: %w", err)
	}

	return nil, FindOutput{
		Matches:   slashed(matches),
		Ambiguous: len(matches) > 1,
	}, nil
}

func (s *Server) handleRead(ctx context.Context, req *mcp.CallToolRequest, input ReadInput) (*mcp.CallToolResult, ReadOutput, error) {
	if input.Path == "" {
		return nil, ReadOutput{}, errors.New("path is required")
	}

	content, err := s.notes.Read(ctx, input.Path)
	if err != nil {
		return nil, ReadOutput{}, fmt.Errorf("failed to read note: %w", err)
	}

	return nil, ReadOutput{
		Path:    filepath.ToSlash(input.Path),
		Content: content,
	}, nil
}

// slashed reports paths with forward slashes on every platform.
func slashed(paths []string) []string {
	out := make([]string, len(paths))
	for i, p := range paths {
		out[i] = filepath.ToSlash(p)
	}
	return out
}
