// Package mcpserver provides an MCP (Model Context Protocol) server that
// exposes journal entry creation over stdio.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/starford/quill/internal/diary"
	"github.com/starford/quill/internal/entry"
	"github.com/starford/quill/internal/frontmatter"
	"github.com/starford/quill/internal/ident"
	"github.com/starford/quill/internal/storage"
)

const formatURI = "quill://entry-format"

// Server wraps the MCP server with quill tools.
type Server struct {
	mcp  *server.MCPServer
	svc  *entry.Service
	root string
}

// New creates a new MCP server for the journal at root.
func New(svc *entry.Service, root string, version string) *Server {
	s := &Server{svc: svc, root: root}

	s.mcp = server.NewMCPServer(
		"Quill",
		version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("create_entry",
		mcp.WithDescription("Create a new journal entry. A diary entry covers one month with a "+
			"section per day; a note entry is a single file named by a time-ordered identifier. "+
			"Returns the new file's path and name."),
		mcp.WithString("kind", mcp.Description("Entry kind"), mcp.Enum("note", "diary")),
		mcp.WithString("id", mcp.Description("Identifier style for notes"), mcp.Enum("ulid", "uuid")),
	), s.createEntry)

	s.mcp.AddTool(mcp.NewTool("next_diary_month",
		mcp.WithDescription("Report which month (YYYYMM) the next diary entry would cover."),
	), s.nextDiaryMonth)

	s.mcp.AddTool(mcp.NewTool("read_entry",
		mcp.WithDescription("Read an entry's frontmatter and body."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Entry file name (e.g. 202403.md)")),
	), s.readEntry)

	s.mcp.AddTool(mcp.NewTool("get_entry_format",
		mcp.WithDescription("Returns the entry format contract. Call this before editing entries."),
	), s.getEntryFormat)

	s.mcp.AddResource(
		mcp.NewResource(formatURI, "Entry Format Contract",
			mcp.WithResourceDescription("Structure of diary and note entries."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readEntryFormatResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func (s *Server) createEntry(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	kind, err := entry.ParseKind(req.GetString("kind", "note"))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	style, err := ident.ParseStyle(req.GetString("id", "ulid"))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	opts, err := entry.ResolveDir(s.root, entry.FlagsFor(kind, style))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	res, err := s.svc.Create(ctx, opts)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(res, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) nextDiaryMonth(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ym, err := s.svc.NextDiary(ctx, s.root)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("%s (%s)", ym, diary.Filename(ym))), nil
}

func (s *Server) readEntry(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	store, err := storage.NewFS(s.root)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	data, err := store.Read(name)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("not found: %s", name)), nil
	}
	out, _ := json.MarshalIndent(frontmatter.Split(data), "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) getEntryFormat(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(EntryFormatContract), nil
}

func (s *Server) readEntryFormatResource(_ context.Context, _ mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      formatURI,
			MIMEType: "text/markdown",
			Text:     EntryFormatContract,
		},
	}, nil
}
