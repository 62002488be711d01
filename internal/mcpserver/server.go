// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes notebook tools for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/theAliTajik/Notebook/internal/noteservice"
)

const storageFormatURI = "notebook://storage-format"

// Server wraps the MCP server with notebook tools.
type Server struct {
	mcp *server.MCPServer
	svc *noteservice.Service
}

// New creates a new MCP server with all notebook tools registered.
func New(svc *noteservice.Service) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		"Notebook",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("list_notebooks",
		mcp.WithDescription("List all notebooks with their note counts."),
	), s.listNotebooks)

	s.mcp.AddTool(mcp.NewTool("create_notebook",
		mcp.WithDescription("Create an empty notebook. An existing notebook with the same name is replaced."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Notebook name (file stem, no path separators)")),
	), s.createNotebook)

	s.mcp.AddTool(mcp.NewTool("list_notes",
		mcp.WithDescription("List note titles of a notebook in file order."),
		mcp.WithString("notebook", mcp.Required(), mcp.Description("Notebook name")),
	), s.listNotes)

	s.mcp.AddTool(mcp.NewTool("read_note",
		mcp.WithDescription("Read the body of a note."),
		mcp.WithString("notebook", mcp.Required(), mcp.Description("Notebook name")),
		mcp.WithString("title", mcp.Required(), mcp.Description("Note title")),
	), s.readNote)

	s.mcp.AddTool(mcp.NewTool("create_note",
		mcp.WithDescription("Create a note. An existing note with the same title is overwritten. "+
			"See the get_storage_format tool or the "+storageFormatURI+" resource."),
		mcp.WithString("notebook", mcp.Required(), mcp.Description("Notebook name")),
		mcp.WithString("title", mcp.Required(), mcp.Description("Note title")),
		mcp.WithString("body", mcp.Required(), mcp.Description("Note body")),
	), s.createNote)

	s.mcp.AddTool(mcp.NewTool("edit_note",
		mcp.WithDescription("Replace the body of a note, creating it if absent."),
		mcp.WithString("notebook", mcp.Required(), mcp.Description("Notebook name")),
		mcp.WithString("title", mcp.Required(), mcp.Description("Note title")),
		mcp.WithString("body", mcp.Required(), mcp.Description("New note body")),
	), s.editNote)

	s.mcp.AddTool(mcp.NewTool("rename_note",
		mcp.WithDescription("Rename a note, keeping its body. Fails if the note does not exist."),
		mcp.WithString("notebook", mcp.Required(), mcp.Description("Notebook name")),
		mcp.WithString("title", mcp.Required(), mcp.Description("Current title")),
		mcp.WithString("new_title", mcp.Required(), mcp.Description("New title")),
	), s.renameNote)

	s.mcp.AddTool(mcp.NewTool("delete_note",
		mcp.WithDescription("Delete a note. Fails if the note does not exist."),
		mcp.WithString("notebook", mcp.Required(), mcp.Description("Notebook name")),
		mcp.WithString("title", mcp.Required(), mcp.Description("Note title")),
	), s.deleteNote)

	s.mcp.AddTool(mcp.NewTool("get_storage_format",
		mcp.WithDescription("Returns the on-disk notebook format and tool semantics."),
	), s.getStorageFormat)

	// Resource: storage format contract.
	s.mcp.AddResource(
		mcp.NewResource(storageFormatURI, "Notebook Storage Format",
			mcp.WithResourceDescription("How notebooks are stored as JSON files."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readStorageFormatResource,
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

// requireStrings fetches the named string arguments in order.
func requireStrings(req mcp.CallToolRequest, keys ...string) ([]string, error) {
	out := make([]string, len(keys))
	for i, k := range keys {
		v, err := req.RequireString(k)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func jsonResult(v any) *mcp.CallToolResult {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(err.Error())
	}
	return mcp.NewToolResultText(string(out))
}

func (s *Server) listNotebooks(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(s.svc.ListNotebooks(ctx)), nil
}

func (s *Server) createNotebook(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if _, err := s.svc.CreateNotebook(ctx, name); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("created notebook: %s", name)), nil
}

func (s *Server) listNotes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("notebook")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	titles, err := s.svc.ListNotes(ctx, name)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(strings.Join(titles, "\n")), nil
}

func (s *Server) readNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, err := requireStrings(req, "notebook", "title")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	note, err := s.svc.GetNote(ctx, args[0], args[1])
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(note.Body), nil
}

func (s *Server) createNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, err := requireStrings(req, "notebook", "title", "body")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if _, err := s.svc.CreateNote(ctx, args[0], args[1], args[2]); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("created: %s/%s", args[0], args[1])), nil
}

func (s *Server) editNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, err := requireStrings(req, "notebook", "title", "body")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if _, err := s.svc.EditNote(ctx, args[0], args[1], args[2]); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("updated: %s/%s", args[0], args[1])), nil
}

func (s *Server) renameNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, err := requireStrings(req, "notebook", "title", "new_title")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if _, err := s.svc.RenameNote(ctx, args[0], args[1], args[2]); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("renamed: %s/%s -> %s", args[0], args[1], args[2])), nil
}

func (s *Server) deleteNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, err := requireStrings(req, "notebook", "title")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := s.svc.DeleteNote(ctx, args[0], args[1]); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("deleted: %s/%s", args[0], args[1])), nil
}

func (s *Server) getStorageFormat(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(StorageFormatContract), nil
}

func (s *Server) readStorageFormatResource(_ context.Context, _ mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      storageFormatURI,
			MIMEType: "text/markdown",
			Text:     StorageFormatContract,
		},
	}, nil
}
