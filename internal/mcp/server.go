package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/a3tai/mcp-trademark-billing/internal/billing"
	"github.com/a3tai/mcp-trademark-billing/internal/config"
	"github.com/a3tai/mcp-trademark-billing/internal/descriptions"
	"github.com/a3tai/mcp-trademark-billing/internal/pdf"
	"github.com/a3tai/mcp-trademark-billing/internal/report"
)

// Server represents the MCP server instance
type Server struct {
	config     *config.Config
	pdfService *pdf.Service
	pages      billing.PageSource
	mcpServer  *server.MCPServer
}

// NewServer creates a new MCP server instance
func NewServer(cfg *config.Config, pdfService *pdf.Service) (*Server, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if pdfService == nil {
		return nil, fmt.Errorf("pdfService cannot be nil")
	}

	mcpServer := server.NewMCPServer(
		cfg.ServerName,
		cfg.Version,
		server.WithToolCapabilities(false), // We don't support dynamic tool capabilities
	)

	s := &Server{
		config:     cfg,
		pdfService: pdfService,
		pages:      pdfService,
		mcpServer:  mcpServer,
	}

	s.registerTools()

	return s, nil
}

// registerTools registers all available MCP tools
func (s *Server) registerTools() {
	extractFileTool := mcp.NewTool(
		descriptions.ToolExtractFile,
		mcp.WithDescription(descriptions.GetToolDescription(descriptions.ToolExtractFile)),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Full path to the application packet PDF"),
		),
	)
	s.mcpServer.AddTool(extractFileTool, s.handleExtractFile)

	billingBatchTool := mcp.NewTool(
		descriptions.ToolBillingBatch,
		mcp.WithDescription(descriptions.GetToolDescription(descriptions.ToolBillingBatch)),
		mcp.WithString("paths",
			mcp.Description("Comma separated packet paths (all packets in directory if empty)"),
		),
		mcp.WithString("directory",
			mcp.Description("Directory to bill when paths is empty (uses default if empty)"),
		),
		mcp.WithNumber("agent_fee",
			mcp.Description("Agent fee per billed item in yuan (uses configured fee if omitted)"),
		),
		mcp.WithString("format",
			mcp.Description("Report format: json, markdown or html"),
		),
	)
	s.mcpServer.AddTool(billingBatchTool, s.handleBillingBatch)

	listPacketsTool := mcp.NewTool(
		descriptions.ToolListPackets,
		mcp.WithDescription(descriptions.GetToolDescription(descriptions.ToolListPackets)),
		mcp.WithString("directory",
			mcp.Description("Directory path to search (uses default if empty)"),
		),
		mcp.WithString("query",
			mcp.Description("Optional file name filter"),
		),
	)
	s.mcpServer.AddTool(listPacketsTool, s.handleListPackets)

	validateFileTool := mcp.NewTool(
		descriptions.ToolValidateFile,
		mcp.WithDescription(descriptions.GetToolDescription(descriptions.ToolValidateFile)),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Full path to the PDF file"),
		),
	)
	s.mcpServer.AddTool(validateFileTool, s.handleValidateFile)
}

// Handler functions
func (s *Server) handleExtractFile(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	pages, err := s.pages.PageTexts(ctx, path)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	extractor := billing.NewExtractor(billing.Options{FieldScope: s.config.Scope()})
	rec, err := extractor.ExtractDocument(billing.Document{ID: path, Pages: pages})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode record: %v", err)), nil
	}

	return mcp.NewToolResultText(string(data)), nil
}

func (s *Server) handleBillingBatch(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	paths := splitPaths(args["paths"])
	if len(paths) == 0 {
		directory := s.config.PDFDirectory // default
		if dir, ok := args["directory"].(string); ok && dir != "" {
			directory = dir
		}

		found, err := s.pdfService.PacketPaths(directory)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if len(found) == 0 {
			return mcp.NewToolResultError(fmt.Sprintf("no PDF packets found in %s", directory)), nil
		}
		paths = found
	}

	fees := s.config.Fees()
	if fee, ok := args["agent_fee"].(float64); ok {
		fees.Agent = int64(fee)
	}
	if err := fees.Validate(); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	format := s.config.ReportFormat()
	if f, ok := args["format"].(string); ok && f != "" {
		parsed, err := report.ParseFormat(f)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		format = parsed
	}

	processor := billing.NewProcessor(s.pages, billing.ProcessorConfig{
		Workers: s.config.Workers,
		Options: billing.Options{FieldScope: s.config.Scope()},
		// main points the default logger at stderr in debug mode and
		// discards it otherwise, keeping stdout for the protocol
		Logger: log.Default(),
	})
	res, err := processor.ProcessFiles(ctx, paths)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var out bytes.Buffer
	if err := report.Write(&out, report.New(res, fees), format); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(out.String()), nil
}

func (s *Server) handleListPackets(ctx context.Context, request mcp.CallToolRequest) (
	*mcp.CallToolResult, error,
) {
	args := request.GetArguments()

	directory := s.config.PDFDirectory // default
	if dir, ok := args["directory"].(string); ok && dir != "" {
		directory = dir
	}

	query := ""
	if q, ok := args["query"].(string); ok {
		query = q
	}

	result, err := s.pdfService.ListPackets(pdf.ListPacketsRequest{Directory: directory, Query: query})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(s.formatListPacketsResult(result)), nil
}

func (s *Server) handleValidateFile(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := s.pdfService.ValidateFile(pdf.ValidateFileRequest{Path: path})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var responseText string
	if result.Valid {
		responseText = fmt.Sprintf("PDF file %s is valid and readable (%d pages)", result.Path, result.Pages)
	} else {
		responseText = fmt.Sprintf("PDF validation failed for %s: %s", result.Path, result.Message)
	}

	return mcp.NewToolResultText(responseText), nil
}

func (s *Server) formatListPacketsResult(result *pdf.ListPacketsResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Found %d PDF packet(s) in %s", result.TotalCount, result.Directory)
	if result.SearchQuery != "" {
		fmt.Fprintf(&b, " matching %q", result.SearchQuery)
	}
	b.WriteString("\n\n")

	for i, file := range result.Files {
		fmt.Fprintf(&b, "%d. %s\n", i+1, file.Name)
		fmt.Fprintf(&b, "   Path: %s\n", file.Path)
		fmt.Fprintf(&b, "   Size: %d bytes\n", file.Size)
		fmt.Fprintf(&b, "   Modified: %s\n", file.ModifiedTime)
	}

	return b.String()
}

// splitPaths accepts a comma separated string of packet paths
func splitPaths(v any) []string {
	raw, ok := v.(string)
	if !ok {
		return nil
	}

	var paths []string
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			paths = append(paths, p)
		}
	}
	return paths
}

// Run starts the MCP server on standard I/O
func (s *Server) Run(_ context.Context) error {
	if s.config.IsDebug() {
		log.Printf("Starting trademark billing MCP server in stdio mode")
		log.Printf("Packet directory: %s", s.config.PDFDirectory)
	}

	if err := server.ServeStdio(s.mcpServer); err != nil {
		return fmt.Errorf("failed to serve stdio: %w", err)
	}
	return nil
}
