// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/celerio/scout/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"
)

const companyParamDescription = `Company as a JSON object: {"profile": {...}, "signals": {...}}. ` +
	`Uses the same fields as a company entry in a batch document.`

// NewMCPServer initializes and configures the scout MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, version string, logger *zap.Logger) *server.MCPServer {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := server.NewMCPServer(
		"Scout Diagnosis Server",
		version,
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		log:     logger,
	}

	// --- 1. Tool: diagnose_company ---
	s.AddTool(mcp.NewTool("diagnose_company",
		mcp.WithDescription("Diagnose a single company: primary failing vector, per-vector failure modes, stall risk and the remediation plan."),
		mcp.WithString("company", mcp.Description(companyParamDescription), mcp.Required()),
		mcp.WithString("as_of", mcp.Description("Reference date (YYYY-MM-DD, RFC3339 or e.g. '3 months ago'). Defaults to now.")),
	), h.handleDiagnoseCompany)

	// --- 2. Tool: score_company ---
	s.AddTool(mcp.NewTool("score_company",
		mcp.WithDescription("Score a single company on the messaging, motion and market vectors and classify its stall probability."),
		mcp.WithString("company", mcp.Description(companyParamDescription), mcp.Required()),
	), h.handleScoreCompany)

	return s
}

// StartMCPServer starts the scout MCP server on stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, version string, logger *zap.Logger) error {
	s := NewMCPServer(baseCfg, version, logger)
	return server.ServeStdio(s)
}
