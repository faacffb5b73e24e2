package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/celerio/scout/core"
	"github.com/celerio/scout/internal/contract"
	"github.com/celerio/scout/internal/ingest"
	"github.com/celerio/scout/schema"
	"github.com/mark3labs/mcp-go/mcp"
	"go.uber.org/zap"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	log     *zap.Logger
}

// scoreResult is the score_company payload.
type scoreResult struct {
	CompanyID        string                  `json:"company_id"`
	CompanyName      string                  `json:"company_name"`
	Scores           schema.ScoreTriple      `json:"scores"`
	StallProbability schema.StallProbability `json:"stall_probability"`
}

// parseCompany reads and validates the company argument.
func parseCompany(request mcp.CallToolRequest) (schema.Company, error) {
	raw := strings.TrimSpace(request.GetString("company", ""))
	if raw == "" {
		return schema.Company{}, errors.New("company is required")
	}
	return ingest.ParseCompany([]byte(raw))
}

// asOf resolves the reference time from the request, the base config, or now.
func (h *toolHandler) asOf(request mcp.CallToolRequest) (time.Time, error) {
	if s := request.GetString("as_of", ""); s != "" {
		return contract.ParseAsOf(s, time.Now())
	}
	if h.baseCfg != nil && !h.baseCfg.AsOf.IsZero() {
		return h.baseCfg.AsOf, nil
	}
	return time.Now(), nil
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleDiagnoseCompany(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	company, err := parseCompany(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid company: %v", err)), nil
	}
	asOf, err := h.asOf(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid as_of: %v", err)), nil
	}

	report, err := core.DiagnoseCompany(company.Profile, company.Signals, asOf)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("diagnosis failed: %v", err)), nil
	}
	h.log.Debug("diagnosed company via mcp",
		zap.String("company", report.CompanyName),
		zap.String("primary_vector", string(report.PrimaryVector)))
	return jsonResult(report)
}

func (h *toolHandler) handleScoreCompany(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	company, err := parseCompany(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid company: %v", err)), nil
	}
	a, err := core.AssessCompany(company.Profile, company.Signals, time.Now())
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("scoring failed: %v", err)), nil
	}
	return jsonResult(scoreResult{
		CompanyID:        a.Report.CompanyID,
		CompanyName:      a.Report.CompanyName,
		Scores:           a.Scores,
		StallProbability: a.StallProbability,
	})
}
