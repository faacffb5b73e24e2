package mcp_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/celerio/scout/internal/contract"
	mcp_internal "github.com/celerio/scout/internal/mcp"
	"github.com/celerio/scout/schema"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const motionStalled = `{
  "profile": {
    "name": "Divergent Labs",
    "domain": "divergent.example",
    "engineering_count": 20,
    "engineering_count_prior": 20,
    "sales_count": 15,
    "sales_count_prior": 20
  },
  "signals": {}
}`

func callTool(t *testing.T, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	baseCfg := &contract.Config{AsOf: time.Date(2026, time.January, 15, 0, 0, 0, 0, time.UTC)}
	s := mcp_internal.NewMCPServer(baseCfg, "test", nil)

	tool := s.GetTool(name)
	require.NotNil(t, tool, "Tool %s should exist", name)

	req := mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	}
	res, err := tool.Handler(context.Background(), req)
	require.NoError(t, err, "The MCP handler should not return a raw error for tool logic failures")
	require.NotEmpty(t, res.Content)
	return res
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	text, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok)
	return text.Text
}

func TestDiagnoseCompanyTool(t *testing.T) {
	res := callTool(t, "diagnose_company", map[string]any{"company": motionStalled})
	require.False(t, res.IsError, resultText(t, res))

	var report schema.DiagnosisReport
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &report))
	assert.Equal(t, "Divergent Labs", report.CompanyName)
	assert.Equal(t, schema.MotionVector, report.PrimaryVector)
	assert.Equal(t, schema.RiskMedium, report.StallRisk)
	require.NotNil(t, report.PerVector[schema.MotionVector].FailureMode)
	assert.Equal(t, schema.MotionFailure, *report.PerVector[schema.MotionVector].FailureMode)
	assert.Len(t, report.Prescription.Plan, 6)
}

func TestScoreCompanyTool(t *testing.T) {
	res := callTool(t, "score_company", map[string]any{"company": motionStalled})
	require.False(t, res.IsError, resultText(t, res))

	var payload map[string]any
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &payload))
	assert.Equal(t, "Divergent Labs", payload["company_name"])
	assert.Contains(t, []any{"low", "medium", "high"}, payload["stall_probability"])
	assert.Contains(t, payload, "scores")
}

func TestMCPServerHandlers_ValidationErrors(t *testing.T) {
	tests := []struct {
		name     string
		tool     string
		args     map[string]any
		contains string
	}{
		{"diagnose missing company", "diagnose_company", map[string]any{}, "company is required"},
		{"diagnose malformed company", "diagnose_company", map[string]any{"company": "{not json"}, "invalid company"},
		{"diagnose schema violation", "diagnose_company", map[string]any{"company": `{"signals": {}}`}, "invalid company"},
		{"diagnose nameless profile", "diagnose_company", map[string]any{"company": `{"profile": {"domain": "x.io"}}`}, "diagnosis failed"},
		{"diagnose invalid as_of", "diagnose_company", map[string]any{"company": motionStalled, "as_of": "someday"}, "invalid as_of"},
		{"score nameless profile", "score_company", map[string]any{"company": `{"profile": {}}`}, "scoring failed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := callTool(t, tt.tool, tt.args)
			assert.True(t, res.IsError, "The response should indicate an error state")
			assert.Contains(t, resultText(t, res), tt.contains)
		})
	}
}
