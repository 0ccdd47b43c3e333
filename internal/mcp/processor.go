// Package mcp dispatches parsed JSON-RPC requests to their MCP method
// handlers.
package mcp

import (
	"context"
	"encoding/json"

	"gemini-collab-server/internal/errors"
	"gemini-collab-server/internal/models"
	"gemini-collab-server/internal/service"
)

// Processor routes JSON-RPC methods to the collaboration service.
type Processor struct {
	service service.CollabService
}

// NewProcessor creates a Processor backed by the given service.
func NewProcessor(svc service.CollabService) *Processor {
	return &Processor{service: svc}
}

// ProcessRequest handles a single parsed request and returns either a result
// payload or an error detail for the transport to wrap. Exactly one of the
// two is non-nil.
func (p *Processor) ProcessRequest(ctx context.Context, req models.JSONRPCRequest) (interface{}, *models.ErrorDetail) {
	switch req.Method {
	case "initialize":
		return models.InitializeResult{
			ProtocolVersion: models.ProtocolVersion,
			Capabilities:    models.Capabilities{},
			ServerInfo: models.ServerInfo{
				Name:    models.ServerName,
				Version: models.ServerVersion,
			},
		}, nil
	case "tools/list":
		return models.ToolsListResult{Tools: p.service.Definitions()}, nil
	case "tools/call":
		var params models.ToolCallParams
		if len(req.Params) > 0 {
			if err := json.Unmarshal(req.Params, &params); err != nil {
				return nil, errors.NewInternalError("invalid tools/call parameters: " + err.Error())
			}
		}
		result, errDetail := p.service.Execute(ctx, params.Name, params.Arguments)
		if errDetail != nil {
			return nil, errDetail
		}
		return result, nil
	default:
		return nil, errors.NewMethodNotFoundError(req.Method)
	}
}
