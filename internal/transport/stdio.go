// Package transport reads newline-delimited JSON-RPC requests from stdin and
// writes one response line per request to stdout.
package transport

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"goa.design/clue/log"

	"gemini-collab-server/internal/errors"
	"gemini-collab-server/internal/mcp"
	"gemini-collab-server/internal/models"
)

// maxLineBytes bounds a single request line. Tool calls carry whole source
// files inline, so the limit is generous.
const maxLineBytes = 10 * 1024 * 1024

// StdioHandler drives the request loop over a reader/writer pair.
type StdioHandler struct {
	processor *mcp.Processor
}

// NewStdioHandler creates a StdioHandler dispatching to the given processor.
func NewStdioHandler(processor *mcp.Processor) *StdioHandler {
	return &StdioHandler{processor: processor}
}

// Start consumes input line by line until EOF. Blank lines are skipped and
// lines that do not parse as JSON are dropped without a reply; the client
// only ever sees one response line per request it managed to send. The id is
// echoed back exactly as received, null when absent.
func (h *StdioHandler) Start(ctx context.Context, input io.Reader, output io.Writer) error {
	log.Debugf(ctx, "stdio transport ready")

	scanner := bufio.NewScanner(input)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}

		var req models.JSONRPCRequest
		if err := json.Unmarshal(line, &req); err != nil {
			log.Debugf(ctx, "dropping malformed request line: %v", err)
			continue
		}
		log.Debugf(ctx, "request: method=%s id=%v", req.Method, req.ID)

		resp := models.JSONRPCResponse{
			JSONRPC: models.JSONRPCVersion,
			ID:      req.ID,
		}
		result, errDetail := h.processor.ProcessRequest(ctx, req)
		if errDetail != nil {
			resp.Error = errors.ToJSONRPCError(errDetail)
		} else {
			resp.Result = result
		}
		h.writeResponse(ctx, output, resp)
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read request line: %w", err)
	}
	log.Debugf(ctx, "stdin closed, stopping")
	return nil
}

// writeResponse marshals and writes one response line. A result that cannot
// be marshaled is downgraded to an internal error envelope so the client
// still gets its line.
func (h *StdioHandler) writeResponse(ctx context.Context, output io.Writer, resp models.JSONRPCResponse) {
	data, err := json.Marshal(resp)
	if err != nil {
		log.Error(ctx, err, log.KV{K: "msg", V: "failed to marshal response"})
		fallback := models.JSONRPCResponse{
			JSONRPC: models.JSONRPCVersion,
			ID:      resp.ID,
			Error:   errors.ToJSONRPCError(errors.NewInternalError("failed to marshal response")),
		}
		data, _ = json.Marshal(fallback)
	}
	if _, err := fmt.Fprintln(output, string(data)); err != nil {
		log.Error(ctx, err, log.KV{K: "msg", V: "failed to write response"})
	}
}
