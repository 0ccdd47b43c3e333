package models

// Server identity, reported by initialize and echoed in the server_info
// status text.
const (
	ServerName    = "claude-gemini-mcp"
	ServerVersion = "1.0.0"
)

// ProtocolVersion is the MCP protocol revision this server speaks.
const ProtocolVersion = "2024-11-05"

// InitializeResult defines the JSON result of the "initialize" method.
type InitializeResult struct {
	ProtocolVersion string       `json:"protocolVersion"`
	Capabilities    Capabilities `json:"capabilities"`
	ServerInfo      ServerInfo   `json:"serverInfo"`
}

// ServerInfo identifies the server to the client.
type ServerInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// Capabilities declares what the server can do.
type Capabilities struct {
	Tools ToolsCapability `json:"tools"`
}

// ToolsCapability marshals to the empty object, meaning "tools are
// supported, nothing further to negotiate".
type ToolsCapability struct{}

// ToolsListResult defines the JSON result of the "tools/list" method.
type ToolsListResult struct {
	Tools []ToolDefinition `json:"tools"`
}

// ToolDefinition describes a single tool available through the server.
type ToolDefinition struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	InputSchema Schema `json:"inputSchema"`
}

// Schema represents a JSON schema, using map[string]interface{} for
// flexibility. The same value is served verbatim in tools/list and compiled
// for argument validation.
type Schema map[string]interface{}
