// Command gemini-collab runs an MCP server that exposes Google Gemini as a
// set of collaboration tools over stdin/stdout JSON-RPC.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"goa.design/clue/log"

	"gemini-collab-server/internal/config"
	"gemini-collab-server/internal/errors"
	"gemini-collab-server/internal/filesystem"
	"gemini-collab-server/internal/gemini"
	"gemini-collab-server/internal/history"
	"gemini-collab-server/internal/lock"
	"gemini-collab-server/internal/mcp"
	"gemini-collab-server/internal/models"
	"gemini-collab-server/internal/service"
	"gemini-collab-server/internal/sysprompt"
	"gemini-collab-server/internal/tools"
	"gemini-collab-server/internal/transport"
)

func main() {
	flags := config.ParseFlags()
	ctx := logContext(flags.Debug)

	fsa := filesystem.NewDefaultFileSystemAdapter()
	cfg := config.Load(ctx, fsa, flags)
	if cfg.Debug && !flags.Debug {
		ctx = log.Context(ctx, log.WithDebug())
	}

	if err := cfg.Validate(); err != nil {
		emitStartupError(err)
		os.Exit(1)
	}

	prompt, loaded := sysprompt.Load(fsa, sysprompt.Resolve(fsa, cfg.SystemPromptPath))
	if loaded {
		log.Printf(ctx, "loaded system prompt from %s", prompt.Path)
	}

	avail := service.Availability{Available: true}
	var completer service.Completer
	client, err := gemini.New(gemini.Options{
		APIKey:          cfg.APIKey,
		Model:           cfg.Model,
		BaseURL:         cfg.BaseURL,
		MaxOutputTokens: cfg.MaxOutputTokens,
		Timeout:         cfg.RequestTimeout,
	})
	if err != nil {
		avail = service.Availability{Available: false, Detail: err.Error()}
		log.Warnf(ctx, "Gemini unavailable, serving status tool only: %v", err)
	} else {
		completer = client
	}

	registry, err := tools.New(avail.Available, cfg.Model)
	if err != nil {
		emitStartupError(err)
		os.Exit(1)
	}

	var recorder *history.Recorder
	if cfg.HistoryFile != "" {
		recorder = history.NewRecorder(cfg.HistoryFile, lock.ForFile(cfg.HistoryFile))
		log.Debugf(ctx, "recording exchanges to %s", cfg.HistoryFile)
	}

	svc, err := service.NewDefaultCollabService(registry, completer, avail, prompt, recorder)
	if err != nil {
		emitStartupError(err)
		os.Exit(1)
	}

	log.Print(ctx,
		log.KV{K: "msg", V: "server ready"},
		log.KV{K: "model", V: cfg.Model},
		log.KV{K: "gemini_available", V: avail.Available})

	handler := transport.NewStdioHandler(mcp.NewProcessor(svc))
	if err := handler.Start(ctx, os.Stdin, os.Stdout); err != nil {
		log.Fatalf(ctx, err, "transport terminated")
	}
}

// logContext builds the root logging context. Logs go to stderr because
// stdout carries the protocol; buffering is off so warnings are written
// immediately.
func logContext(debug bool) context.Context {
	format := log.FormatJSON
	if log.IsTerminal() {
		format = log.FormatTerminal
	}
	ctx := log.Context(context.Background(),
		log.WithOutput(os.Stderr),
		log.WithFormat(format),
		log.WithDisableBuffering(func(context.Context) bool { return true }))
	if debug {
		ctx = log.Context(ctx, log.WithDebug())
		log.Debugf(ctx, "debug logs enabled")
	}
	return ctx
}

// emitStartupError writes the single id-less error line allowed before the
// request loop starts, so clients get a standard JSON-RPC error envelope
// even though they never sent a request.
func emitStartupError(err error) {
	resp := struct {
		JSONRPC string               `json:"jsonrpc"`
		Error   *models.JSONRPCError `json:"error"`
	}{
		JSONRPC: models.JSONRPCVersion,
		Error:   errors.ToJSONRPCError(errors.NewInternalError(err.Error())),
	}
	data, _ := json.Marshal(resp)
	fmt.Println(string(data))
}
