package mcp

import (
	"context"
	"fmt"
	"log/slog"
	"maps"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/wagiedev/toolrun-go/internal/config"
	"github.com/wagiedev/toolrun-go/internal/subprocess"
)

// ToolName is the name of the registered tool.
const ToolName = "run_tool"

// RunToolInput are the run_tool arguments.
type RunToolInput struct {
	ToolPath string            `json:"tool_path" jsonschema:"path of the executable to run; wrap in quotes to use it verbatim"`
	Args     []string          `json:"args,omitempty" jsonschema:"arguments passed to the tool"`
	Dir      string            `json:"dir,omitempty" jsonschema:"working directory; defaults to the server's"`
	Env      map[string]string `json:"env,omitempty" jsonschema:"extra environment variables; ignored in shell mode"`
	Shell    bool              `json:"shell,omitempty" jsonschema:"run through bash or cmd.exe"`
}

// RunToolOutput is the structured run_tool result.
type RunToolOutput struct {
	Stdout   string `json:"stdout"`
	Stderr   string `json:"stderr"`
	ExitCode int    `json:"exit_code"`
}

// handler holds the base options every call starts from.
type handler struct {
	log  *slog.Logger
	base config.Options
}

// NewServer creates an MCP server with run_tool registered. Each call copies
// base and applies the call's dir, env and shell arguments on top.
func NewServer(log *slog.Logger, base config.Options, version string) *mcp.Server {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	h := &handler{
		log:  log.With("component", "mcp"),
		base: base,
	}

	s := mcp.NewServer(&mcp.Implementation{Name: "toolrun", Version: version}, &mcp.ServerOptions{
		Capabilities: &mcp.ServerCapabilities{
			Tools: &mcp.ToolCapabilities{ListChanged: false},
		},
	})

	mcp.AddTool(s, &mcp.Tool{
		Name: ToolName,
		Description: `Run an external command-line tool and wait for it to finish.

Returns the combined run summary as text and stdout, stderr and exit_code as structured output.
A non-zero exit code is reported as a tool error.`,
		InputSchema: runToolSchema(),
	}, h.runTool)

	return s
}

// runToolSchema derives the input schema from RunToolInput and tightens it.
func runToolSchema() *jsonschema.Schema {
	schema, err := jsonschema.For[RunToolInput](nil)
	if err != nil {
		panic(fmt.Sprintf("run_tool schema: %v", err))
	}

	minLength := 1
	schema.Properties["tool_path"].MinLength = &minLength

	return schema
}

func (h *handler) runTool(
	_ context.Context,
	_ *mcp.CallToolRequest,
	in RunToolInput,
) (*mcp.CallToolResult, RunToolOutput, error) {
	options := h.base
	options.IOHandler = nil

	if in.Dir != "" {
		options.Dir = in.Dir
	}

	if len(in.Env) > 0 {
		env := make(map[string]string, len(options.Env)+len(in.Env))
		maps.Copy(env, options.Env)
		maps.Copy(env, in.Env)
		options.Env = env
	}

	if in.Shell {
		options.ShellExecution = true
	}

	h.log.Debug("Handling run_tool", "tool_path", in.ToolPath, "args", in.Args)

	result, err := subprocess.NewRunner(h.log, &options).Run(in.ToolPath, in.Args)
	if err != nil {
		h.log.Warn("run_tool failed", "tool_path", in.ToolPath, "error", err)

		return errorResult(err.Error()), RunToolOutput{ExitCode: subprocess.ExitCodeUnavailable}, nil
	}

	out := RunToolOutput{
		Stdout:   result.Stdout,
		Stderr:   result.Stderr,
		ExitCode: result.ExitCode,
	}

	if result.ExitCode != 0 {
		return errorResult(result.Message), out, nil
	}

	return textResult(result.Message), out, nil
}

// textResult builds a text-only tool result.
func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}

// errorResult builds a text tool result flagged as an error.
func errorResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
		IsError: true,
	}
}
