package runner

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/petasbytes/memagent/internal/telemetry"
	"github.com/petasbytes/memagent/tools"
)

// ErrLoopBudget reports that a turn made LoopBudget model calls without the
// model producing a final (tool-free) answer. The turn is abandoned.
var ErrLoopBudget = errors.New("model call budget exhausted before a final answer")

const systemPrompt = "You are my personal AI agent with memory.\n" +
	"1. Answer accurately\n" +
	"2. Use previous context\n" +
	"3. Use tools when required\n" +
	"4. Stay conversational"

const defaultLoopBudget = 10

const maxTokens = 1024

type Runner struct {
	Client *anthropic.Client
	Tools  []tools.ToolDefinition
	// LoopBudget caps model calls per turn; <= 0 falls back to the default.
	LoopBudget int
}

func New(client *anthropic.Client, toolDefs []tools.ToolDefinition) *Runner {
	return &Runner{Client: client, Tools: toolDefs, LoopBudget: defaultLoopBudget}
}

func (r *Runner) anthropicTools() []anthropic.ToolUnionParam {
	out := make([]anthropic.ToolUnionParam, 0, len(r.Tools))
	for _, t := range r.Tools {
		out = append(out, anthropic.ToolUnionParam{OfTool: &anthropic.ToolParam{
			Name:        t.Name,
			Description: anthropic.String(t.Description),
			InputSchema: t.InputSchema,
		}})
	}
	return out
}

// RunTurn drives one full turn: it sends the conversation, and while the
// response carries tool_use blocks it appends the response plus a user
// message holding the matching tool_result blocks and re-invokes the model.
// The first response with no tool_use blocks ends the turn; its visible text
// is returned along with the augmented conversation. The conversation is
// append-only throughout; nothing is reordered or dropped mid-turn.
func (r *Runner) RunTurn(ctx context.Context, model anthropic.Model, conv []anthropic.MessageParam) (string, []anthropic.MessageParam, error) {
	turnID, ok := telemetry.TurnIDFromContext(ctx)
	if !ok {
		turnID = fmt.Sprintf("turn-%d", time.Now().UnixNano())
		ctx = telemetry.WithTurnID(ctx, turnID)
	}

	budget := r.LoopBudget
	if budget <= 0 {
		budget = defaultLoopBudget
	}

	modelCalls := 0
	toolCalls := 0
	for {
		if modelCalls >= budget {
			return "", conv, fmt.Errorf("%w (%d calls)", ErrLoopBudget, modelCalls)
		}
		msg, toolResults, err := r.RunOneStep(ctx, model, conv)
		modelCalls++
		if err != nil {
			return "", conv, err
		}
		conv = append(conv, msg.ToParam())
		if len(toolResults) == 0 {
			final := visibleText(msg)
			telemetry.Emit("turn_completed", map[string]any{
				"turn_id":     turnID,
				"model_calls": modelCalls,
				"tool_calls":  toolCalls,
				"reply_len":   len(final),
			})
			return final, conv, nil
		}
		toolCalls += len(toolResults)
		// Provide tool results as a user message back to the model
		conv = append(conv, anthropic.NewUserMessage(toolResults...))
	}
}

// RunOneStep sends the conversation once and either prints text or returns tool results to be appended.
func (r *Runner) RunOneStep(ctx context.Context, model anthropic.Model, conv []anthropic.MessageParam) (*anthropic.Message, []anthropic.ContentBlockParamUnion, error) {
	turnID, ok := telemetry.TurnIDFromContext(ctx)
	if !ok {
		turnID = fmt.Sprintf("turn-%d", time.Now().UnixNano())
		ctx = telemetry.WithTurnID(ctx, turnID)
	}

	telemetry.Emit("model_call", map[string]any{
		"turn_id":  turnID,
		"model":    string(model),
		"messages": len(conv),
		"tools":    len(r.Tools),
	})

	params := anthropic.MessageNewParams{
		Model:     model,
		MaxTokens: int64(maxTokens),
		System:    []anthropic.TextBlockParam{{Text: systemPrompt}},
		Messages:  conv,
		Tools:     r.anthropicTools(),
	}

	msg, err := r.Client.Messages.New(ctx, params)
	if err != nil {
		return nil, nil, err
	}
	toolResults := []anthropic.ContentBlockParamUnion{}
	for _, block := range msg.Content {
		switch v := block.AsAny().(type) {
		case anthropic.TextBlock:
			fmt.Printf("\u001b[93mAgent\u001b[0m: %s\n", v.Text)
		case anthropic.ToolUseBlock:
			// Pass raw JSON input through to the tool implementation
			input := json.RawMessage(v.JSON.Input.Raw())
			res := r.execTool(ctx, v.ID, v.Name, input)
			toolResults = append(toolResults, res)
		}
	}
	return msg, toolResults, nil
}

func (r *Runner) execTool(ctx context.Context, id, name string, input json.RawMessage) anthropic.ContentBlockParamUnion {
	def, found := tools.Find(r.Tools, name)

	turnID, _ := telemetry.TurnIDFromContext(ctx)

	// Helper to emit a tool_exec event
	emit := func(durationMs int64, inputSize int, outputSize int, errStr string) {
		fields := map[string]any{
			"tool_name":   name,
			"duration_ms": durationMs,
			"input_size":  inputSize,
			"output_size": outputSize,
			"turn_id":     turnID,
		}
		if errStr != "" {
			fields["error"] = errStr
		} else {
			fields["error"] = nil
		}
		telemetry.Emit("tool_exec", fields)
	}

	start := time.Now()
	inSize := len(input)

	// Handle "tool not found" as an error result and emit telemetry
	if !found {
		emit(time.Since(start).Milliseconds(), inSize, 0, "tool not found")
		return anthropic.NewToolResultBlock(id, "tool not found", true)
	}

	// Execute the tool
	resp, err := def.Function(input)
	if err != nil {
		// Emit a generic error string to avoid leaking raw payloads in telemetry
		emit(time.Since(start).Milliseconds(), inSize, 0, "tool error")
		// Preserve detailed error message in the tool result content returned to the model
		return anthropic.NewToolResultBlock(id, err.Error(), true)
	}
	outSize := len(resp)
	emit(time.Since(start).Milliseconds(), inSize, outSize, "")
	return anthropic.NewToolResultBlock(id, resp, false)
}

// visibleText joins the text blocks of a message in order.
func visibleText(msg *anthropic.Message) string {
	var parts []string
	for _, b := range msg.Content {
		if tb, ok := b.AsAny().(anthropic.TextBlock); ok && tb.Text != "" {
			parts = append(parts, tb.Text)
		}
	}
	return strings.Join(parts, "\n")
}
