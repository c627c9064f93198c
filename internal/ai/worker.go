package ai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/mabhisheksingh/AgenticAI/internal/ai/tools"
)

const (
	workerDefaultTimeout = 45 * time.Second
	workerMaxToolRounds  = 6
)

// Worker answers a single sub-query for one capability. It is stateless: each
// Run builds its message list from scratch and drives the completion tool loop
// until the model produces terminal text.
type Worker struct {
	capability  Capability
	instruction string
	completer   Completer
	model       string
	registry    *tools.Registry
	toolDefs    []ToolDef
	timeout     time.Duration
	log         *slog.Logger
}

// WorkerOptions configures NewWorker. ToolNames selects which registry tools
// the capability may call; empty means none.
type WorkerOptions struct {
	Capability Capability
	Completer  Completer
	Model      string
	Registry   *tools.Registry
	ToolNames  []string
	Timeout    time.Duration
	Log        *slog.Logger
}

func NewWorker(opts WorkerOptions) *Worker {
	log := opts.Log
	if log == nil {
		log = slog.Default()
	}
	w := &Worker{
		capability:  opts.Capability,
		instruction: workerInstruction(opts.Capability),
		completer:   opts.Completer,
		model:       opts.Model,
		registry:    opts.Registry,
		timeout:     opts.Timeout,
		log:         log,
	}
	if opts.Registry != nil {
		for _, def := range opts.Registry.Definitions(opts.ToolNames...) {
			w.toolDefs = append(w.toolDefs, ToolDef{
				Name:        def.Name,
				Description: def.Description,
				InputSchema: def.InputSchema,
			})
		}
	}
	return w
}

func (w *Worker) Capability() Capability {
	if w == nil {
		return CapabilityResearch
	}
	return w.capability
}

// Run answers subQuery. Streaming text reaches onDelta and tool invocations
// are announced through onToolCall; both may be nil. Context history is
// provided as a rendered prefix so the worker stays stateless.
func (w *Worker) Run(ctx context.Context, subQuery, historySummary string, onDelta func(string), onToolCall func(name string)) (string, error) {
	if w == nil || w.completer == nil {
		return "", errors.New("nil worker")
	}
	timeout := w.timeout
	if timeout <= 0 {
		timeout = workerDefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	input := strings.TrimSpace(subQuery)
	if historySummary != "" {
		input = "Conversation summary so far:\n" + historySummary + "\n\nTask: " + input
	}
	messages := []ChatMessage{UserMessage(input)}

	for round := 0; round < workerMaxToolRounds; round++ {
		result, err := w.completer.StreamCompletion(ctx, CompletionRequest{
			Model:    w.model,
			System:   w.instruction,
			Messages: messages,
			Tools:    w.toolDefs,
		}, func(ev StreamEvent) {
			switch ev.Type {
			case StreamEventTextDelta:
				if onDelta != nil {
					onDelta(ev.Text)
				}
			case StreamEventToolCall:
				if onToolCall != nil && ev.ToolCall != nil {
					onToolCall(ev.ToolCall.Name)
				}
			}
		})
		if err != nil {
			return "", fmt.Errorf("%s worker: %w", w.capability, err)
		}
		if len(result.ToolCalls) == 0 {
			text := strings.TrimSpace(result.Text)
			if text == "" {
				return "", fmt.Errorf("%s worker: empty completion", w.capability)
			}
			return text, nil
		}
		if txt := strings.TrimSpace(result.Text); txt != "" {
			messages = append(messages, AssistantMessage(txt))
		}
		for _, call := range result.ToolCalls {
			messages = append(messages, UserMessage(fmt.Sprintf("Result of %s: %s", call.Name, w.invokeTool(ctx, call))))
		}
	}
	return "", fmt.Errorf("%s worker: tool loop exceeded %d rounds", w.capability, workerMaxToolRounds)
}

func (w *Worker) invokeTool(ctx context.Context, call ToolCall) string {
	if w.registry == nil {
		return "error: no tools available"
	}
	out, err := w.registry.Invoke(ctx, call.Name, call.Args)
	if err != nil {
		w.log.Warn("tool invocation failed", "capability", w.capability, "tool", call.Name, "error", err)
		return "error: " + err.Error()
	}
	return out
}
