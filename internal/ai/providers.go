package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	aoption "github.com/anthropics/anthropic-sdk-go/option"
	openai "github.com/openai/openai-go"
	ooption "github.com/openai/openai-go/option"
	oresponses "github.com/openai/openai-go/responses"
	oshared "github.com/openai/openai-go/shared"
)

const defaultMaxOutputTokens = 4096

// NewCompleter builds a streaming completion adapter for the configured
// provider. baseURL is optional and overrides the provider default.
func NewCompleter(providerType, apiKey, baseURL string) (Completer, error) {
	providerType = strings.ToLower(strings.TrimSpace(providerType))
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("missing provider api key")
	}
	switch providerType {
	case "openai":
		opts := []ooption.RequestOption{ooption.WithAPIKey(strings.TrimSpace(apiKey))}
		if strings.TrimSpace(baseURL) != "" {
			opts = append(opts, ooption.WithBaseURL(strings.TrimSpace(baseURL)))
		}
		return &openAICompleter{client: openai.NewClient(opts...)}, nil
	case "anthropic":
		opts := []aoption.RequestOption{aoption.WithAPIKey(strings.TrimSpace(apiKey))}
		if strings.TrimSpace(baseURL) != "" {
			opts = append(opts, aoption.WithBaseURL(strings.TrimSpace(baseURL)))
		}
		return &anthropicCompleter{client: anthropic.NewClient(opts...)}, nil
	default:
		return nil, fmt.Errorf("unsupported provider type %q", providerType)
	}
}

type anthropicCompleter struct {
	client anthropic.Client
}

func (p *anthropicCompleter) StreamCompletion(ctx context.Context, req CompletionRequest, onEvent func(StreamEvent)) (CompletionResult, error) {
	if p == nil {
		return CompletionResult{}, errors.New("nil completer")
	}
	if strings.TrimSpace(req.Model) == "" {
		return CompletionResult{}, errors.New("missing model")
	}
	maxTokens := int64(req.MaxTokens)
	if maxTokens <= 0 {
		maxTokens = defaultMaxOutputTokens
	}
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(strings.TrimSpace(req.Model)),
		MaxTokens: maxTokens,
		Messages:  buildAnthropicMessages(req.Messages),
	}
	if tools := buildAnthropicTools(req.Tools); len(tools) > 0 {
		params.Tools = tools
	}
	if system := strings.TrimSpace(req.System); system != "" {
		params.System = []anthropic.TextBlockParam{{Text: system}}
	}

	stream := p.client.Messages.NewStreaming(ctx, params)
	msg := anthropic.Message{}
	var textBuf strings.Builder
	for stream.Next() {
		event := stream.Current()
		if err := msg.Accumulate(event); err != nil {
			return CompletionResult{}, err
		}
		if variant, ok := event.AsAny().(anthropic.ContentBlockDeltaEvent); ok {
			if delta, ok := variant.Delta.AsAny().(anthropic.TextDelta); ok && delta.Text != "" {
				textBuf.WriteString(delta.Text)
				emitCompletionEvent(onEvent, StreamEvent{Type: StreamEventTextDelta, Text: delta.Text})
			}
		}
	}
	if err := stream.Err(); err != nil {
		return CompletionResult{}, err
	}

	result := CompletionResult{Text: strings.TrimSpace(textBuf.String())}
	for _, block := range msg.Content {
		switch variant := block.AsAny().(type) {
		case anthropic.TextBlock:
			if result.Text == "" {
				result.Text = strings.TrimSpace(variant.Text)
			}
		case anthropic.ToolUseBlock:
			args := map[string]any{}
			if len(variant.Input) > 0 {
				_ = json.Unmarshal(variant.Input, &args)
			}
			callID := strings.TrimSpace(variant.ID)
			if callID == "" {
				callID = fmt.Sprintf("anthropic_call_%d", len(result.ToolCalls)+1)
			}
			call := ToolCall{ID: callID, Name: strings.TrimSpace(variant.Name), Args: args}
			result.ToolCalls = append(result.ToolCalls, call)
			emitCompletionEvent(onEvent, StreamEvent{Type: StreamEventToolCall, ToolCall: &call})
		}
	}
	return result, nil
}

func buildAnthropicMessages(messages []ChatMessage) []anthropic.MessageParam {
	out := make([]anthropic.MessageParam, 0, len(messages)+1)
	for _, msg := range messages {
		txt := strings.TrimSpace(msg.Content.PlainText())
		if txt == "" {
			continue
		}
		switch strings.ToLower(strings.TrimSpace(msg.Role)) {
		case RoleSystem:
			// Carried via MessageNewParams.System.
			continue
		case RoleAssistant:
			out = append(out, anthropic.NewAssistantMessage(anthropic.NewTextBlock(txt)))
		default:
			out = append(out, anthropic.NewUserMessage(anthropic.NewTextBlock(txt)))
		}
	}
	if len(out) == 0 {
		out = append(out, anthropic.NewUserMessage(anthropic.NewTextBlock("Continue.")))
	}
	return out
}

func buildAnthropicTools(defs []ToolDef) []anthropic.ToolUnionParam {
	out := make([]anthropic.ToolUnionParam, 0, len(defs))
	for _, def := range defs {
		name := strings.TrimSpace(def.Name)
		if name == "" {
			continue
		}
		schema := map[string]any{}
		if len(def.InputSchema) > 0 {
			_ = json.Unmarshal(def.InputSchema, &schema)
		}
		required, _ := toStringSlice(schema["required"])
		param := anthropic.ToolParam{
			Name:        name,
			Description: anthropic.String(strings.TrimSpace(def.Description)),
			InputSchema: anthropic.ToolInputSchemaParam{Type: "object", Properties: schema["properties"], Required: required},
		}
		out = append(out, anthropic.ToolUnionParam{OfTool: &param})
	}
	return out
}

type openAICompleter struct {
	client openai.Client
}

func (p *openAICompleter) StreamCompletion(ctx context.Context, req CompletionRequest, onEvent func(StreamEvent)) (CompletionResult, error) {
	if p == nil {
		return CompletionResult{}, errors.New("nil completer")
	}
	if strings.TrimSpace(req.Model) == "" {
		return CompletionResult{}, errors.New("missing model")
	}
	maxTokens := int64(req.MaxTokens)
	if maxTokens <= 0 {
		maxTokens = defaultMaxOutputTokens
	}
	params := oresponses.ResponseNewParams{
		Model:             oshared.ResponsesModel(strings.TrimSpace(req.Model)),
		MaxOutputTokens:   openai.Int(maxTokens),
		ParallelToolCalls: openai.Bool(false),
	}
	if req.JSONObject {
		obj := oshared.NewResponseFormatJSONObjectParam()
		params.Text = oresponses.ResponseTextConfigParam{
			Format: oresponses.ResponseFormatTextConfigUnionParam{OfJSONObject: &obj},
		}
	}
	items := buildOpenAIInput(req.Messages)
	if len(items) == 0 {
		items = append(items, oresponses.ResponseInputItemParamOfMessage("Continue.", oresponses.EasyInputMessageRoleUser))
	}
	params.Input = oresponses.ResponseNewParamsInputUnion{OfInputItemList: items}
	if system := strings.TrimSpace(req.System); system != "" {
		params.Instructions = openai.String(system)
	}
	if tools := buildOpenAITools(req.Tools); len(tools) > 0 {
		params.Tools = tools
	}

	stream := p.client.Responses.NewStreaming(ctx, params)
	var textBuf strings.Builder
	var completed oresponses.Response
	gotCompleted := false
	for stream.Next() {
		event := stream.Current()
		switch strings.TrimSpace(event.Type) {
		case "response.output_text.delta":
			delta := event.Delta.OfString
			if delta == "" {
				continue
			}
			textBuf.WriteString(delta)
			emitCompletionEvent(onEvent, StreamEvent{Type: StreamEventTextDelta, Text: delta})
		case "response.completed":
			completed = event.Response
			gotCompleted = true
		}
	}
	if err := stream.Err(); err != nil {
		return CompletionResult{}, err
	}
	if !gotCompleted {
		return CompletionResult{}, errors.New("missing response.completed event")
	}

	result := CompletionResult{Text: strings.TrimSpace(textBuf.String())}
	for _, item := range completed.Output {
		if strings.TrimSpace(item.Type) != "function_call" {
			continue
		}
		callID := strings.TrimSpace(item.CallID)
		if callID == "" {
			callID = strings.TrimSpace(item.ID)
		}
		if callID == "" {
			callID = fmt.Sprintf("openai_call_%d", len(result.ToolCalls)+1)
		}
		args := map[string]any{}
		if raw := strings.TrimSpace(item.Arguments); raw != "" {
			_ = json.Unmarshal([]byte(raw), &args)
		}
		call := ToolCall{ID: callID, Name: strings.TrimSpace(item.Name), Args: args}
		result.ToolCalls = append(result.ToolCalls, call)
		emitCompletionEvent(onEvent, StreamEvent{Type: StreamEventToolCall, ToolCall: &call})
	}
	return result, nil
}

func buildOpenAIInput(messages []ChatMessage) oresponses.ResponseInputParam {
	items := make(oresponses.ResponseInputParam, 0, len(messages))
	for _, msg := range messages {
		txt := strings.TrimSpace(msg.Content.PlainText())
		if txt == "" {
			continue
		}
		switch strings.ToLower(strings.TrimSpace(msg.Role)) {
		case RoleSystem:
			items = append(items, oresponses.ResponseInputItemParamOfMessage(txt, oresponses.EasyInputMessageRoleSystem))
		case RoleAssistant:
			items = append(items, oresponses.ResponseInputItemParamOfMessage(txt, oresponses.EasyInputMessageRoleAssistant))
		default:
			items = append(items, oresponses.ResponseInputItemParamOfMessage(txt, oresponses.EasyInputMessageRoleUser))
		}
	}
	return items
}

func buildOpenAITools(defs []ToolDef) []oresponses.ToolUnionParam {
	out := make([]oresponses.ToolUnionParam, 0, len(defs))
	for _, def := range defs {
		name := strings.TrimSpace(def.Name)
		if name == "" {
			continue
		}
		schema := map[string]any{}
		if len(def.InputSchema) > 0 {
			_ = json.Unmarshal(def.InputSchema, &schema)
		}
		out = append(out, oresponses.ToolParamOfFunction(name, schema, false))
	}
	return out
}

func toStringSlice(v any) ([]string, bool) {
	switch vv := v.(type) {
	case []string:
		return vv, true
	case []any:
		out := make([]string, 0, len(vv))
		for _, item := range vv {
			s, ok := item.(string)
			if !ok {
				return nil, false
			}
			out = append(out, s)
		}
		return out, true
	default:
		return nil, false
	}
}
