package concierge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/sony/gobreaker/v2"
	"google.golang.org/genai"
)

type GeminiModel struct {
	client  *genai.Client
	model   string
	breaker *gobreaker.CircuitBreaker[*genai.GenerateContentResponse]
}

func NewGeminiModel(ctx context.Context, apiKey, model string) (*GeminiModel, error) {
	if apiKey == "" {
		return nil, ErrNotConfigured
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return &GeminiModel{
		client: client,
		model:  model,
		breaker: gobreaker.NewCircuitBreaker[*genai.GenerateContentResponse](gobreaker.Settings{
			Name:        "genai",
			MaxRequests: 1,
			Timeout:     30 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 3
			},
		}),
	}, nil
}

func (g *GeminiModel) Generate(ctx context.Context, req Request) (*Reply, error) {
	contents, err := toContents(req.Messages)
	if err != nil {
		return nil, err
	}

	cfg := &genai.GenerateContentConfig{}
	if req.System != "" {
		cfg.SystemInstruction = genai.NewContentFromText(req.System, genai.RoleUser)
	}
	if len(req.Tools) > 0 {
		cfg.Tools = []*genai.Tool{{FunctionDeclarations: toDeclarations(req.Tools)}}
	}
	if req.JSON {
		cfg.ResponseMIMEType = "application/json"
	}

	resp, err := g.breaker.Execute(func() (*genai.GenerateContentResponse, error) {
		return g.client.Models.GenerateContent(ctx, g.model, contents, cfg)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if err != nil {
		return nil, fmt.Errorf("GenAI generate failed: %w", err)
	}

	reply := &Reply{Text: resp.Text()}
	for _, fc := range resp.FunctionCalls() {
		reply.Calls = append(reply.Calls, ToolCall{ID: fc.ID, Name: fc.Name, Args: fc.Args})
	}
	return reply, nil
}

func toDeclarations(specs []ToolSpec) []*genai.FunctionDeclaration {
	out := make([]*genai.FunctionDeclaration, 0, len(specs))
	for _, s := range specs {
		decl := &genai.FunctionDeclaration{Name: s.Name, Description: s.Description}
		if len(s.Params) > 0 {
			props := make(map[string]*genai.Schema, len(s.Params))
			for name, desc := range s.Params {
				props[name] = &genai.Schema{Type: genai.TypeString, Description: desc}
			}
			decl.Parameters = &genai.Schema{
				Type:       genai.TypeObject,
				Properties: props,
				Required:   s.Required,
			}
		}
		out = append(out, decl)
	}
	return out
}

func toContents(msgs []Message) ([]*genai.Content, error) {
	out := make([]*genai.Content, 0, len(msgs))
	for _, m := range msgs {
		var parts []*genai.Part
		if m.Text != "" {
			parts = append(parts, genai.NewPartFromText(m.Text))
		}
		for _, c := range m.Calls {
			parts = append(parts, &genai.Part{FunctionCall: &genai.FunctionCall{ID: c.ID, Name: c.Name, Args: c.Args}})
		}
		for _, r := range m.Results {
			response, err := asObject(r.Output)
			if err != nil {
				return nil, fmt.Errorf("encode %s result: %w", r.Name, err)
			}
			part := genai.NewPartFromFunctionResponse(r.Name, response)
			part.FunctionResponse.ID = r.ID
			parts = append(parts, part)
		}
		role := genai.RoleUser
		if m.Role == RoleModel {
			role = genai.RoleModel
		}
		out = append(out, genai.NewContentFromParts(parts, role))
	}
	return out, nil
}

// asObject turns any JSON encodable value into the map form the API wants
// for function responses.
func asObject(v any) (map[string]any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var generic any
	if err := json.Unmarshal(data, &generic); err != nil {
		return nil, err
	}
	if obj, ok := generic.(map[string]any); ok {
		return obj, nil
	}
	return map[string]any{"result": generic}, nil
}
