package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
)

const numberPairSchema = `{
	"type": "object",
	"properties": {
		"a": {"type": "number", "description": "First operand"},
		"b": {"type": "number", "description": "Second operand"}
	},
	"required": ["a", "b"]
}`

// RegisterMathTools adds the arithmetic tools used by the math worker.
func RegisterMathTools(r *Registry) error {
	defs := []Definition{
		{
			Name:        "add",
			Description: "Add two numbers and return the sum.",
			InputSchema: json.RawMessage(numberPairSchema),
			Handler:     addHandler,
		},
		{
			Name:        "multiply",
			Description: "Multiply two numbers and return the product.",
			InputSchema: json.RawMessage(numberPairSchema),
			Handler:     multiplyHandler,
		},
		{
			Name:        "divide",
			Description: "Divide the first number by the second and return the quotient.",
			InputSchema: json.RawMessage(numberPairSchema),
			Handler:     divideHandler,
		},
	}
	for _, def := range defs {
		if err := r.Register(def); err != nil {
			return err
		}
	}
	return nil
}

func addHandler(_ context.Context, args map[string]any) (string, error) {
	a, b, err := numberPair(args)
	if err != nil {
		return "", err
	}
	return formatNumber(a + b), nil
}

func multiplyHandler(_ context.Context, args map[string]any) (string, error) {
	a, b, err := numberPair(args)
	if err != nil {
		return "", err
	}
	return formatNumber(a * b), nil
}

func divideHandler(_ context.Context, args map[string]any) (string, error) {
	a, b, err := numberPair(args)
	if err != nil {
		return "", err
	}
	if b == 0 {
		return "", newToolError(ErrorCodeInvalidArgs, "division by zero")
	}
	return formatNumber(a / b), nil
}

func numberPair(args map[string]any) (float64, float64, error) {
	a, err := argFloat(args, "a")
	if err != nil {
		return 0, 0, err
	}
	b, err := argFloat(args, "b")
	if err != nil {
		return 0, 0, err
	}
	return a, b, nil
}

func argFloat(args map[string]any, key string) (float64, error) {
	raw, ok := args[key]
	if !ok {
		return 0, newToolError(ErrorCodeInvalidArgs, fmt.Sprintf("missing argument %q", key))
	}
	switch v := raw.(type) {
	case float64:
		return v, nil
	case int:
		return float64(v), nil
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return 0, newToolError(ErrorCodeInvalidArgs, fmt.Sprintf("argument %q is not a number", key))
		}
		return f, nil
	case string:
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0, newToolError(ErrorCodeInvalidArgs, fmt.Sprintf("argument %q is not a number", key))
		}
		return f, nil
	default:
		return 0, newToolError(ErrorCodeInvalidArgs, fmt.Sprintf("argument %q is not a number", key))
	}
}

// formatNumber rounds to 12 significant digits so binary float noise does not
// leak into answers (3*99.8 prints as 299.4, not 299.40000000000003).
func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'g', 12, 64)
}
