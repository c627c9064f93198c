package tools

import (
	"context"
	"encoding/json"
	"time"
)

// RegisterUtilityTools adds the clock tool used by the research worker.
func RegisterUtilityTools(r *Registry) error {
	return r.Register(Definition{
		Name:        "current_time",
		Description: "Return the current local time in HH:MM:SS format.",
		InputSchema: json.RawMessage(`{"type": "object", "properties": {}}`),
		Handler: func(_ context.Context, _ map[string]any) (string, error) {
			return time.Now().Format("15:04:05"), nil
		},
	})
}
