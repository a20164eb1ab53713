package telemetry

import (
	"context"

	"github.com/petasbytes/memagent/internal/metrics"
)

// EmitTurnFeatures records basic text features of a completed exchange.
// Raw text never enters the event stream, only counts.
func EmitTurnFeatures(ctx context.Context, user, agent string) {
	if !ObserveEnabled() {
		return
	}
	turnID, _ := TurnIDFromContext(ctx)
	Emit("local_features", map[string]any{
		"turn_id":          turnID,
		"features_version": "1",
		"user":             metrics.CountFeatures(user),
		"agent":            metrics.CountFeatures(agent),
	})
}
