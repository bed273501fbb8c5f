package platform

import (
	"mgzdb/core/utils"
)

// MatchFromPayload converts a decoded JSON match object. Platform APIs and
// archive metadata files disagree on key names and value types, so both
// spellings are accepted.
func MatchFromPayload(payload map[string]any) Match {
	m := Match{
		ID:        utils.ToString(first(payload, "match_id", "id")),
		Timestamp: utils.ToTimePtr(payload["timestamp"]),
		Ladder:    utils.ToString(payload["ladder"]),
		Rated:     utils.ToBoolPtr(payload["rated"]),
	}
	if players, ok := payload["players"].([]any); ok {
		for _, raw := range players {
			if p, ok := raw.(map[string]any); ok {
				m.Players = append(m.Players, PlayerFromPayload(p))
			}
		}
	}
	return m
}

// PlayerFromPayload converts a decoded JSON player object.
func PlayerFromPayload(p map[string]any) Player {
	return Player{
		ColorID:      utils.ToInt(p["color_id"]),
		UserID:       utils.ToString(first(p, "user_id", "id")),
		Name:         utils.ToString(first(p, "name", "username")),
		Clan:         utils.ToString(p["clan"]),
		RateBefore:   utils.ToFloatPtr(p["rate_before"]),
		RateAfter:    utils.ToFloatPtr(p["rate_after"]),
		RateSnapshot: utils.ToFloatPtr(p["rate_snapshot"]),
		URL:          utils.ToString(p["url"]),
	}
}

func first(m map[string]any, keys ...string) any {
	for _, k := range keys {
		if v, ok := m[k]; ok && v != nil {
			return v
		}
	}
	return nil
}
