package model

// PlayerID uniquely identifies a player across the system
type PlayerID string

// Player represents a participant at the table.
// ID and Name are assigned at registration and immutable afterwards.
// History is ordered newest-first and capped by the ledger retention cap.
type Player struct {
	ID      PlayerID      `json:"id"`
	Name    string        `json:"name"`
	Balance int64         `json:"balance"`
	History []Transaction `json:"history"`
}

// FindPlayer returns a pointer into players for the given id, or nil if absent
func FindPlayer(players []Player, id PlayerID) *Player {
	for i := range players {
		if players[i].ID == id {
			return &players[i]
		}
	}
	return nil
}

// ClonePlayers returns a deep copy of the player list.
// The ledger engine returns fresh slices so callers never observe
// partially applied transformations.
func ClonePlayers(players []Player) []Player {
	out := make([]Player, len(players))
	for i, p := range players {
		out[i] = p
		out[i].History = make([]Transaction, len(p.History))
		copy(out[i].History, p.History)
	}
	return out
}
