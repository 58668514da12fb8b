package live

// Event names carried by an Update.
const (
	EventStart        = "start"
	EventBall         = "ball"
	EventInningsBreak = "innings_break"
	EventMatchEnd     = "match_end"
	EventReset        = "reset"
	EventCancelled    = "cancelled"
)

// Update is the incremental message fanned out after a state change. It holds
// only the latest delta; clients fetch history through the read API.
type Update struct {
	MatchID       uint    `json:"match_id"`
	Event         string  `json:"event"`
	Status        string  `json:"status"`
	InningsNumber int     `json:"innings_number,omitempty"`
	Score         string  `json:"score,omitempty"`
	Overs         float64 `json:"overs"`
	Runs          int     `json:"runs,omitempty"`
	ExtraType     string  `json:"extra_type,omitempty"`
	ExtraRuns     int     `json:"extra_runs,omitempty"`
	IsWicket      bool    `json:"is_wicket,omitempty"`
	IsFour        bool    `json:"is_four,omitempty"`
	IsSix         bool    `json:"is_six,omitempty"`
	Commentary    string  `json:"commentary,omitempty"`
	Timestamp     int64   `json:"timestamp"`
}
