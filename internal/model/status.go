package model

// StatusResponse mirrors the upstream status.php document. Only the games
// lists are consumed; the rest is decoded for completeness and ignored.
type StatusResponse struct {
	Incidents   []Incident   `json:"incidents"`
	LoadHistory []float64    `json:"loadHistory"`
	Status      []NodeStatus `json:"status"`
}

// NodeStatus is one hosting node's report, including its per-game entries.
type NodeStatus struct {
	AvgPing    float64      `json:"avgPing"`
	AvgReceive float64      `json:"avgReceive"`
	AvgTick    float64      `json:"avgTick"`
	CPU        float64      `json:"cpu"`
	ErrorRate  float64      `json:"errorRate"`
	HighLoad   bool         `json:"highLoad"`
	IsDefault  bool         `json:"isDefault"`
	IsProxy    bool         `json:"isProxy"`
	Locked     bool         `json:"locked"`
	Games      []GameStatus `json:"games"`
}

// GameStatus is one game's live counters as reported by a node.
// ID 0 is the upstream's "(other)" sentinel and is filtered out.
type GameStatus struct {
	ID          GameID `json:"id"`
	Title       string `json:"title"`
	Connected   int    `json:"connected"`
	HighLoad    int    `json:"highLoad"`
	LoggedIn    int    `json:"loggedIn"`
	NumSessions int    `json:"numSessions"`
}

// Incident is an upstream incident report.
type Incident struct {
	Title   string        `json:"title"`
	Started string        `json:"started"`
	Closed  string        `json:"closed"`
	Logs    []IncidentLog `json:"logs"`
}

// IncidentLog is one log line attached to an incident.
type IncidentLog struct {
	LoggedAt string `json:"loggedAt"`
	Severity string `json:"severity"`
}
