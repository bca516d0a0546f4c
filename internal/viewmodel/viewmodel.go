package viewmodel

// HomePage holds data for the landing page.
type HomePage struct {
	Title      string
	APIBaseURL string
	BoardSize  int
	Error      string
}

// BoardPage holds data for the main board page template.
type BoardPage struct {
	Title     string
	GameID    string
	ClickURL  string
	StreamURL string
	Board     BoardFragment
	Status    StatusFragment
}

// BoardFragment is the drawing surface rendered as SVG.
type BoardFragment struct {
	GameID     string
	Dim        float64
	Background string
	Lines      []Line
	Circles    []Circle
}

// Line is one grid line.
type Line struct {
	X1, Y1, X2, Y2 float64
	Stroke         string
}

// Circle is one stone or suggestion.
type Circle struct {
	CX, CY, R float64
	Fill      string
}

// StatusFragment holds the turn and notice panel.
type StatusFragment struct {
	GameID  string
	State   string
	Color   string
	Stones  int
	Over    bool
	Pending bool
	Notice  string
}

// ClickResult is the JSON reply to a board click.
type ClickResult struct {
	Accepted bool   `json:"accepted"`
	Over     bool   `json:"over"`
	Message  string `json:"message,omitempty"`
	Position [2]int `json:"position"`
}
