package run

// Figure records one rendered chart of a run.
type Figure struct {
	Section string `json:"section"`
	Column  string `json:"column,omitempty"`
	Kind    string `json:"kind"`
	Title   string `json:"title"`
	File    string `json:"file"`
}
