package traffic

// Counters tallies vehicle movements during one or more ticks.
type Counters struct {
	Generated     int `json:"generated"`
	Exited        int `json:"exited"`
	Transferred   int `json:"transferred"`
	Backpressured int `json:"backpressured"`
	Absorbed      int `json:"absorbed"`
	Emitted       int `json:"emitted"`
}

// Add accumulates o into c.
func (c *Counters) Add(o Counters) {
	c.Generated += o.Generated
	c.Exited += o.Exited
	c.Transferred += o.Transferred
	c.Backpressured += o.Backpressured
	c.Absorbed += o.Absorbed
	c.Emitted += o.Emitted
}

// Stats summarizes the run so far.
type Stats struct {
	Ticks    uint64   `json:"ticks"`
	Hour     int      `json:"hour"`
	Vehicles int      `json:"vehicles"`
	Parked   int      `json:"parked"`
	Last     Counters `json:"last"`
	Total    Counters `json:"total"`
}
