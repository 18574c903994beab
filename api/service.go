package api

import "github.com/amonks/timeclock/tracker"

var (
	_ tracker.Service = (*Client)(nil)
	_ tracker.Source  = (*Client)(nil)
)
