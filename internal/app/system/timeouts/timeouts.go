// Package timeouts centralizes context timeouts for handler operations.
//
// Guidelines:
//   - Ping: health checks and connectivity verification
//   - Short: single-document reads and writes
//   - Medium: list aggregations and multi-step reads
//   - Long: cascading deletes and uploads touching multiple collections
package timeouts

import "time"

const (
	Ping   = 2 * time.Second
	Short  = 5 * time.Second
	Medium = 10 * time.Second
	Long   = 30 * time.Second
)
