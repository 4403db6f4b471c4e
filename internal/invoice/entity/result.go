package entity

// ParsedRow is one decoded data row keyed by header name.
type ParsedRow map[string]string

// AggregationResult is the total computed by one aggregation run.
type AggregationResult struct {
	RunID    int64
	FileName string
	Column   string
	Total    float64
	Display  string

	// Stats describe the run without keeping any rows around.
	Rows        int64
	Coerced     int64
	ColumnFound bool
}
