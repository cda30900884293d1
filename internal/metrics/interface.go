package metrics

// Record holds the scalars reported for one training iteration.
// Field order matches the serialized key order of the metrics file.
type Record struct {
	Iteration   int     `json:"iteration"`
	Level       string  `json:"level"`
	MeanReturn  float64 `json:"mean_return"`
	StdReturn   float64 `json:"std_return"`
	PolicyLoss  float64 `json:"policy_loss"`
	ValueLoss   float64 `json:"value_loss"`
	ElapsedTime float64 `json:"elapsed_time"`
}

// Recorder accumulates per-iteration records for one training run and
// keeps the metrics file on disk in sync with the in-memory log.
type Recorder interface {
	// LogIteration appends a record and immediately persists the full log.
	// A persist failure is returned to the caller; the record stays in memory.
	LogIteration(iteration int, level string, meanReturn, stdReturn, policyLoss, valueLoss, elapsedTime float64) error

	// Persist rewrites the metrics file from the current in-memory log.
	Persist() error

	// Records returns a copy of the in-memory log in append order.
	Records() []Record

	// Len returns the number of records in the in-memory log.
	Len() int
}
