package sync

// ItemResult records the outcome for one item of a batch sync run.
type ItemResult struct {
	Key   string `json:"key"`
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// Report accumulates per-item results; a failure on one item never
// aborts the rest of the batch.
type Report struct {
	Succeeded int          `json:"succeeded"`
	Failed    int          `json:"failed"`
	Items     []ItemResult `json:"items"`
}

func (r *Report) Success(key string) {
	r.Succeeded++
	r.Items = append(r.Items, ItemResult{Key: key, OK: true})
}

func (r *Report) Failure(key string, err error) {
	r.Failed++
	r.Items = append(r.Items, ItemResult{Key: key, OK: false, Error: err.Error()})
}
