package domain

// Aggregate ledger counts. Slot meaning follows the deployment profile:
// Packed counts successful scans, Pending the initial status, Cancelled the
// failure status (In Transit / Packed / Delivered under the dispatch
// vocabulary). Total always equals the ledger length.
type Stats struct {
	Total     int
	Packed    int
	Pending   int
	Cancelled int
}

// CountStats tallies the ledger in a single pass. Pure; the caller holds
// whatever lock guards rows.
func CountStats(rows []Shipment, p WorkflowProfile) Stats {
	st := Stats{Total: len(rows)}
	for _, r := range rows {
		switch r.Status {
		case p.Success:
			st.Packed++
		case p.Failure:
			st.Cancelled++
		default:
			st.Pending++
		}
	}
	return st
}
