package domain

// WorkflowProfile names the status vocabulary of one deployment.
// Initial is forced onto every record at load time, Success is the result
// of a matched scan, Failure is recorded for synthesized rows. The two
// vocabularies are distinct workflow configurations, never mixed within
// one ledger.
type WorkflowProfile struct {
	Name    string
	Initial Status
	Success Status
	Failure Status
}

var (
	// WarehouseProfile is the packing-floor workflow: records start Pending,
	// a matched scan marks them Packed, an unmatched scan is recorded as
	// Cancelled.
	WarehouseProfile = WorkflowProfile{
		Name:    "warehouse",
		Initial: StatusPending,
		Success: StatusPacked,
		Failure: StatusCancelled,
	}

	// DispatchProfile is the outbound workflow for already-packed manifests:
	// records start Packed, a scan moves them to In Transit, and Delivered
	// closes them out.
	DispatchProfile = WorkflowProfile{
		Name:    "dispatch",
		Initial: StatusPacked,
		Success: StatusInTransit,
		Failure: StatusDelivered,
	}
)

// ProfileByName resolves a deployment profile; unrecognized names fall back
// to the warehouse workflow.
func ProfileByName(name string) WorkflowProfile {
	if name == DispatchProfile.Name {
		return DispatchProfile
	}
	return WarehouseProfile
}

// Terminal reports whether a status cannot be reopened by a later scan.
func (p WorkflowProfile) Terminal(s Status) bool {
	return s == p.Success || s == p.Failure
}
