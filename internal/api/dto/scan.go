package dto

// ScanRequest is the body of both /scan and /delete.
type ScanRequest struct {
	AWBID string `json:"awb_id"`
}

type ScanResponse struct {
	Success bool          `json:"success"`
	Status  string        `json:"status"`
	Already bool          `json:"already,omitempty"`
	Confirm bool          `json:"confirm,omitempty"`
	Message string        `json:"message,omitempty"`
	Stats   StatsResponse `json:"stats"`
}

type DeleteResponse struct {
	Success bool          `json:"success"`
	Removed int           `json:"removed"`
	Message string        `json:"message,omitempty"`
	Stats   StatsResponse `json:"stats"`
}
