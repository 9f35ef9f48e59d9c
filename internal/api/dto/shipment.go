package dto

type ShipmentResponse struct {
	OrderID     string `json:"order_id"`
	AWBID       string `json:"awb_id"`
	Courier     string `json:"courier"`
	SKU         string `json:"sku"`
	Qty         int    `json:"qty"`
	Status      string `json:"status"`
	ScannedTime string `json:"scanned_time,omitempty"`
}

type ListShipmentsResponse struct {
	Shipments []ShipmentResponse `json:"shipments"`
}

type StatsResponse struct {
	Total     int `json:"total"`
	Packed    int `json:"packed"`
	Pending   int `json:"pending"`
	Cancelled int `json:"cancelled"`
}

type UploadResponse struct {
	Success    bool          `json:"success"`
	Message    string        `json:"message"`
	ManifestID string        `json:"manifest_id"`
	Stats      StatsResponse `json:"stats"`
}
