package model

// Usage is the aggregate storage accounting over a snapshot of all records.
type Usage struct {
	Documents  int    `json:"documents"`
	TotalBytes int64  `json:"total_bytes"`
	UsageMB    string `json:"usage_mb"`
	NearLimit  bool   `json:"near_limit"`
}
