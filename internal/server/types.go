package server

// UsageResponse describes how to call the export endpoint
type UsageResponse struct {
	Message     string `json:"message"`
	Endpoint    string `json:"endpoint"`
	Example     string `json:"example"`
	Description string `json:"description"`
}

var exportUsage = UsageResponse{
	Message:     "To export data, use the following endpoint format:",
	Endpoint:    "/export/queue_id/{queue_id}/annotation_id/{annotation_id}",
	Example:     "/export/queue_id/123/annotation_id/456",
	Description: "Replace {queue_id} and {annotation_id} with appropriate integer values.",
}

// ErrorResponse is returned when a request is rejected before any export runs
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// ValidationDetail names one path parameter that failed to parse
type ValidationDetail struct {
	Type  string   `json:"type"`
	Loc   []string `json:"loc"`
	Msg   string   `json:"msg"`
	Input string   `json:"input"`
}

// ValidationResponse is the 422 body for malformed path parameters
type ValidationResponse struct {
	Detail []ValidationDetail `json:"detail"`
}
