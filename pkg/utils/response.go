package utils

// ResponseData is the standard REST response envelope
type ResponseData struct {
	Status  int    `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Results any    `json:"results"`
}

// TruncateString shortens s to maxLen bytes, appending "..." when cut
func TruncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
