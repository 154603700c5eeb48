package pdf

// FileInfo represents information about a PDF packet on disk
type FileInfo struct {
	Path         string `json:"path"`
	Name         string `json:"name"`
	Size         int64  `json:"size"`
	ModifiedTime string `json:"modified_time"`
}

// Request Types

// ValidateFileRequest represents a request to validate a PDF file
type ValidateFileRequest struct {
	Path string `json:"path"`
}

// ListPacketsRequest represents a request to list PDF packets in a directory
type ListPacketsRequest struct {
	Directory string `json:"directory"`
	Query     string `json:"query"`
}

// Response Types

// ValidateFileResult represents the result of a PDF validation operation
type ValidateFileResult struct {
	Valid   bool   `json:"valid"`
	Path    string `json:"path"`
	Pages   int    `json:"pages,omitempty"`
	Message string `json:"message,omitempty"`
}

// ListPacketsResult represents the PDF packets found in a directory
type ListPacketsResult struct {
	Files       []FileInfo `json:"files"`
	TotalCount  int        `json:"total_count"`
	Directory   string     `json:"directory"`
	SearchQuery string     `json:"search_query,omitempty"`
}
