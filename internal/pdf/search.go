package pdf

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Search discovers application packets under a directory
type Search struct {
	maxFileSize int64
}

// NewSearch creates a new packet search handler with the specified constraints
func NewSearch(maxFileSize int64) *Search {
	return &Search{maxFileSize: maxFileSize}
}

// ListPackets walks the directory and returns every PDF whose name matches
// the optional query. Files are returned in lexical path order so a batch
// built from the listing is reproducible.
func (s *Search) ListPackets(req ListPacketsRequest) (*ListPacketsResult, error) {
	if req.Directory == "" {
		return nil, fmt.Errorf("directory cannot be empty")
	}

	if _, err := os.Stat(req.Directory); os.IsNotExist(err) {
		return nil, fmt.Errorf("directory does not exist: %s", req.Directory)
	}

	absDirectory, err := filepath.Abs(req.Directory)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve directory path: %w", err)
	}

	query := strings.ToLower(strings.TrimSpace(req.Query))
	files := []FileInfo{}

	err = filepath.WalkDir(absDirectory, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			// Continue walking even if we encounter an error with a specific file
			return nil
		}

		if d.IsDir() {
			if strings.HasPrefix(d.Name(), ".") && path != absDirectory {
				return filepath.SkipDir
			}
			return nil
		}

		// Symlinks may point outside the directory
		if d.Type()&os.ModeSymlink != 0 {
			return nil
		}

		if !isPDFFile(d.Name()) || !matchesQuery(d.Name(), query) {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return nil
		}

		// Quick validation without opening the file
		if err := checkFileInfo(path, info, s.maxFileSize); err != nil {
			return nil
		}

		files = append(files, FileInfo{
			Path:         path,
			Name:         info.Name(),
			Size:         info.Size(),
			ModifiedTime: info.ModTime().Format("2006-01-02 15:04:05"),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error walking directory: %w", err)
	}

	return &ListPacketsResult{
		Files:       files,
		TotalCount:  len(files),
		Directory:   absDirectory,
		SearchQuery: req.Query,
	}, nil
}

// matchesQuery reports whether every word of the query appears in the file name
func matchesQuery(filename, query string) bool {
	if query == "" {
		return true
	}

	name := strings.TrimSuffix(strings.ToLower(filename), ".pdf")
	if strings.Contains(name, query) {
		return true
	}

	words := splitIntoWords(name)
	for _, queryWord := range splitIntoWords(query) {
		found := false
		for _, word := range words {
			if strings.Contains(word, queryWord) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	return true
}

// splitIntoWords splits a string into words using common file name separators
func splitIntoWords(text string) []string {
	return strings.FieldsFunc(text, func(r rune) bool {
		switch r {
		case ' ', '_', '-', '.', '(', ')', '[', ']', '（', '）':
			return true
		}
		return false
	})
}
