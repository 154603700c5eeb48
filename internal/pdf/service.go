package pdf

import (
	"context"
	"fmt"

	"github.com/a3tai/mcp-trademark-billing/internal/pdf/security"
)

// Service handles packet file operations by orchestrating the reader,
// validator and search components behind the directory guard
type Service struct {
	maxFileSize   int64
	reader        *Reader
	validator     *Validator
	search        *Search
	pathValidator *security.PathValidator
}

// NewService creates a new PDF service with all components
func NewService(maxFileSize int64, configuredDirectory string) (*Service, error) {
	pathValidator, err := security.NewPathValidator(configuredDirectory)
	if err != nil {
		return nil, fmt.Errorf("failed to create path validator: %w", err)
	}

	return &Service{
		maxFileSize:   maxFileSize,
		reader:        NewReader(maxFileSize),
		validator:     NewValidator(maxFileSize),
		search:        NewSearch(maxFileSize),
		pathValidator: pathValidator,
	}, nil
}

// PageTexts returns the text of every page of a packet inside the
// configured directory
func (s *Service) PageTexts(ctx context.Context, path string) ([]string, error) {
	if err := s.pathValidator.ValidatePath(path); err != nil {
		return nil, fmt.Errorf("security validation failed: %w", err)
	}
	return s.reader.PageTexts(ctx, path)
}

// ValidateFile performs validation on a PDF file
func (s *Service) ValidateFile(req ValidateFileRequest) (*ValidateFileResult, error) {
	if err := s.pathValidator.ValidatePath(req.Path); err != nil {
		return nil, fmt.Errorf("security validation failed: %w", err)
	}
	return s.validator.ValidateFile(req)
}

// ListPackets lists PDF packets in a directory, defaulting to the configured one
func (s *Service) ListPackets(req ListPacketsRequest) (*ListPacketsResult, error) {
	if req.Directory == "" {
		req.Directory = s.pathValidator.GetConfiguredDirectory()
	}

	if err := s.pathValidator.ValidateDirectory(req.Directory); err != nil {
		return nil, fmt.Errorf("security validation failed: %w", err)
	}

	return s.search.ListPackets(req)
}

// PacketPaths returns the path of every packet in a directory, defaulting
// to the configured one
func (s *Service) PacketPaths(directory string) ([]string, error) {
	result, err := s.ListPackets(ListPacketsRequest{Directory: directory})
	if err != nil {
		return nil, err
	}

	paths := make([]string, 0, len(result.Files))
	for _, f := range result.Files {
		paths = append(paths, f.Path)
	}
	return paths, nil
}

// IsValidPDF performs a quick validation check on a file
func (s *Service) IsValidPDF(filePath string) bool {
	return s.validator.IsValidPDF(filePath)
}

// ConfiguredDirectory returns the directory packets are confined to
func (s *Service) ConfiguredDirectory() string {
	return s.pathValidator.GetConfiguredDirectory()
}

// GetMaxFileSize returns the maximum file size limit
func (s *Service) GetMaxFileSize() int64 {
	return s.maxFileSize
}
