package billing

import (
	"context"
	"fmt"
	"io"
	"log"
	"runtime"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// PageSource loads the page text of one document, in page order. Pages
// without extractable text are returned as empty strings.
type PageSource interface {
	PageTexts(ctx context.Context, path string) ([]string, error)
}

// ProcessorConfig configures a Processor.
type ProcessorConfig struct {
	// Workers bounds how many documents are scanned at once; zero selects
	// half the available CPUs.
	Workers int
	Options Options
	Logger  *log.Logger
}

// Processor scans a batch of documents in parallel and merges the results
// per applicant.
type Processor struct {
	source    PageSource
	extractor *Extractor
	workers   int
	logger    *log.Logger
}

// BatchResult is the outcome of one processing run.
type BatchResult struct {
	RunID       string            `json:"run_id"`
	Records     []ApplicantRecord `json:"records"`
	Skipped     []ApplicantRecord `json:"skipped,omitempty"`
	Documents   []DocumentRecord  `json:"documents"`
	Failed      []string          `json:"failed,omitempty"`
	Diagnostics []Diagnostic      `json:"diagnostics"`
}

// NewProcessor creates a processor. source may be nil when only
// ProcessDocuments is used.
func NewProcessor(source PageSource, cfg ProcessorConfig) *Processor {
	workers := cfg.Workers
	if workers <= 0 {
		workers = max(runtime.NumCPU()/2, 1)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Processor{
		source:    source,
		extractor: NewExtractor(cfg.Options),
		workers:   workers,
		logger:    logger,
	}
}

// ProcessFiles loads each path through the page source and processes the
// batch. A document that cannot be read is reported and skipped.
func (p *Processor) ProcessFiles(ctx context.Context, paths []string) (*BatchResult, error) {
	if p.source == nil {
		return nil, fmt.Errorf("processor has no page source")
	}
	return p.run(ctx, len(paths), func(ctx context.Context, i int) (Document, error) {
		pages, err := p.source.PageTexts(ctx, paths[i])
		return Document{ID: paths[i], Pages: pages}, err
	})
}

// ProcessDocuments processes documents whose page text is already known.
func (p *Processor) ProcessDocuments(ctx context.Context, docs []Document) (*BatchResult, error) {
	return p.run(ctx, len(docs), func(_ context.Context, i int) (Document, error) {
		return docs[i], nil
	})
}

type outcome struct {
	id  string
	rec DocumentRecord
	err error
}

func (p *Processor) run(ctx context.Context, n int,
	load func(context.Context, int) (Document, error),
) (*BatchResult, error) {
	if n == 0 {
		return nil, ErrEmptyBatch
	}

	slots := make([]outcome, n)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)
	for i := range n {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			doc, err := load(gctx, i)
			if err != nil {
				slots[i] = outcome{id: doc.ID, err: err}
				return nil
			}
			rec, err := p.extractor.ExtractDocument(doc)
			slots[i] = outcome{id: doc.ID, rec: rec, err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("batch interrupted: %w", err)
	}

	result := &BatchResult{RunID: uuid.NewString()}
	for _, o := range slots {
		if o.err != nil {
			result.Failed = append(result.Failed, o.id)
			result.Diagnostics = append(result.Diagnostics, Diagnostic{
				Severity: SeverityError,
				Kind:     KindDocumentUnreadable,
				Document: o.id,
				Message:  fmt.Sprintf("failed to extract document: %v", o.err),
			})
			continue
		}
		result.Documents = append(result.Documents, o.rec)
		result.Diagnostics = append(result.Diagnostics, o.rec.Diagnostics...)
	}

	assembly := Assemble(result.Documents)
	result.Records = assembly.Records
	result.Skipped = assembly.Skipped
	result.Diagnostics = append(result.Diagnostics, assembly.Diagnostics...)

	for _, d := range result.Diagnostics {
		p.logger.Print(d.String())
	}
	p.logger.Printf("run %s: %d documents, %d applicants billed, %d skipped, %d failed",
		result.RunID, n, len(result.Records), len(result.Skipped), len(result.Failed))

	return result, nil
}
