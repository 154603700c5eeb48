package billing

import "strings"

// Block is one unit of scanned text; Index is the 1-based page number it
// came from.
type Block struct {
	Index int
	Text  string
}

// PendingBuffer holds category codes seen before the trademark block they
// belong to. One buffer exists per Associator.Scan call.
type PendingBuffer struct {
	codes []string
}

// Push appends codes in order.
func (b *PendingBuffer) Push(codes ...string) {
	b.codes = append(b.codes, codes...)
}

// Len returns the number of buffered codes.
func (b *PendingBuffer) Len() int {
	return len(b.codes)
}

// Drain returns the buffered codes and empties the buffer.
func (b *PendingBuffer) Drain() []string {
	codes := b.codes
	b.codes = nil
	return codes
}

// Association is the outcome of scanning one document's blocks.
type Association struct {
	Pairs []TrademarkCategoryPair
	// FilingDate is the last date found in a named power-of-attorney block.
	FilingDate Field
	// CategoriesSeen counts every code pushed into the buffer.
	CategoriesSeen int
	// Discarded lists codes dropped without being attached to a trademark.
	Discarded   []string
	Diagnostics []Diagnostic
}

// ResolvedCount returns the number of pairs carrying a class code.
func (a Association) ResolvedCount() int {
	n := 0
	for _, p := range a.Pairs {
		if !p.Category.IsManual() {
			n++
		}
	}
	return n
}

// Associator pairs category codes with the trademark named in the
// power-of-attorney block that follows them.
type Associator struct {
	patterns *Patterns
	fields   *FieldExtractor
}

// NewAssociator creates an associator; nil patterns selects DefaultPatterns.
func NewAssociator(patterns *Patterns) *Associator {
	if patterns == nil {
		patterns = DefaultPatterns()
	}
	return &Associator{patterns: patterns, fields: NewFieldExtractor(patterns)}
}

// Scan walks blocks once, in order. Category blocks fill the pending
// buffer; each power-of-attorney block flushes it onto the trademark it
// names. Codes still pending at the end are discarded with a warning.
func (a *Associator) Scan(document string, blocks []Block) Association {
	var (
		res     = Association{FilingDate: Missing()}
		pending PendingBuffer
	)

	for _, blk := range blocks {
		if codes := a.patterns.FindCategories(blk.Text); len(codes) > 0 {
			pending.Push(codes...)
			res.CategoriesSeen += len(codes)
			continue
		}

		if !a.patterns.IsAttorneyBlock(blk.Text) {
			continue
		}

		name, ok := a.patterns.TrademarkName.Match(blk.Text)
		if !ok {
			dropped := pending.Drain()
			res.Discarded = append(res.Discarded, dropped...)
			d := warning(KindNameExtractionFailure, document, blk.Index,
				"no trademark name found in power-of-attorney block")
			if len(dropped) > 0 {
				d.Message += "; discarded pending categories " + strings.Join(dropped, ", ")
				d.Codes = dropped
			}
			res.Diagnostics = append(res.Diagnostics, d)
			continue
		}

		if date := a.fields.FilingDate(blk.Text); !date.IsMissing() {
			res.FilingDate = date
		}

		if pending.Len() == 0 {
			res.Pairs = append(res.Pairs, TrademarkCategoryPair{Trademark: name, Category: ManualInput()})
			res.Diagnostics = append(res.Diagnostics, info(KindAssociationGap, document, blk.Index,
				"trademark %q has no associated category and needs manual input", name))
			continue
		}

		for _, code := range pending.Drain() {
			res.Pairs = append(res.Pairs, TrademarkCategoryPair{Trademark: name, Category: ClassCode(code)})
		}
	}

	if pending.Len() > 0 {
		left := pending.Drain()
		res.Discarded = append(res.Discarded, left...)
		d := warning(KindAssociationGap, document, 0,
			"categories %s were never associated with a trademark and are discarded", strings.Join(left, ", "))
		d.Codes = left
		res.Diagnostics = append(res.Diagnostics, d)
	}

	return res
}
