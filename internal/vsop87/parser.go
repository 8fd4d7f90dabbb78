// Package vsop87 decodes the fixed-column VSOP87D coefficient files.
//
// A file is a sequence of series blocks. Each block starts with a header line
// naming the variable (L, B or R), the power of tau and the number of term
// lines that follow. Columns are 0-based offsets into the line:
//
//	header: variable [41,1]  power [59,1]  count [60,7]
//	term:   A [79,18]        B [97,14]     C [111,20]
package vsop87

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"go.ngs.io/vsop87-api/internal/domain"
)

// Column locates a field inside a line.
type Column struct {
	Name   string
	Offset int
	Length int
}

// Header columns.
var (
	BodyColumn     = Column{Name: "body", Offset: 22, Length: 7}
	VariableColumn = Column{Name: "variable", Offset: 41, Length: 1}
	PowerColumn    = Column{Name: "power", Offset: 59, Length: 1}
	CountColumn    = Column{Name: "count", Offset: 60, Length: 7}
)

// Term columns.
var (
	AColumn = Column{Name: "A", Offset: 79, Length: 18}
	BColumn = Column{Name: "B", Offset: 97, Length: 14}
	CColumn = Column{Name: "C", Offset: 111, Length: 20}
)

var (
	// ErrLineTooShort reports a line that ends before a required column.
	ErrLineTooShort = errors.New("line too short")
	// ErrOutOfRange reports a header value outside its enumerated range.
	ErrOutOfRange = errors.New("out of range")
	// ErrBlankLine reports a blank line followed by more data.
	ErrBlankLine = errors.New("blank line before end of stream")
)

// maxPrealloc caps the term capacity reserved from a header's declared count.
const maxPrealloc = 4096

// FormatError reports a line that does not match the VSOP87D layout.
type FormatError struct {
	Line  int    // 1-based line number.
	Field string // Column name, or "term" for a missing term line.
	Value string // Offending column content, if any.
	Err   error
}

func (e *FormatError) Error() string {
	if e.Value != "" {
		return fmt.Sprintf("vsop87: line %d: invalid %s %q: %v", e.Line, e.Field, e.Value, e.Err)
	}
	return fmt.Sprintf("vsop87: line %d: invalid %s: %v", e.Line, e.Field, e.Err)
}

func (e *FormatError) Unwrap() error { return e.Err }

// Field returns the whitespace-trimmed substring of line at [offset, offset+length).
func Field(line string, offset, length int) (string, error) {
	end := offset + length
	if offset < 0 || length < 0 || len(line) < end {
		return "", fmt.Errorf("%w (%d < %d)", ErrLineTooShort, len(line), end)
	}
	return strings.TrimSpace(line[offset:end]), nil
}

// Header is the decoded header line of a series block.
type Header struct {
	Body     string
	Variable domain.Variable
	Power    int
	Count    int
}

// Block is one header and its terms, in source order.
type Block struct {
	Header
	Line  int // Line number of the header.
	Terms []domain.Term
}

// ParseHeader decodes a header line. lineNo is used only for error reporting.
func ParseHeader(line string, lineNo int) (Header, error) {
	var h Header

	// The body name is informational; a short line fails on the columns below.
	if body, err := Field(line, BodyColumn.Offset, BodyColumn.Length); err == nil {
		h.Body = body
	}

	v, err := intField(line, lineNo, VariableColumn, 1, domain.VariableCount)
	if err != nil {
		return h, err
	}
	h.Variable = domain.Variable(v)

	if h.Power, err = intField(line, lineNo, PowerColumn, 0, domain.MaxPower); err != nil {
		return h, err
	}
	if h.Count, err = intField(line, lineNo, CountColumn, 0, -1); err != nil {
		return h, err
	}

	return h, nil
}

// ParseTerm decodes a term line. lineNo is used only for error reporting.
func ParseTerm(line string, lineNo int) (domain.Term, error) {
	var t domain.Term
	var err error

	if t.A, err = floatField(line, lineNo, AColumn); err != nil {
		return t, err
	}
	if t.B, err = floatField(line, lineNo, BColumn); err != nil {
		return t, err
	}
	if t.C, err = floatField(line, lineNo, CColumn); err != nil {
		return t, err
	}
	return t, nil
}

// intField parses an integer column and checks it against [lo, hi].
// A negative hi leaves the range open above.
func intField(line string, lineNo int, col Column, lo, hi int) (int, error) {
	raw, err := Field(line, col.Offset, col.Length)
	if err != nil {
		return 0, &FormatError{Line: lineNo, Field: col.Name, Err: err}
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &FormatError{Line: lineNo, Field: col.Name, Value: raw, Err: numError(err)}
	}
	if v < lo || (hi >= 0 && v > hi) {
		bound := fmt.Errorf("%w [%d, %d]", ErrOutOfRange, lo, hi)
		if hi < 0 {
			bound = fmt.Errorf("%w [%d, ∞)", ErrOutOfRange, lo)
		}
		return 0, &FormatError{Line: lineNo, Field: col.Name, Value: raw, Err: bound}
	}
	return v, nil
}

func floatField(line string, lineNo int, col Column) (float64, error) {
	raw, err := Field(line, col.Offset, col.Length)
	if err != nil {
		return 0, &FormatError{Line: lineNo, Field: col.Name, Err: err}
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, &FormatError{Line: lineNo, Field: col.Name, Value: raw, Err: numError(err)}
	}
	return v, nil
}

// numError drops the strconv function prefix, which the FormatError already conveys.
func numError(err error) error {
	var ne *strconv.NumError
	if errors.As(err, &ne) {
		return ne.Err
	}
	return err
}

// Decoder reads series blocks from a VSOP87D stream.
type Decoder struct {
	scanner *bufio.Scanner
	line    int
}

// NewDecoder returns a decoder reading from r.
func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{scanner: bufio.NewScanner(r)}
}

// Next returns the next block, or io.EOF once the stream ends between blocks.
// Blank lines are accepted only at the end of the stream.
func (d *Decoder) Next() (*Block, error) {
	var headerLine string
	blank := 0 // First blank line since the previous block.
	for {
		line, ok, err := d.scan()
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, io.EOF
		}
		if strings.TrimSpace(line) == "" {
			if blank == 0 {
				blank = d.line
			}
			continue
		}
		if blank != 0 {
			return nil, &FormatError{Line: blank, Field: "header", Err: ErrBlankLine}
		}
		headerLine = line
		break
	}

	header, err := ParseHeader(headerLine, d.line)
	if err != nil {
		return nil, err
	}

	block := &Block{
		Header: header,
		Line:   d.line,
		Terms:  make([]domain.Term, 0, min(header.Count, maxPrealloc)),
	}

	for i := 0; i < header.Count; i++ {
		line, ok, err := d.scan()
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, &FormatError{
				Line:  d.line + 1,
				Field: "term",
				Err: fmt.Errorf("%w: header on line %d declares %d terms, found %d",
					io.ErrUnexpectedEOF, block.Line, header.Count, i),
			}
		}

		term, err := ParseTerm(line, d.line)
		if err != nil {
			return nil, err
		}
		block.Terms = append(block.Terms, term)
	}

	return block, nil
}

func (d *Decoder) scan() (string, bool, error) {
	if !d.scanner.Scan() {
		if err := d.scanner.Err(); err != nil {
			return "", false, fmt.Errorf("vsop87: read after line %d: %w", d.line, err)
		}
		return "", false, nil
	}
	d.line++
	return d.scanner.Text(), true, nil
}

// Parse reads a complete VSOP87D stream into an immutable table.
// A later block for the same (variable, power) replaces an earlier one.
// On any error no table is returned.
func Parse(r io.Reader) (*domain.Table, error) {
	dec := NewDecoder(r)
	builder := domain.NewTableBuilder()

	for {
		block, err := dec.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		if err := builder.Set(block.Variable, block.Power, block.Terms); err != nil {
			return nil, &FormatError{Line: block.Line, Field: "header", Err: err}
		}
	}

	return builder.Build(), nil
}
