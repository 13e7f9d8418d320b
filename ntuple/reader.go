// Copyright 2026 The ntfit Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ntuple

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strconv"
	"unicode"
	"unicode/utf8"

	"github.com/pkg/errors"
)

// A Reader reads the text ntuple format.
//
// Its API is modeled on bufio.Scanner. A Reader retains ownership of
// the Row it returns; a caller should copy anything it needs to
// retain.
//
// The zero value of the Reader is a valid Reader, but the user must
// call Reset before using it.
type Reader struct {
	s        *bufio.Scanner
	fileName string
	lineNum  int
	err      error // current I/O error

	row    Row
	rowErr error

	// needHeader is set after a "tree:" line until the column
	// header has been read.
	needHeader bool
	sections   []Section
}

// SyntaxError represents a syntax error on a particular line of a text
// ntuple file.
type SyntaxError struct {
	FileName string
	Line     int
	Msg      string
}

func (s *SyntaxError) Error() string {
	return fmt.Sprintf("%s:%d: %s", s.FileName, s.Line, s.Msg)
}

var noRow = errors.New("Reader.Scan has not been called")

// NewReader constructs a reader to parse the text ntuple format from
// r. fileName is used in error messages; it is purely diagnostic.
func NewReader(r io.Reader, fileName string) *Reader {
	reader := new(Reader)
	reader.Reset(r, fileName)
	return reader
}

// Reset resets the reader to begin reading from a new input. This
// also forgets the current tree section.
func (r *Reader) Reset(ior io.Reader, fileName string) {
	r.s = bufio.NewScanner(ior)
	if fileName == "" {
		fileName = "<unknown>"
	}
	r.fileName = fileName
	r.lineNum = 0
	r.err = nil
	r.rowErr = noRow
	r.needHeader = false
	r.sections = r.sections[:0]

	r.row.Tree = ""
	r.row.Title = ""
	r.row.Columns = nil
	r.row.Values = r.row.Values[:0]
}

// Scan advances the reader to the next row and returns true if a row
// was read. The caller should use the Row method to get the row. If an
// I/O error occurs, or this reaches the end of the file, it returns
// false and the caller should use the Err method to check for errors.
func (r *Reader) Scan() bool {
	if r.err != nil {
		return false
	}

	for r.s.Scan() {
		r.lineNum++
		line := bytes.TrimSpace(r.s.Bytes())
		if len(line) == 0 || line[0] == '#' {
			continue
		}
		if key, val, ok := parseKeyValueLine(line); ok {
			switch string(key) {
			case "tree":
				if len(val) == 0 {
					r.rowErr = &SyntaxError{r.fileName, r.lineNum, "missing tree name"}
					return true
				}
				r.row.Tree = string(val)
				r.row.Title = ""
				r.row.Columns = nil
				r.needHeader = true
			case "title":
				r.row.Title = string(val)
				if n := len(r.sections); n > 0 && !r.needHeader {
					r.sections[n-1].Title = r.row.Title
				}
			}
			// Other keys are annotations and are ignored.
			continue
		}
		if r.row.Tree == "" {
			r.rowErr = &SyntaxError{r.fileName, r.lineNum, "data before tree: line"}
			return true
		}
		if r.needHeader {
			cols, err := r.parseHeaderLine(line)
			if err != nil {
				r.rowErr = err
				return true
			}
			r.needHeader = false
			r.row.Columns = cols
			r.sections = append(r.sections, Section{r.row.Tree, r.row.Title, cols})
			continue
		}
		r.rowErr = r.parseRowLine(line)
		return true
	}

	if err := r.s.Err(); err != nil {
		r.err = fmt.Errorf("%s:%d: %w", r.fileName, r.lineNum, err)
		return false
	}
	r.err = nil
	return false
}

// parseKeyValueLine attempts to parse line as a key: value pair. ok
// indicates whether the line could be parsed.
func parseKeyValueLine(line []byte) (key, val []byte, ok bool) {
	for i := 0; i < len(line); {
		r, n := utf8.DecodeRune(line[i:])
		// key begins with a lower case character ...
		if i == 0 && !unicode.IsLower(r) {
			return
		}
		// and contains no space characters nor upper case
		// characters.
		if unicode.IsSpace(r) || unicode.IsUpper(r) {
			return
		}
		if i > 0 && r == ':' {
			key = line[:i]
			val = line[i+1:]
			break
		}

		i += n
	}
	if len(key) == 0 {
		return
	}
	// Value can be omitted entirely, in which case the colon must
	// still be present, but need not be followed by a space.
	if len(val) == 0 {
		ok = true
		return
	}
	// One or more ASCII space or tab characters separate "key:"
	// from "value."
	for len(val) > 0 && (val[0] == ' ' || val[0] == '\t') {
		val = val[1:]
		ok = true
	}
	return
}

// parseHeaderLine parses the column names of a tree section. Names
// are separated by white space or, as in a ROOT branch descriptor, by
// colons with an optional "/T" type suffix.
func (r *Reader) parseHeaderLine(line []byte) ([]string, error) {
	var fields [][]byte
	if f, rest := splitField(line); len(rest) == 0 && bytes.IndexByte(f, ':') >= 0 {
		fields = bytes.Split(f, []byte(":"))
	} else {
		for len(line) > 0 {
			f, line = splitField(line)
			fields = append(fields, f)
		}
	}

	cols := make([]string, 0, len(fields))
	seen := make(map[string]bool)
	for _, f := range fields {
		if i := bytes.IndexByte(f, '/'); i >= 0 {
			f = f[:i]
		}
		name := string(f)
		if !isName(name) {
			if _, err := strconv.ParseFloat(name, 64); err == nil {
				return nil, &SyntaxError{r.fileName, r.lineNum, "missing column header"}
			}
			return nil, &SyntaxError{r.fileName, r.lineNum, fmt.Sprintf("bad column name %q", name)}
		}
		if seen[name] {
			return nil, &SyntaxError{r.fileName, r.lineNum, fmt.Sprintf("duplicate column %q", name)}
		}
		seen[name] = true
		cols = append(cols, name)
	}
	return cols, nil
}

// parseRowLine parses line as one entry of the current section and
// updates r.row.
func (r *Reader) parseRowLine(line []byte) error {
	var f []byte
	r.row.Values = r.row.Values[:0]
	for len(line) > 0 {
		f, line = splitField(line)
		val, err := atof(f)
		if err != nil {
			if nerr, ok := err.(*strconv.NumError); ok {
				err = nerr.Err
			}
			return &SyntaxError{r.fileName, r.lineNum, "parsing value: " + err.Error()}
		}
		r.row.Values = append(r.row.Values, val)
	}
	if len(r.row.Values) != len(r.row.Columns) {
		return &SyntaxError{r.fileName, r.lineNum, fmt.Sprintf("expected %d values, got %d", len(r.row.Columns), len(r.row.Values))}
	}
	return nil
}

// Row returns the last row read, or an error if the row was malformed.
//
// Parse errors are non-fatal, so the caller can continue to call
// Scan.
//
// The caller should not retain the Row object, as it will be
// overwritten by the next call to Scan.
func (r *Reader) Row() (*Row, error) {
	if r.rowErr != nil {
		return nil, r.rowErr
	}
	return &r.row, nil
}

// Sections returns the tree sections whose headers have been read so
// far, in file order.
func (r *Reader) Sections() []Section {
	return r.sections
}

// Err returns the first non-EOF I/O error that was encountered by the
// Reader.
func (r *Reader) Err() error {
	return r.err
}

// isName reports whether s is usable as a branch name: a letter or
// underscore followed by letters, digits, underscores or dots.
func isName(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_' || unicode.IsLetter(r):
		case i > 0 && (r == '.' || unicode.IsDigit(r)):
		default:
			return false
		}
	}
	return true
}

// atof is a wrapper for strconv.ParseFloat that optimizes for numbers
// that are usually integers.
func atof(x []byte) (float64, error) {
	// The largest int exactly representable in a float64.
	const largestInt = 1<<53 - 1

	// Try parsing as an integer.
	var val int64
	if len(x) == 0 {
		goto fail
	}
	for _, ch := range x {
		digit := ch - '0'
		if digit >= 10 {
			goto fail
		}
		val = (val * 10) + int64(digit)
		if val > largestInt {
			goto fail
		}
	}
	return float64(val), nil

fail:
	// The fast path failed. Parse it as a float.
	return strconv.ParseFloat(string(x), 64)
}

const isSpace uint64 = 1<<'\t' | 1<<'\n' | 1<<'\v' | 1<<'\f' | 1<<'\r' | 1<<' '

// splitField consumes and returns non-whitespace in x as field,
// consumes whitespace following the field, and then returns the
// remaining bytes of x.
func splitField(x []byte) (field, rest []byte) {
	// Collect non-whitespace into field.
	var i int
	for i = 0; i < len(x); {
		if x[i] < 128 {
			// Fast path for ASCII
			if (isSpace>>x[i])&1 != 0 {
				rest = x[i+1:]
				break
			}
			i++
		} else {
			// Slow path for Unicode
			r, n := utf8.DecodeRune(x[i:])
			if unicode.IsSpace(r) {
				rest = x[i+n:]
				break
			}
			i += n
		}
	}
	field = x[:i]

	// Strip whitespace from rest.
	for len(rest) > 0 {
		if rest[0] < 128 {
			if (isSpace>>rest[0])&1 == 0 {
				break
			}
			rest = rest[1:]
		} else {
			r, n := utf8.DecodeRune(rest)
			if !unicode.IsSpace(r) {
				break
			}
			rest = rest[n:]
		}
	}
	return
}
