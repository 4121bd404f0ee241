// Copyright 2026 The Perfstats Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package tracefmt reads viewer performance traces.
//
// A trace is a stream of <llsd> elements, one per frame. The elements
// may follow each other at the top level of the file or be wrapped in
// a single root element. Traces are usually large, so they are read
// one record at a time.
package tracefmt

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"

	"github.com/viewerperf/perfstats/frame"
	"github.com/viewerperf/perfstats/llsd"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/transform"
)

// ClearInterval is the number of records after which a Reader
// discards its table of interned map keys.
const ClearInterval = 100

// Options configures a Reader.
type Options struct {
	// Deriver is attached to every record read.
	Deriver *frame.Deriver

	// Warn, if non-nil, is called with notices about the input,
	// such as a truncated final record.
	Warn func(format string, args ...interface{})
}

// A Reader reads frame records from a trace.
//
// Its API is modeled on bufio.Scanner. The Record returned after each
// call to Scan is overwritten by the next call, but the record data it
// refers to is never reused and may be retained.
type Reader struct {
	fileName string
	opts     Options

	d   *xml.Decoder
	dec *llsd.Decoder

	rec   frame.Record
	count int
	done  bool
	err   error

	interns map[string]string
}

// NewReader returns a Reader that reads frame records from r.
// fileName is used in messages; it is purely diagnostic.
// opts may be nil.
func NewReader(r io.Reader, fileName string, opts *Options) *Reader {
	if fileName == "" {
		fileName = "<unknown>"
	}
	reader := &Reader{
		fileName: fileName,
		d:        xml.NewDecoder(r),
		interns:  make(map[string]string),
	}
	if opts != nil {
		reader.opts = *opts
	}
	reader.d.CharsetReader = charsetReader
	reader.dec = llsd.NewDecoder(reader.d)
	reader.dec.Intern = reader.intern
	return reader
}

func charsetReader(label string, input io.Reader) (io.Reader, error) {
	enc, err := htmlindex.Get(label)
	if err != nil {
		return nil, err
	}
	return transform.NewReader(input, enc.NewDecoder()), nil
}

func (r *Reader) warn(format string, args ...interface{}) {
	if r.opts.Warn != nil {
		r.opts.Warn(format, args...)
	}
}

// Scan advances the reader to the next frame record and reports
// whether a record was read. The caller should use the Record method
// to get the record. If Scan reaches the end of the trace, or if an
// I/O error occurs, it returns false, in which case the caller should
// use the Err method to check for errors.
//
// A malformed or truncated final record ends the trace. It is
// reported to Options.Warn and is not an error. A malformed record
// followed by further records is an error.
func (r *Reader) Scan() bool {
	if r.done || r.err != nil {
		return false
	}
	for {
		tok, err := r.d.Token()
		if err == io.EOF {
			r.finish()
			return false
		} else if err != nil {
			return r.fail(err)
		}
		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != "llsd" {
			continue
		}
		v, err := r.dec.DecodeLLSD(start)
		if err != nil {
			return r.fail(err)
		}
		r.count++
		if r.count%ClearInterval == 0 {
			clear(r.interns)
		}
		data, ok := v.(llsd.Map)
		if !ok {
			r.warn("%s: record %d is not a map", r.fileName, r.count)
			data = llsd.Map{}
		}
		r.rec = frame.Record{Data: data, Deriver: r.opts.Deriver}
		return true
	}
}

// fail handles a decoding error. Errors in the XML syntax end the
// trace. A bad LLSD value ends the trace only if no record follows it.
// Anything else is an error reported by Err.
func (r *Reader) fail(err error) bool {
	var xse *xml.SyntaxError
	var lse *llsd.SyntaxError
	switch {
	case errors.As(err, &lse):
		if r.moreRecords() {
			r.err = fmt.Errorf("%s: record %d: %w", r.fileName, r.count+1, err)
			return false
		}
	case errors.Is(err, io.ErrUnexpectedEOF), errors.As(err, &xse):
	default:
		r.err = fmt.Errorf("%s: %w", r.fileName, err)
		return false
	}
	r.warn("%s: fell off end of document after %d records: %v", r.fileName, r.count, err)
	r.finish()
	return false
}

// moreRecords reports whether another <llsd> element starts before the
// end of the input. It consumes the input it reads.
func (r *Reader) moreRecords() bool {
	for {
		tok, err := r.d.Token()
		if err != nil {
			return false
		}
		if start, ok := tok.(xml.StartElement); ok && start.Name.Local == "llsd" {
			return true
		}
	}
}

func (r *Reader) finish() {
	r.done = true
	r.warn("%s: read %d frame records", r.fileName, r.count)
}

// Record returns the record read by the last successful call to Scan.
func (r *Reader) Record() *frame.Record {
	return &r.rec
}

// Count returns the number of records read so far.
func (r *Reader) Count() int {
	return r.count
}

// Err returns the first I/O error encountered by the Reader, if any.
func (r *Reader) Err() error {
	return r.err
}

func (r *Reader) intern(x []byte) string {
	if s, ok := r.interns[string(x)]; ok {
		return s
	}
	s := string(x)
	r.interns[s] = s
	return s
}
