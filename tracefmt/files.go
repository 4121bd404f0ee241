// Copyright 2026 The Perfstats Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tracefmt

import (
	"bufio"
	"bytes"
	"io"
	"os"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

var (
	gzipMagic = []byte{0x1f, 0x8b}
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
)

// A File is a Reader over a trace file on disk.
type File struct {
	*Reader

	closers []io.Closer
}

// Open opens the trace at path for reading. Traces compressed with
// gzip or zstd are detected by their content and decompressed as they
// are read.
func Open(path string, opts *Options) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	file := &File{closers: []io.Closer{f}}
	br := bufio.NewReader(f)
	magic, _ := br.Peek(len(zstdMagic))

	var r io.Reader = br
	switch {
	case bytes.HasPrefix(magic, gzipMagic):
		zr, err := gzip.NewReader(br)
		if err != nil {
			file.Close()
			return nil, err
		}
		file.closers = append(file.closers, zr)
		r = zr
	case bytes.HasPrefix(magic, zstdMagic):
		zr, err := zstd.NewReader(br, zstd.WithDecoderConcurrency(1))
		if err != nil {
			file.Close()
			return nil, err
		}
		rc := zr.IOReadCloser()
		file.closers = append(file.closers, rc)
		r = rc
	}
	file.Reader = NewReader(r, path, opts)
	return file, nil
}

// Close closes the trace and any decompressor reading from it.
func (f *File) Close() error {
	var err error
	for i := len(f.closers) - 1; i >= 0; i-- {
		if cerr := f.closers[i].Close(); err == nil {
			err = cerr
		}
	}
	f.closers = nil
	return err
}
