// Copyright 2026 The Perfstats Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package llsd

import (
	"bytes"
	"encoding/base64"
	"encoding/xml"
	"io"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// A Decoder decodes LLSD values from an XML token stream.
type Decoder struct {
	d   *xml.Decoder
	buf []byte

	// Intern, if non-nil, is applied to every map key. Readers of
	// long traces use it to share the storage of the few distinct
	// keys across records.
	Intern func(key []byte) string
}

// NewDecoder returns a Decoder that reads tokens from d.
func NewDecoder(d *xml.Decoder) *Decoder {
	return &Decoder{d: d}
}

// Unmarshal decodes the first <llsd> document in data.
func Unmarshal(data []byte) (any, error) {
	d := xml.NewDecoder(bytes.NewReader(data))
	dec := NewDecoder(d)
	for {
		tok, err := d.Token()
		if err != nil {
			if err == io.EOF {
				return nil, &SyntaxError{Elem: "llsd", Msg: "no <llsd> element"}
			}
			return nil, err
		}
		if start, ok := tok.(xml.StartElement); ok {
			if start.Name.Local != "llsd" {
				return nil, dec.syntaxError(start.Name.Local, "expected <llsd>")
			}
			return dec.DecodeLLSD(start)
		}
	}
}

// DecodeLLSD decodes the body of an <llsd> element whose start tag,
// start, has just been read from the underlying xml.Decoder. It
// consumes tokens through the matching end tag. An empty <llsd>
// element decodes to nil.
//
// If the input ends before the element is complete, DecodeLLSD
// returns io.ErrUnexpectedEOF or an *xml.SyntaxError.
func (dec *Decoder) DecodeLLSD(start xml.StartElement) (any, error) {
	var v any
	seen := false
	for {
		tok, err := dec.token()
		if err != nil {
			return nil, err
		}
		switch tok := tok.(type) {
		case xml.StartElement:
			if seen {
				return nil, dec.syntaxError(start.Name.Local, "more than one value")
			}
			seen = true
			if v, err = dec.decodeValue(tok); err != nil {
				return nil, err
			}
		case xml.EndElement:
			return v, nil
		}
	}
}

// token returns the next token, turning a premature io.EOF into
// io.ErrUnexpectedEOF. Every caller is inside an element.
func (dec *Decoder) token() (xml.Token, error) {
	tok, err := dec.d.Token()
	if err == io.EOF {
		err = io.ErrUnexpectedEOF
	}
	return tok, err
}

func (dec *Decoder) syntaxError(elem, msg string) *SyntaxError {
	line, _ := dec.d.InputPos()
	return &SyntaxError{Line: line, Elem: elem, Msg: msg}
}

func (dec *Decoder) decodeValue(start xml.StartElement) (any, error) {
	name := start.Name.Local
	switch name {
	case "map":
		return dec.decodeMap()
	case "array":
		return dec.decodeArray()
	}

	text, err := dec.text(start)
	if err != nil {
		return nil, err
	}
	switch name {
	case "undef":
		return nil, nil

	case "boolean":
		switch strings.TrimSpace(text) {
		case "1", "true":
			return true, nil
		case "", "0", "false":
			return false, nil
		}
		return nil, dec.syntaxError(name, "bad boolean "+strconv.Quote(text))

	case "integer":
		text = strings.TrimSpace(text)
		if text == "" {
			return 0, nil
		}
		i, err := strconv.Atoi(text)
		if err != nil {
			return nil, dec.syntaxError(name, err.Error())
		}
		return i, nil

	case "real":
		text = strings.TrimSpace(text)
		if text == "" {
			return 0.0, nil
		}
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return nil, dec.syntaxError(name, err.Error())
		}
		return f, nil

	case "uuid":
		text = strings.TrimSpace(text)
		if text == "" {
			return uuid.Nil, nil
		}
		id, err := uuid.Parse(text)
		if err != nil {
			return nil, dec.syntaxError(name, err.Error())
		}
		return id, nil

	case "string":
		return text, nil

	case "date":
		text = strings.TrimSpace(text)
		if text == "" {
			return time.Unix(0, 0).UTC(), nil
		}
		t, err := time.Parse(time.RFC3339Nano, text)
		if err != nil {
			return nil, dec.syntaxError(name, err.Error())
		}
		return t, nil

	case "uri":
		u, err := url.Parse(strings.TrimSpace(text))
		if err != nil {
			return nil, dec.syntaxError(name, err.Error())
		}
		return u, nil

	case "binary":
		for _, attr := range start.Attr {
			if attr.Name.Local == "encoding" && attr.Value != "base64" {
				return nil, dec.syntaxError(name, "unsupported encoding "+strconv.Quote(attr.Value))
			}
		}
		b, err := base64.StdEncoding.DecodeString(strings.Join(strings.Fields(text), ""))
		if err != nil {
			return nil, dec.syntaxError(name, err.Error())
		}
		return b, nil
	}
	return nil, dec.syntaxError(name, "unknown element")
}

// text returns the character data of a scalar element and consumes
// its end tag.
func (dec *Decoder) text(start xml.StartElement) (string, error) {
	dec.buf = dec.buf[:0]
	for {
		tok, err := dec.token()
		if err != nil {
			return "", err
		}
		switch tok := tok.(type) {
		case xml.CharData:
			dec.buf = append(dec.buf, tok...)
		case xml.StartElement:
			return "", dec.syntaxError(start.Name.Local, "unexpected <"+tok.Name.Local+">")
		case xml.EndElement:
			return string(dec.buf), nil
		}
	}
}

func (dec *Decoder) decodeMap() (Map, error) {
	m := make(Map)
	var key string
	haveKey := false
	for {
		tok, err := dec.token()
		if err != nil {
			return nil, err
		}
		switch tok := tok.(type) {
		case xml.StartElement:
			if !haveKey {
				if tok.Name.Local != "key" {
					return nil, dec.syntaxError("map", "expected <key>, found <"+tok.Name.Local+">")
				}
				if key, err = dec.text(tok); err != nil {
					return nil, err
				}
				if dec.Intern != nil {
					key = dec.Intern(dec.buf)
				}
				haveKey = true
				continue
			}
			v, err := dec.decodeValue(tok)
			if err != nil {
				return nil, err
			}
			m[key] = v
			haveKey = false
		case xml.EndElement:
			if haveKey {
				return nil, dec.syntaxError("map", "key "+strconv.Quote(key)+" has no value")
			}
			return m, nil
		}
	}
}

func (dec *Decoder) decodeArray() (Array, error) {
	a := Array{}
	for {
		tok, err := dec.token()
		if err != nil {
			return nil, err
		}
		switch tok := tok.(type) {
		case xml.StartElement:
			v, err := dec.decodeValue(tok)
			if err != nil {
				return nil, err
			}
			a = append(a, v)
		case xml.EndElement:
			return a, nil
		}
	}
}
