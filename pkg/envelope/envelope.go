/*
 Licensed under the Apache License, Version 2.0 (the "License");
 you may not use this file except in compliance with the License.
 You may obtain a copy of the License at

     https://www.apache.org/licenses/LICENSE-2.0

 Unless required by applicable law or agreed to in writing, software
 distributed under the License is distributed on an "AS IS" BASIS,
 WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 See the License for the specific language governing permissions and
 limitations under the License.
*/

// Package envelope reads the ASCII product envelope (main product header,
// specific product header and data set descriptors) that precedes the
// big-endian binary body of an ESA/PDS product file.
package envelope

import (
	"bufio"
	"bytes"
	"io"
	"strconv"
	"strings"

	"sron.nl/atmos/go-scia/pkg/log"
)

const (
	// MPHSize is the fixed byte length of the main product header
	MPHSize = 1247
)

// Section boundary sentinel keys
const (
	KeySPHDescriptor = "SPH_DESCRIPTOR"
	KeyDSName        = "DS_NAME"
	KeyDSRSize       = "DSR_SIZE"
	KeyTotalSize     = "TOT_SIZE"
	KeySPHSize       = "SPH_SIZE"
	KeyNumDSD        = "NUM_DSD"
	KeyDSDSize       = "DSD_SIZE"
)

type Kind int

const (
	KindString Kind = iota
	KindChar
	KindInt
	KindFloat
)

// Value is one typed header value, unit tag stripped.
type Value struct {
	Kind  Kind
	Str   string
	Int   int64
	Float float64
}

// Header is an ordered KEY=VALUE mapping.
type Header struct {
	keys   []string
	values map[string]Value
}

func newHeader() *Header {
	return &Header{values: make(map[string]Value)}
}

func (h *Header) set(key string, val Value) {
	if _, ok := h.values[key]; !ok {
		h.keys = append(h.keys, key)
	}
	h.values[key] = val
}

// Keys returns the header keys in file order.
func (h *Header) Keys() []string {
	return h.keys
}

func (h *Header) Get(key string) (Value, bool) {
	val, ok := h.values[key]
	return val, ok
}

func (h *Header) Str(key string) (string, bool) {
	val, ok := h.values[key]
	if !ok {
		return "", false
	}
	return val.Str, true
}

func (h *Header) Int(key string) (int64, bool) {
	val, ok := h.values[key]
	if !ok || val.Kind != KindInt {
		return 0, false
	}
	return val.Int, true
}

func (h *Header) Float(key string) (float64, bool) {
	val, ok := h.values[key]
	if !ok {
		return 0, false
	}
	switch val.Kind {
	case KindFloat:
		return val.Float, true
	case KindInt:
		return float64(val.Int), true
	}
	return 0, false
}

// SegmentDescriptor locates one data segment inside the binary body.
type SegmentDescriptor struct {
	Name       string
	Type       string
	Filename   string
	Offset     int64
	Size       int64
	NumRecords int
	RecordSize int
}

// Envelope is the parsed product envelope. Built once per opened file,
// immutable thereafter.
type Envelope struct {
	MPH      *Header
	SPH      *Header
	Segments []SegmentDescriptor
}

// SegmentByName returns the descriptor of the named data segment.
func (env *Envelope) SegmentByName(name string) (SegmentDescriptor, bool) {
	for _, dsd := range env.Segments {
		if dsd.Name == name {
			return dsd, true
		}
	}
	return SegmentDescriptor{}, false
}

// TotalSize returns the declared product size in bytes.
func (env *Envelope) TotalSize() int64 {
	size, _ := env.MPH.Int(KeyTotalSize)
	return size
}

var compressionMagics = []struct {
	magic  []byte
	format string
}{
	{[]byte{0x1f, 0x8b, 0x08}, "gzip"},
	{[]byte{0x42, 0x5a, 0x68}, "bzip2"},
	{[]byte{0xfd, 0x37, 0x7a, 0x58, 0x5a, 0x00}, "xz"},
}

// SniffCompression reports the compression format of the leading bytes,
// or an empty string when none of the known magics match.
func SniffCompression(head []byte) string {
	for _, entry := range compressionMagics {
		if bytes.HasPrefix(head, entry.magic) {
			return entry.format
		}
	}
	return ""
}

// unit tags recognized in header values; order matters, "<>" must come last
var unitTags = []struct {
	tag   string
	kind  Kind
	scale float64
}{
	{"<10-6degN>", KindFloat, 1e-6},
	{"<10-6degE>", KindFloat, 1e-6},
	{"<m/s>", KindFloat, 1},
	{"<deg>", KindFloat, 1},
	{"<s>", KindFloat, 1},
	{"<m>", KindFloat, 1},
	{"<%>", KindFloat, 1},
	{"<ps>", KindInt, 1},
	{"<bytes>", KindInt, 1},
	{"<>", KindFloat, 1},
}

// parseValue types a raw header value: quoted text, single enumeration
// character, unit-tagged number or plain integer.
func parseValue(raw string) Value {
	if raw == "" {
		return Value{Kind: KindString}
	}
	if raw[0] == '"' {
		return Value{
			Kind: KindString,
			Str:  strings.TrimRight(strings.Trim(raw, "\""), " "),
		}
	}
	if len(raw) == 1 && !isDigit(raw[0]) {
		return Value{Kind: KindChar, Str: raw}
	}
	for _, unit := range unitTags {
		indx := strings.Index(raw, unit.tag)
		if indx <= 0 {
			continue
		}
		num := raw[:indx]
		if unit.kind == KindInt {
			ival, err := strconv.ParseInt(num, 10, 64)
			if err != nil {
				break
			}
			return Value{Kind: KindInt, Int: ival, Str: num}
		}
		fval, err := strconv.ParseFloat(num, 64)
		if err != nil {
			break
		}
		return Value{Kind: KindFloat, Float: fval * unit.scale, Str: num}
	}
	if ival, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return Value{Kind: KindInt, Int: ival, Str: raw}
	}
	return Value{Kind: KindString, Str: raw}
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// readSection scans KEY=VALUE lines into a header until stopKey is seen.
// The sentinel line itself is not consumed into the header.
func readSection(scanner *bufio.Scanner, hdr *Header, stopKey string) (bool, error) {
	for scanner.Scan() {
		line := scanner.Text()
		indx := strings.Index(line, "=")
		if indx < 0 {
			continue
		}
		key := line[:indx]
		raw := strings.TrimRight(line[indx+1:], "\r")
		if key == stopKey {
			return true, nil
		}
		hdr.set(key, parseValue(raw))
	}
	return false, scanner.Err()
}

// Read parses the product envelope from the given stream. actualSize is
// the on-disk size of the product, name is used for diagnostics only.
// The stream position is undefined afterwards; callers seek to segment
// offsets before reading binary data.
func Read(r io.ReadSeeker, actualSize int64, name string) (*Envelope, error) {
	head := make([]byte, 6)
	if _, err := io.ReadFull(r, head); err != nil {
		return nil, err
	}
	if format := SniffCompression(head); format != "" {
		return nil, ErrCompressed{Format: format}
	}

	// main product header occupies the first MPHSize bytes
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}
	env := &Envelope{MPH: newHeader(), SPH: newHeader()}
	scanner := bufio.NewScanner(io.LimitReader(r, MPHSize))
	if _, err := readSection(scanner, env.MPH, KeySPHDescriptor); err != nil {
		return nil, err
	}
	for _, key := range []string{KeyTotalSize, KeySPHSize, KeyNumDSD, KeyDSDSize} {
		if _, ok := env.MPH.Int(key); !ok {
			return nil, ErrEnvelope{Key: key, Reason: "missing from main header"}
		}
	}

	declared := env.TotalSize()
	if declared != actualSize {
		return nil, ErrTruncatedFile{File: name, Declared: declared, Actual: actualSize}
	}

	// specific product header directly follows the MPH
	sphSize, _ := env.MPH.Int(KeySPHSize)
	numDSD, _ := env.MPH.Int(KeyNumDSD)
	dsdSize, _ := env.MPH.Int(KeyDSDSize)
	if _, err := r.Seek(MPHSize, io.SeekStart); err != nil {
		return nil, err
	}
	scanner = bufio.NewScanner(io.LimitReader(r, sphSize))
	if _, err := readSection(scanner, env.SPH, KeyDSName); err != nil {
		return nil, err
	}
	if _, ok := env.SPH.Str(KeySPHDescriptor); !ok {
		return nil, ErrEnvelope{Key: KeySPHDescriptor, Reason: "missing from specific header"}
	}

	// data set descriptors sit at the tail of the SPH block; the last
	// descriptor slot is a spare and is not read
	dsdOffset := MPHSize + sphSize - numDSD*dsdSize
	if _, err := r.Seek(dsdOffset, io.SeekStart); err != nil {
		return nil, err
	}
	scanner = bufio.NewScanner(io.LimitReader(r, numDSD*dsdSize))
	dsd := newHeader()
	for scanner.Scan() {
		line := scanner.Text()
		indx := strings.Index(line, "=")
		if indx < 0 {
			continue
		}
		key := line[:indx]
		raw := strings.TrimRight(line[indx+1:], "\r")
		dsd.set(key, parseValue(raw))
		if key != KeyDSRSize {
			continue
		}
		env.Segments = append(env.Segments, segmentFromHeader(dsd))
		if int64(len(env.Segments))+1 == numDSD {
			break
		}
		dsd = newHeader()
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	for _, seg := range env.Segments {
		end := seg.Offset + int64(seg.NumRecords)*int64(seg.RecordSize)
		if end > actualSize {
			return nil, ErrSegmentBounds{
				Name:     seg.Name,
				Offset:   seg.Offset,
				Size:     end - seg.Offset,
				FileSize: actualSize,
			}
		}
	}

	log.Debug("envelope: %d MPH keys, %d SPH keys, %d segments",
		len(env.MPH.keys), len(env.SPH.keys), len(env.Segments))

	return env, nil
}

func segmentFromHeader(hdr *Header) SegmentDescriptor {
	name, _ := hdr.Str("DS_NAME")
	dsType, _ := hdr.Str("DS_TYPE")
	filename, _ := hdr.Str("FILENAME")
	offset, _ := hdr.Int("DS_OFFSET")
	size, _ := hdr.Int("DS_SIZE")
	numDSR, _ := hdr.Int("NUM_DSR")
	dsrSize, _ := hdr.Int(KeyDSRSize)
	return SegmentDescriptor{
		Name:       name,
		Type:       dsType,
		Filename:   filename,
		Offset:     offset,
		Size:       size,
		NumRecords: int(numDSR),
		RecordSize: int(dsrSize),
	}
}
