// Package fuzzygo provides bit-parallel approximate string matching.
//
// This file implements persistence for lazy scans: the retained column
// history, hit set and pattern are written as a sectioned, checksummed
// container so that reconstruction queries can continue in a later
// process without rescanning the text.
package fuzzygo

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/hupe1980/fuzzygo/alignment"
	"github.com/hupe1980/fuzzygo/automaton"
	"github.com/hupe1980/fuzzygo/blobstore"
	"github.com/hupe1980/fuzzygo/codec"
	"github.com/hupe1980/fuzzygo/internal/compress"
	"github.com/hupe1980/fuzzygo/internal/mmap"
	"github.com/hupe1980/fuzzygo/traceback"
)

const (
	// snapshotMagic identifies scan snapshot files (ASCII: "FGS1").
	snapshotMagic = 0x46475331
	// snapshotVersion is the current snapshot format version (v1.0.0).
	snapshotVersion = 0x00010000
)

// SnapshotCompression selects the compression of the states section.
type SnapshotCompression uint8

const (
	// SnapshotCompressionNone stores column states uncompressed.
	SnapshotCompressionNone SnapshotCompression = iota
	// SnapshotCompressionLZ4 favors speed over ratio.
	SnapshotCompressionLZ4
	// SnapshotCompressionZstd favors ratio over speed. The default:
	// column states of a lazy scan are large and repetitive.
	SnapshotCompressionZstd
)

func (c SnapshotCompression) blockType() compress.Type {
	switch c {
	case SnapshotCompressionLZ4:
		return compress.LZ4
	case SnapshotCompressionZstd:
		return compress.Zstd
	default:
		return compress.None
	}
}

// SnapshotOptions configures snapshot writing.
type SnapshotOptions struct {
	// Compression of the states section. Default: zstd.
	Compression SnapshotCompression
	// Codec for the meta section. Default: codec.Default.
	Codec codec.Codec
}

// snapshotHeader is the fixed-size header at the start of every
// snapshot file. Layout is little-endian.
type snapshotHeader struct {
	Magic       uint32
	Version     uint32
	WordBits    uint8
	DistBits    uint8
	Compression uint8
	Policy      uint8
	CodecName   [8]byte
	MetaLen     uint32
	StatesLen   uint32
	HitsLen     uint32
	FirstCol    uint64
	Columns     uint64
	Reserved    [8]byte
}

// snapshotMeta is the codec-encoded meta section.
type snapshotMeta struct {
	Pattern []byte `json:"pattern"`
	TextLen int    `json:"text_len"`
	MaxDist uint64 `json:"max_dist"`
}

// SaveTo writes the scan state accumulated so far to w and returns the
// number of bytes written. The iterator stays usable; scanning may
// continue after saving.
func (lm *LazyMatches[T, D]) SaveTo(ctx context.Context, w io.Writer, optFns ...func(*SnapshotOptions)) (int, error) {
	start := time.Now()

	n, err := lm.saveTo(ctx, w, optFns)

	lm.m.logger.LogSnapshotSave(ctx, "", n, err)
	lm.m.metrics.RecordSnapshotSave(n, time.Since(start), err)
	return n, err
}

func (lm *LazyMatches[T, D]) saveTo(ctx context.Context, w io.Writer, optFns []func(*SnapshotOptions)) (int, error) {
	if lm.closed {
		return 0, ErrSearchActive
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	opts := SnapshotOptions{
		Compression: SnapshotCompressionZstd,
		Codec:       codec.Default,
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&opts)
		}
	}
	if opts.Codec == nil {
		opts.Codec = codec.Default
	}

	meta, err := opts.Codec.Marshal(snapshotMeta{
		Pattern: lm.m.Pattern(),
		TextLen: len(lm.text),
		MaxDist: uint64(lm.maxDist),
	})
	if err != nil {
		return 0, err
	}

	history, first := lm.tb.History()
	states, err := compress.Block(encodeStates(history), opts.Compression.blockType())
	if err != nil {
		return 0, err
	}

	var hitBytes []byte
	if lm.hits != nil {
		// Roaring's own encoding is already compact; store it raw.
		hitBytes, err = lm.hits.ToBytes()
		if err != nil {
			return 0, err
		}
	}

	hdr := snapshotHeader{
		Magic:       snapshotMagic,
		Version:     snapshotVersion,
		WordBits:    uint8(automaton.WordBits[T]()),
		DistBits:    uint8(automaton.DistBits[D]()),
		Compression: uint8(opts.Compression),
		Policy:      uint8(traceback.PolicyAll),
		MetaLen:     uint32(len(meta)),
		StatesLen:   uint32(len(states)),
		HitsLen:     uint32(len(hitBytes)),
		FirstCol:    uint64(first),
		Columns:     uint64(len(history)),
	}
	copy(hdr.CodecName[:], opts.Codec.Name())

	var buf bytes.Buffer
	if err := binary.Write(&buf, binary.LittleEndian, &hdr); err != nil {
		return 0, err
	}
	buf.Write(meta)
	buf.Write(states)
	buf.Write(hitBytes)

	var footer [4]byte
	binary.LittleEndian.PutUint32(footer[:], crc32.ChecksumIEEE(buf.Bytes()))
	buf.Write(footer[:])

	return w.Write(buf.Bytes())
}

// SaveToFile writes the scan state to path atomically.
func (lm *LazyMatches[T, D]) SaveToFile(ctx context.Context, path string, optFns ...func(*SnapshotOptions)) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".snapshot-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := lm.SaveTo(ctx, tmp, optFns...); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}

// SaveToStore writes the scan state to a blob store under name.
func (lm *LazyMatches[T, D]) SaveToStore(ctx context.Context, store blobstore.Store, name string, optFns ...func(*SnapshotOptions)) error {
	var buf bytes.Buffer
	if _, err := lm.SaveTo(ctx, &buf, optFns...); err != nil {
		return err
	}
	return store.Put(ctx, name, buf.Bytes())
}

// ScanSnapshot is a read-only reconstruction view over a persisted lazy
// scan. It answers the same random-access queries as LazyMatches for
// every end position that was visited before the snapshot was taken.
type ScanSnapshot[T automaton.Word, D automaton.Dist] struct {
	pattern []byte
	m       int
	textLen int
	maxDist D
	tb      *traceback.Store[T, D]
	hits    *roaring.Bitmap
}

// LoadScan reads a snapshot from r. The type parameters must match the
// word and distance widths the snapshot was saved with.
func LoadScan[T automaton.Word, D automaton.Dist](ctx context.Context, r io.Reader, optFns ...Option) (*ScanSnapshot[T, D], error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return loadScanBytes[T, D](ctx, data, optFns)
}

// LoadScanFromFile memory-maps the snapshot at path and loads it.
func LoadScanFromFile[T automaton.Word, D automaton.Dist](ctx context.Context, path string, optFns ...Option) (*ScanSnapshot[T, D], error) {
	m, err := mmap.Open(path)
	if err != nil {
		return nil, err
	}
	defer m.Close()
	_ = m.Advise(mmap.AccessSequential)

	return loadScanBytes[T, D](ctx, m.Bytes(), optFns)
}

// LoadScanFromStore loads a snapshot blob from a blob store.
func LoadScanFromStore[T automaton.Word, D automaton.Dist](ctx context.Context, store blobstore.Store, name string, optFns ...Option) (*ScanSnapshot[T, D], error) {
	blob, err := store.Open(ctx, name)
	if err != nil {
		return nil, err
	}
	defer blob.Close()

	data, err := blobstore.ReadAll(blob)
	if err != nil {
		return nil, err
	}
	return loadScanBytes[T, D](ctx, data, optFns)
}

func loadScanBytes[T automaton.Word, D automaton.Dist](ctx context.Context, data []byte, optFns []Option) (*ScanSnapshot[T, D], error) {
	start := time.Now()
	opts := applyOptions(optFns)

	snap, err := parseSnapshot[T, D](data)

	opts.logger.LogSnapshotLoad(ctx, "", err)
	opts.metricsCollector.RecordSnapshotLoad(time.Since(start), err)
	return snap, err
}

func parseSnapshot[T automaton.Word, D automaton.Dist](data []byte) (*ScanSnapshot[T, D], error) {
	hdrSize := binary.Size(snapshotHeader{})
	if len(data) < hdrSize+4 {
		return nil, fmt.Errorf("%w: truncated file (%d bytes)", ErrBadSnapshot, len(data))
	}

	body, footer := data[:len(data)-4], data[len(data)-4:]
	if sum := crc32.ChecksumIEEE(body); sum != binary.LittleEndian.Uint32(footer) {
		return nil, fmt.Errorf("%w: checksum mismatch (computed 0x%08x)", ErrBadSnapshot, sum)
	}

	var hdr snapshotHeader
	if err := binary.Read(bytes.NewReader(body), binary.LittleEndian, &hdr); err != nil {
		return nil, err
	}
	if hdr.Magic != snapshotMagic {
		return nil, fmt.Errorf("%w: invalid magic 0x%08x", ErrBadSnapshot, hdr.Magic)
	}
	if hdr.Version != snapshotVersion {
		return nil, fmt.Errorf("%w: unsupported version 0x%08x", ErrBadSnapshot, hdr.Version)
	}
	if int(hdr.WordBits) != automaton.WordBits[T]() || int(hdr.DistBits) != automaton.DistBits[D]() {
		return nil, &ErrSnapshotTypeMismatch{
			WantWordBits: automaton.WordBits[T](),
			GotWordBits:  int(hdr.WordBits),
			WantDistBits: automaton.DistBits[D](),
			GotDistBits:  int(hdr.DistBits),
		}
	}

	sections := body[hdrSize:]
	total := int(hdr.MetaLen) + int(hdr.StatesLen) + int(hdr.HitsLen)
	if len(sections) != total {
		return nil, fmt.Errorf("%w: section sizes disagree with file size", ErrBadSnapshot)
	}
	metaBytes := sections[:hdr.MetaLen]
	stateBytes := sections[hdr.MetaLen : int(hdr.MetaLen)+int(hdr.StatesLen)]
	hitBytes := sections[int(hdr.MetaLen)+int(hdr.StatesLen):]

	codecName := string(bytes.TrimRight(hdr.CodecName[:], "\x00"))
	c, ok := codec.ByName(codecName)
	if !ok {
		return nil, fmt.Errorf("%w: unknown codec %q", ErrBadSnapshot, codecName)
	}
	var meta snapshotMeta
	if err := c.Unmarshal(metaBytes, &meta); err != nil {
		return nil, fmt.Errorf("%w: meta section: %w", ErrBadSnapshot, err)
	}
	if len(meta.Pattern) == 0 || len(meta.Pattern) > automaton.WordBits[T]() {
		return nil, fmt.Errorf("%w: pattern length %d out of range", ErrBadSnapshot, len(meta.Pattern))
	}

	raw, err := compress.Unblock(stateBytes, SnapshotCompression(hdr.Compression).blockType())
	if err != nil {
		return nil, fmt.Errorf("%w: states section: %w", ErrBadSnapshot, err)
	}
	history, err := decodeStates[T, D](raw, int(hdr.Columns))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadSnapshot, err)
	}

	hits := roaring.New()
	if len(hitBytes) > 0 {
		// UnmarshalBinary copies container data, so the snapshot
		// buffer (possibly an mmap) may be released afterwards.
		if err := hits.UnmarshalBinary(hitBytes); err != nil {
			return nil, fmt.Errorf("%w: hits section: %w", ErrBadSnapshot, err)
		}
	}

	return &ScanSnapshot[T, D]{
		pattern: append([]byte(nil), meta.Pattern...),
		m:       len(meta.Pattern),
		textLen: meta.TextLen,
		maxDist: D(meta.MaxDist),
		tb:      traceback.NewStoreFromHistory(history, int(hdr.FirstCol), len(meta.Pattern), traceback.Policy(hdr.Policy)),
		hits:    hits,
	}, nil
}

// Pattern returns a copy of the pattern the scan was made with.
func (s *ScanSnapshot[T, D]) Pattern() []byte {
	return append([]byte(nil), s.pattern...)
}

// TextLen returns the length of the scanned text.
func (s *ScanSnapshot[T, D]) TextLen() int { return s.textLen }

// MaxDist returns the distance threshold the scan was made with.
func (s *ScanSnapshot[T, D]) MaxDist() D { return s.maxDist }

// Columns returns the number of text columns the scan had consumed when
// the snapshot was taken.
func (s *ScanSnapshot[T, D]) Columns() int { return s.tb.Columns() }

// Hits returns the set of matching end positions recorded before the
// snapshot was taken. The returned bitmap is a copy.
func (s *ScanSnapshot[T, D]) Hits() *roaring.Bitmap {
	return s.hits.Clone()
}

// DistAt returns the edit distance at end position endPos.
func (s *ScanSnapshot[T, D]) DistAt(endPos int) (D, bool) {
	if endPos < 0 {
		return 0, false
	}
	return s.tb.DistAt(endPos)
}

// HitAt returns the start position and distance of the match ending at
// endPos.
func (s *ScanSnapshot[T, D]) HitAt(endPos int) (start int, dist D, ok bool) {
	if endPos < 0 {
		return 0, 0, false
	}
	length, dist, ok := s.tb.TracebackAt(endPos, nil)
	if !ok {
		return 0, 0, false
	}
	return endPos + 1 - length, dist, true
}

// PathAt fills ops with the forward-order edit operations of the match
// ending at endPos and returns its start position and distance.
func (s *ScanSnapshot[T, D]) PathAt(endPos int, ops *[]alignment.Operation) (start int, dist D, ok bool) {
	start, dist, ok = s.PathAtReverse(endPos, ops)
	if ok {
		alignment.Reverse(*ops)
	}
	return start, dist, ok
}

// PathAtReverse is PathAt with reverse-order operations.
func (s *ScanSnapshot[T, D]) PathAtReverse(endPos int, ops *[]alignment.Operation) (start int, dist D, ok bool) {
	if endPos < 0 {
		return 0, 0, false
	}
	length, dist, ok := s.tb.TracebackAt(endPos, ops)
	if !ok {
		return 0, 0, false
	}
	return endPos + 1 - length, dist, true
}

// AlignmentAt populates aln for the match ending at endPos.
func (s *ScanSnapshot[T, D]) AlignmentAt(endPos int, aln *alignment.Alignment) bool {
	if endPos < 0 {
		return false
	}
	length, dist, ok := s.tb.TracebackAt(endPos, &aln.Operations)
	if !ok {
		return false
	}
	alignment.Reverse(aln.Operations)
	alignment.Update(aln, endPos, length, s.textLen, int(dist), s.m)
	return true
}

// encodeStates packs column states as little-endian Pv, Mv, Dist
// triples with type-derived strides.
func encodeStates[T automaton.Word, D automaton.Dist](states []automaton.State[T, D]) []byte {
	wb := automaton.WordBits[T]() / 8
	db := automaton.DistBits[D]() / 8
	out := make([]byte, len(states)*(2*wb+db))
	off := 0
	for _, st := range states {
		putUintN(out[off:], uint64(st.Pv), wb)
		off += wb
		putUintN(out[off:], uint64(st.Mv), wb)
		off += wb
		putUintN(out[off:], uint64(st.Dist), db)
		off += db
	}
	return out
}

func decodeStates[T automaton.Word, D automaton.Dist](data []byte, count int) ([]automaton.State[T, D], error) {
	wb := automaton.WordBits[T]() / 8
	db := automaton.DistBits[D]() / 8
	stride := 2*wb + db
	if count < 0 || len(data) != count*stride {
		return nil, fmt.Errorf("states section has %d bytes, want %d", len(data), count*stride)
	}

	states := make([]automaton.State[T, D], count)
	off := 0
	for i := range states {
		states[i].Pv = T(getUintN(data[off:], wb))
		off += wb
		states[i].Mv = T(getUintN(data[off:], wb))
		off += wb
		states[i].Dist = D(getUintN(data[off:], db))
		off += db
	}
	return states, nil
}

func putUintN(b []byte, v uint64, n int) {
	for i := 0; i < n; i++ {
		b[i] = byte(v >> (8 * i))
	}
}

func getUintN(b []byte, n int) uint64 {
	var v uint64
	for i := 0; i < n; i++ {
		v |= uint64(b[i]) << (8 * i)
	}
	return v
}
