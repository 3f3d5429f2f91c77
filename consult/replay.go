package consult

import (
	"bufio"
	"bytes"
	"encoding/hex"
	"io"

	"github.com/pkg/errors"
)

type logRecord struct {
	kind logRecordKind
	data []byte
}

// logCorpus is a parsed replay log: the full sequence of records in
// original file order, plus precomputed flat byte streams per kind so
// reads and writes can be served without re-walking the record list.
type logCorpus struct {
	records []logRecord
	reads   []byte // concatenation of every Read record's bytes, in order
	writes  []byte // concatenation of every Write record's bytes, in order

	// readRecordStart[i] is the flat offset into reads at which the i-th
	// Read record (in original order) begins, and readRecordIndex[i] is
	// that record's index into records. writeRecordStart/writeRecordIndex
	// are the Write-kind equivalents. Together these map a flat byte
	// offset back to the record it came from and vice versa.
	readRecordStart  []int
	readRecordIndex  []int
	writeRecordStart []int
	writeRecordIndex []int
}

func parseLogCorpus(r io.Reader) (*logCorpus, error) {
	c := &logCorpus{}
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			break
		}
		if len(line) < 4 || len(line)%2 != 0 || line[1] != ' ' || (line[0] != 'R' && line[0] != 'W') {
			return nil, errors.Wrapf(ErrMalformedLog, "line %q", line)
		}
		data, err := hex.DecodeString(line[2:])
		if err != nil {
			return nil, errors.Wrapf(ErrMalformedLog, "line %q: %v", line, err)
		}
		kind := logRecordRead
		if line[0] == 'W' {
			kind = logRecordWrite
		}
		recordIdx := len(c.records)
		c.records = append(c.records, logRecord{kind: kind, data: data})
		if kind == logRecordRead {
			c.readRecordStart = append(c.readRecordStart, len(c.reads))
			c.readRecordIndex = append(c.readRecordIndex, recordIdx)
			c.reads = append(c.reads, data...)
		} else {
			c.writeRecordStart = append(c.writeRecordStart, len(c.writes))
			c.writeRecordIndex = append(c.writeRecordIndex, recordIdx)
			c.writes = append(c.writes, data...)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "scanning replay log")
	}
	return c, nil
}

// writeRecordAtFlatOffset returns the global records index of the Write
// record containing the given offset into the flat write stream.
func (c *logCorpus) writeRecordAtFlatOffset(offset int) int {
	lo, hi := 0, len(c.writeRecordStart)-1
	best := 0
	for lo <= hi {
		mid := (lo + hi) / 2
		if c.writeRecordStart[mid] <= offset {
			best = mid
			lo = mid + 1
		} else {
			hi = mid - 1
		}
	}
	return c.writeRecordIndex[best]
}

// ReplayTransport implements ByteTransport by replaying a previously
// recorded trace log instead of talking to real hardware. It exposes two
// logically separate cursors, one over the Read-kind subsequence and one
// over the Write-kind subsequence, kept in sync so that interleaved
// read/write ordering from the original capture is preserved.
type ReplayTransport struct {
	corpus *logCorpus
	wrap   bool
	logger Logger

	readOffset  int // into corpus.reads
	writeOffset int // into corpus.writes
}

// NewReplayTransport parses r as a replay log and returns a ReplayTransport
// over it. When wrap is true, both cursors wrap to the start of their
// respective subsequence on exhaustion instead of failing.
func NewReplayTransport(r io.Reader, wrap bool, l Logger) (*ReplayTransport, error) {
	if l == nil {
		l = NopLogger
	}
	corpus, err := parseLogCorpus(r)
	if err != nil {
		return nil, err
	}
	return &ReplayTransport{corpus: corpus, wrap: wrap, logger: l}, nil
}

// Read walks the read cursor forward by len(p) bytes drawn from the
// Read-kind subsequence of the log, filling p with them.
func (t *ReplayTransport) Read(p []byte) error {
	if len(p) == 0 {
		return nil
	}
	reads := t.corpus.reads
	if len(reads) == 0 {
		return ErrLogExhausted
	}
	collected := 0
	for collected < len(p) {
		remaining := len(reads) - t.readOffset
		if remaining <= 0 {
			if !t.wrap {
				return ErrLogExhausted
			}
			// Every record is non-empty, so wrapping always yields at
			// least one more byte; looping here cannot spin forever.
			t.readOffset = 0
			remaining = len(reads)
		}
		n := len(p) - collected
		if n > remaining {
			n = remaining
		}
		copy(p[collected:collected+n], reads[t.readOffset:t.readOffset+n])
		t.readOffset += n
		collected += n
	}
	logBytes(t.logger, p, "replayed read: ")
	return nil
}

// Write locates bytes as a contiguous substring of the Write-kind
// subsequence at or after the current write cursor, advances the write
// cursor past it, and repositions the read cursor to resynchronise with
// the write's position in the original interleaving.
func (t *ReplayTransport) Write(p []byte) error {
	logBytes(t.logger, p, "replayed write: ")
	if len(p) == 0 {
		return nil
	}
	writes := t.corpus.writes
	idx := indexFrom(writes, p, t.writeOffset)
	if idx < 0 && t.wrap {
		idx = indexFrom(writes, p, 0)
	}
	if idx < 0 {
		return ErrLogExhausted
	}
	matchEnd := idx + len(p) // exclusive: position just past the match's last byte
	t.writeOffset = matchEnd
	t.resyncReadCursor(matchEnd - 1)
	return nil
}

// indexFrom searches haystack for needle starting no earlier than from,
// returning the absolute offset of the first match or -1.
func indexFrom(haystack, needle []byte, from int) int {
	if from > len(haystack) {
		from = len(haystack)
	}
	rel := bytes.Index(haystack[from:], needle)
	if rel < 0 {
		return -1
	}
	return from + rel
}

// resyncReadCursor repositions the read cursor to the first byte of the
// next Read record that follows, in original record order, the Write
// record located at writeFlatOffset in the flat write stream.
func (t *ReplayTransport) resyncReadCursor(writeFlatOffset int) {
	writeRecordIdx := t.corpus.writeRecordAtFlatOffset(writeFlatOffset)
	for ordinal, recordIdx := range t.corpus.readRecordIndex {
		if recordIdx > writeRecordIdx {
			t.readOffset = t.corpus.readRecordStart[ordinal]
			return
		}
	}
	// No later Read record exists; leave the read cursor exhausted so the
	// next Read either wraps or fails, matching there being nothing left
	// to synchronise against.
	t.readOffset = len(t.corpus.reads)
}
