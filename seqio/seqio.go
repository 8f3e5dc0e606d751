// Package seqio reads cofold input sequences from disk and correlates
// them with a content digest for logging, the ambient I/O surface
// spec.md §1 explicitly scopes out of the core engine ("sequence encoding
// and ASCII I/O ... are external collaborators").
package seqio

import (
	"bufio"
	"context"
	"io"
	"strings"

	"blainsmith.com/go/seahash"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/vcontext"
	"github.com/klauspost/compress/gzip"
	"github.com/pkg/errors"
	"github.com/viennafold/cofold/seqmodel"
)

// Open opens path for reading, transparently decompressing it if the name
// ends in ".gz". The returned closer must be closed by the caller.
func Open(ctx context.Context, path string) (io.ReadCloser, error) {
	f, err := file.Open(ctx, path)
	if err != nil {
		return nil, errors.Wrapf(err, "seqio: opening %q", path)
	}
	r := f.Reader(ctx)
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(r)
		if err != nil {
			_ = f.Close(ctx)
			return nil, errors.Wrapf(err, "seqio: gzip %q", path)
		}
		return &gzipCloser{gz: gz, underlying: f, ctx: ctx}, nil
	}
	return &fileCloser{f: f, ctx: ctx}, nil
}

type fileCloser struct {
	f   file.File
	ctx context.Context
}

func (c *fileCloser) Read(p []byte) (int, error) { return c.f.Reader(c.ctx).Read(p) }
func (c *fileCloser) Close() error                { return c.f.Close(c.ctx) }

type gzipCloser struct {
	gz         *gzip.Reader
	underlying file.File
	ctx        context.Context
}

func (c *gzipCloser) Read(p []byte) (int, error) { return c.gz.Read(p) }
func (c *gzipCloser) Close() error {
	if err := c.gz.Close(); err != nil {
		_ = c.underlying.Close(c.ctx)
		return err
	}
	return c.underlying.Close(c.ctx)
}

// ReadSequence reads a cofold input from path. It accepts two forms:
//
//   - a single line of the "SEQA&SEQB" convention (seqmodel.ParseTwoStrand),
//     or a bare unmarked sequence (cutPoint 0);
//   - a two-record FASTA file, whose records become strand A and strand B.
//
// It logs a seahash digest of the parsed, concatenated sequence at Debug
// level so a run can be correlated with its input without echoing the
// full sequence into the log.
func ReadSequence(ctx context.Context, path string) (seq string, cutPoint int, err error) {
	rc, err := Open(ctx, path)
	if err != nil {
		return "", 0, err
	}
	defer func() { _ = rc.Close() }()

	records, err := parseFastaRecords(rc)
	if err != nil {
		return "", 0, err
	}

	switch len(records) {
	case 0:
		return "", 0, errors.Errorf("seqio: %q contains no sequence data", path)
	case 1:
		seq, cutPoint, err = seqmodel.ParseTwoStrand(records[0])
		if err != nil {
			return "", 0, errors.Wrapf(err, "seqio: parsing %q", path)
		}
	case 2:
		seq = records[0] + records[1]
		cutPoint = len(records[0]) + 1
	default:
		return "", 0, errors.Errorf("seqio: %q has %d records, want 1 or 2", path, len(records))
	}

	if log.At(log.Debug) {
		log.Debug.Printf("seqio: read %q: length=%d cutPoint=%d digest=%x", path, len(seq), cutPoint, Digest(seq))
	}
	return seq, cutPoint, nil
}

// parseFastaRecords reads either FASTA records (">" headers) or, lacking
// any header, raw sequence text whose whitespace-trimmed non-empty lines
// are concatenated into one record.
func parseFastaRecords(r io.Reader) ([]string, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 64*1024*1024)

	var records []string
	var cur strings.Builder
	sawHeader := false

	flush := func() {
		if cur.Len() > 0 {
			records = append(records, cur.String())
			cur.Reset()
		}
	}

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, ">") {
			sawHeader = true
			flush()
			continue
		}
		cur.WriteString(strings.ToUpper(line))
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "seqio: scanning input")
	}
	flush()

	if !sawHeader && len(records) == 1 {
		return records, nil
	}
	return records, nil
}

// Digest returns a seahash content digest of seq, used to correlate log
// lines with input data without logging the sequence itself.
func Digest(seq string) uint64 {
	return seahash.Sum64([]byte(seq))
}
