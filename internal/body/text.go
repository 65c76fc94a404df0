package body

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

const lineFormat = "%5d %9f %9f %9f\n"

// AppendText appends the configuration line of b to dst.
func (b *Body) AppendText(dst []byte) ([]byte, error) {
	return fmt.Appendf(dst, lineFormat, b.Type, b.pos.X, b.pos.Y, b.orientation), nil
}

// MarshalText returns the configuration line of b, newline included.
func (b *Body) MarshalText() ([]byte, error) {
	return b.AppendText(nil)
}

// WriteTo writes the configuration line of b to w.
func (b *Body) WriteTo(w io.Writer) (int64, error) {
	line, _ := b.AppendText(nil)
	n, err := w.Write(line)
	return int64(n), err
}

// WriteFile writes the configuration line of b to an open file and returns
// the number of bytes written.
func (b *Body) WriteFile(f *os.File) (int, error) {
	line, _ := b.AppendText(nil)
	return f.Write(line)
}

// Parse reads a body back from one configuration line. The cache of the
// result is stale.
func Parse(line string) (*Body, error) {
	fields := strings.Fields(line)
	if len(fields) != 4 {
		return nil, fmt.Errorf("%w: %q", ErrMalformedLine, line)
	}

	typ, err := strconv.Atoi(fields[0])
	if err != nil {
		return nil, fmt.Errorf("%w: type %q: %v", ErrMalformedLine, fields[0], err)
	}

	var vals [3]float64
	for i, f := range fields[1:] {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: field %d %q: %v", ErrMalformedLine, i+2, f, err)
		}
		vals[i] = v
	}

	return New(typ, vals[0], vals[1], vals[2]), nil
}

// WriteConfiguration writes one line per body.
func WriteConfiguration(w io.Writer, bodies []*Body) error {
	bw := bufio.NewWriter(w)
	for _, b := range bodies {
		if _, err := b.WriteTo(bw); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// ReadConfiguration parses lines written by WriteConfiguration. Blank lines
// and lines starting with '#' are skipped.
func ReadConfiguration(r io.Reader) ([]*Body, error) {
	var bodies []*Body

	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		b, err := Parse(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		bodies = append(bodies, b)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}

	return bodies, nil
}
