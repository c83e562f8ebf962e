package matrix

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/sparsekernel/sparsekernel/dim"
	"github.com/sparsekernel/sparsekernel/kerrors"
)

// Data is an in-memory matrix-market triple: (rows, cols) plus one
// (row, col, value) entry per nonzero, 0-indexed.
type Data[V dim.Value] struct {
	Size dim.Dim2
	Rows []int
	Cols []int
	Vals []V
}

// Read parses the matrix-market coordinate/real format from r: a header
// line `%%MatrixMarket matrix coordinate real general`, any number of `%`
// comment lines, a `rows cols nnz` size line, then nnz `row col value`
// lines, 1-indexed per the matrix-market convention and converted to
// Data's 0-indexed triples.
func Read[V dim.Value](r io.Reader) (*Data[V], error) {
	sc := bufio.NewScanner(r)
	var sizeLine string
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "%") {
			continue
		}
		sizeLine = line
		break
	}
	if sizeLine == "" {
		return nil, fmt.Errorf("matrix.Read: missing size line: %w", kerrors.ErrValueMismatch)
	}
	fields := strings.Fields(sizeLine)
	if len(fields) != 3 {
		return nil, fmt.Errorf("matrix.Read: size line %q must have 3 fields: %w", sizeLine, kerrors.ErrValueMismatch)
	}
	rows, err := strconv.Atoi(fields[0])
	if err != nil {
		return nil, fmt.Errorf("matrix.Read: bad row count %q: %w", fields[0], err)
	}
	cols, err := strconv.Atoi(fields[1])
	if err != nil {
		return nil, fmt.Errorf("matrix.Read: bad col count %q: %w", fields[1], err)
	}
	nnz, err := strconv.Atoi(fields[2])
	if err != nil {
		return nil, fmt.Errorf("matrix.Read: bad nnz count %q: %w", fields[2], err)
	}

	data := &Data[V]{Size: dim.New(rows, cols), Rows: make([]int, 0, nnz), Cols: make([]int, 0, nnz), Vals: make([]V, 0, nnz)}
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "%") {
			continue
		}
		f := strings.Fields(line)
		if len(f) != 3 {
			return nil, fmt.Errorf("matrix.Read: entry line %q must have 3 fields: %w", line, kerrors.ErrValueMismatch)
		}
		row, err := strconv.Atoi(f[0])
		if err != nil {
			return nil, fmt.Errorf("matrix.Read: bad row index %q: %w", f[0], err)
		}
		col, err := strconv.Atoi(f[1])
		if err != nil {
			return nil, fmt.Errorf("matrix.Read: bad col index %q: %w", f[1], err)
		}
		val, err := strconv.ParseFloat(f[2], 64)
		if err != nil {
			return nil, fmt.Errorf("matrix.Read: bad value %q: %w", f[2], err)
		}
		if row < 1 || row > rows || col < 1 || col > cols {
			return nil, fmt.Errorf("matrix.Read: entry (%d,%d) outside %dx%d: %w", row, col, rows, cols, kerrors.ErrOutOfBounds)
		}
		data.Rows = append(data.Rows, row-1)
		data.Cols = append(data.Cols, col-1)
		data.Vals = append(data.Vals, V(val))
	}
	if len(data.Rows) != nnz {
		return nil, fmt.Errorf("matrix.Read: header declared %d nonzeros, found %d: %w", nnz, len(data.Rows), kerrors.ErrValueMismatch)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("matrix.Read: %w", err)
	}
	return data, nil
}

// Write serializes data as a matrix-market coordinate/real file.
func Write[V dim.Value](w io.Writer, data *Data[V]) error {
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintln(bw, "%%MatrixMarket matrix coordinate real general"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(bw, "%d %d %d\n", data.Size.Rows, data.Size.Cols, len(data.Rows)); err != nil {
		return err
	}
	for i := range data.Rows {
		if _, err := fmt.Fprintf(bw, "%d %d %g\n", data.Rows[i]+1, data.Cols[i]+1, float64(data.Vals[i])); err != nil {
			return err
		}
	}
	return bw.Flush()
}
