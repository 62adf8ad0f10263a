// Sessionrank - Session-Based Next-Item Recommendation Core
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sessionrank

package tensor

// IntMatrix is a dense row-major (rows, cols) matrix of item ids.
type IntMatrix struct {
	Rows int
	Cols int
	Data []int
}

// NewIntMatrix allocates a rows x cols matrix filled with fill.
func NewIntMatrix(rows, cols, fill int) *IntMatrix {
	m := &IntMatrix{Rows: rows, Cols: cols, Data: make([]int, rows*cols)}
	if fill != 0 {
		for i := range m.Data {
			m.Data[i] = fill
		}
	}
	return m
}

// IntMatrixFromRows builds a matrix from nested rows.
// Every row must have the same, non-zero length.
func IntMatrixFromRows(rows [][]int) (*IntMatrix, error) {
	if len(rows) == 0 {
		return nil, invalidShape("item ids need at least one row")
	}
	cols := len(rows[0])
	if cols == 0 {
		return nil, invalidShape("item ids need at least one column")
	}

	m := NewIntMatrix(len(rows), cols, 0)
	for i, row := range rows {
		if len(row) != cols {
			return nil, invalidShape("row %d has length %d, want %d", i, len(row), cols)
		}
		copy(m.Data[i*cols:(i+1)*cols], row)
	}
	return m, nil
}

// At returns the value at (i, j).
func (m *IntMatrix) At(i, j int) int {
	return m.Data[i*m.Cols+j]
}

// Set stores v at (i, j).
func (m *IntMatrix) Set(i, j, v int) {
	m.Data[i*m.Cols+j] = v
}

// Row returns a view of row i. Writes through the view modify the matrix.
func (m *IntMatrix) Row(i int) []int {
	return m.Data[i*m.Cols : (i+1)*m.Cols]
}

// ToRows copies the matrix into nested slices.
func (m *IntMatrix) ToRows() [][]int {
	out := make([][]int, m.Rows)
	for i := range out {
		out[i] = append([]int(nil), m.Row(i)...)
	}
	return out
}

// Clone returns a deep copy.
func (m *IntMatrix) Clone() *IntMatrix {
	return &IntMatrix{Rows: m.Rows, Cols: m.Cols, Data: append([]int(nil), m.Data...)}
}

// BoolMatrix is a dense row-major (rows, cols) boolean matrix.
type BoolMatrix struct {
	Rows int
	Cols int
	Data []bool
}

// NewBoolMatrix allocates a rows x cols matrix of false values.
func NewBoolMatrix(rows, cols int) *BoolMatrix {
	return &BoolMatrix{Rows: rows, Cols: cols, Data: make([]bool, rows*cols)}
}

// At returns the value at (i, j).
func (m *BoolMatrix) At(i, j int) bool {
	return m.Data[i*m.Cols+j]
}

// Set stores v at (i, j).
func (m *BoolMatrix) Set(i, j int, v bool) {
	m.Data[i*m.Cols+j] = v
}

// Row returns a view of row i.
func (m *BoolMatrix) Row(i int) []bool {
	return m.Data[i*m.Cols : (i+1)*m.Cols]
}

// RowCount returns the number of true cells in row i.
func (m *BoolMatrix) RowCount(i int) int {
	n := 0
	for _, v := range m.Row(i) {
		if v {
			n++
		}
	}
	return n
}

// Count returns the number of true cells.
func (m *BoolMatrix) Count() int {
	n := 0
	for _, v := range m.Data {
		if v {
			n++
		}
	}
	return n
}

// SameShape reports whether m has the given dimensions.
func (m *BoolMatrix) SameShape(rows, cols int) bool {
	return m.Rows == rows && m.Cols == cols
}
