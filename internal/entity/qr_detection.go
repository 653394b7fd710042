package entity

// PointMatrix carries the raw corner-point data a detector backend returns
// for one QR code. Backends disagree on layout: some produce a 4x2 block
// (one row per corner), others a flattened x1,y1,...,x4,y4 sequence, and
// some produce nothing usable at all. Consumers must not assume any shape
// beyond what Rows, Cols and Data describe.
type PointMatrix struct {
	Rows int
	Cols int
	Data []float32
}

// At returns the element at row r, column c of a row-major matrix.
func (m PointMatrix) At(r, c int) float32 {
	return m.Data[r*m.Cols+c]
}

// Total reports the number of scalar entries regardless of shape.
func (m PointMatrix) Total() int {
	return len(m.Data)
}

// RawDetection is a single decoded QR code as produced by a detector
// backend, before any geometry normalization.
type RawDetection struct {
	Text   string
	Points PointMatrix
}
