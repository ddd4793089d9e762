package terrain

import (
	"gonum.org/v1/gonum/spatial/r3"
)

// Edge joins two vertex indices.
type Edge [2]int

// Mesh is a flat rectangular grid of Cols×Rows vertices, triangulated and
// reduced to its unique wireframe edges.
//
// Vertex (col, row) sits at index row*Cols+col, with x running from −W/2 to
// +W/2 and y from +H/2 down to −H/2, where W = Cols−1 and H = Rows−1 (unit
// spacing). This is the same order as [Heightmap], so elevations can be
// copied straight into Z.
type Mesh struct {
	Cols     int
	Rows     int
	Vertices []r3.Vec
	Normals  []r3.Vec
	Edges    []Edge
}

// NewPlane builds a flat cols×rows grid with unit spacing. Dimensions below
// two are raised to two so that the plane has at least one cell.
func NewPlane(cols, rows int) *Mesh {
	cols, rows = max(cols, 2), max(rows, 2)
	w, h := float64(cols-1), float64(rows-1)

	m := &Mesh{
		Cols:     cols,
		Rows:     rows,
		Vertices: make([]r3.Vec, 0, cols*rows),
		Normals:  make([]r3.Vec, cols*rows),
	}
	for row := range rows {
		y := h/2 - float64(row)
		for col := range cols {
			m.Vertices = append(m.Vertices, r3.Vec{X: float64(col) - w/2, Y: y})
		}
	}
	m.Edges = gridEdges(cols, rows)
	m.ComputeNormals()
	return m
}

// gridEdges lists each wireframe edge once. Every cell contributes its top,
// left and diagonal edges; bottom and right edges are added only on the last
// row and column, since elsewhere they belong to a neighbour.
func gridEdges(cols, rows int) []Edge {
	sx, sy := cols-1, rows-1
	edges := make([]Edge, 0, 3*sx*sy+sx+sy)
	for iy := range sy {
		for ix := range sx {
			a := iy*cols + ix
			b := (iy+1)*cols + ix
			c := (iy+1)*cols + ix + 1
			d := iy*cols + ix + 1
			edges = append(edges, Edge{a, d}, Edge{a, b}, Edge{b, d})
			if iy == sy-1 {
				edges = append(edges, Edge{b, c})
			}
			if ix == sx-1 {
				edges = append(edges, Edge{d, c})
			}
		}
	}
	return edges
}

// triangles calls fn for the two triangles of every cell, wound
// counter-clockwise when seen from +Z.
func (m *Mesh) triangles(fn func(i, j, k int)) {
	for iy := range m.Rows - 1 {
		for ix := range m.Cols - 1 {
			a := iy*m.Cols + ix
			b := (iy+1)*m.Cols + ix
			c := (iy+1)*m.Cols + ix + 1
			d := iy*m.Cols + ix + 1
			fn(a, b, d)
			fn(b, c, d)
		}
	}
}

// SetHeights copies h into the Z coordinate of every vertex and recomputes
// normals. h must have exactly Cols·Rows values.
func (m *Mesh) SetHeights(h Heightmap) {
	if h.Len() != len(m.Vertices) {
		panic("terrain: heightmap size does not match mesh")
	}
	for i, z := range h.Values {
		m.Vertices[i].Z = z
	}
	m.ComputeNormals()
}

// ComputeNormals sets each vertex normal to the normalized sum of the
// normals of the faces around it. Degenerate vertices get +Z.
func (m *Mesh) ComputeNormals() {
	for i := range m.Normals {
		m.Normals[i] = r3.Vec{}
	}
	m.triangles(func(i, j, k int) {
		vi, vj, vk := m.Vertices[i], m.Vertices[j], m.Vertices[k]
		n := r3.Cross(r3.Sub(vj, vi), r3.Sub(vk, vi))
		m.Normals[i] = r3.Add(m.Normals[i], n)
		m.Normals[j] = r3.Add(m.Normals[j], n)
		m.Normals[k] = r3.Add(m.Normals[k], n)
	})
	for i, n := range m.Normals {
		if r3.Norm(n) == 0 {
			m.Normals[i] = r3.Vec{Z: 1}
			continue
		}
		m.Normals[i] = r3.Unit(n)
	}
}
