package mesh

// Face indexes three vertices of a Mesh, counter-clockwise seen from outside.
type Face [3]int

// Mesh is an indexed triangle mesh.
type Mesh struct {
	Name     string
	Vertices []Vec3
	Faces    []Face
}

// New returns an empty mesh with the given name.
func New(name string) *Mesh {
	return &Mesh{Name: name}
}

// AddVertex appends v and returns its index.
func (m *Mesh) AddVertex(v Vec3) int {
	m.Vertices = append(m.Vertices, v)
	return len(m.Vertices) - 1
}

// AddFace appends the triangle (a, b, c).
func (m *Mesh) AddFace(a, b, c int) {
	m.Faces = append(m.Faces, Face{a, b, c})
}

// TriangleCount returns the number of faces.
func (m *Mesh) TriangleCount() int {
	if m == nil {
		return 0
	}
	return len(m.Faces)
}

// IsEmpty reports whether the mesh has no geometry.
func (m *Mesh) IsEmpty() bool {
	return m == nil || len(m.Faces) == 0
}

// Triangle returns the corner positions of the i'th face.
func (m *Mesh) Triangle(i int) [3]Vec3 {
	f := m.Faces[i]
	return [3]Vec3{m.Vertices[f[0]], m.Vertices[f[1]], m.Vertices[f[2]]}
}

// Bounds returns the bounding box of all vertices.
func (m *Mesh) Bounds() Box3 {
	b := EmptyBox3()
	if m == nil {
		return b
	}
	for _, v := range m.Vertices {
		b.ExpandByPoint(v)
	}
	return b
}

// Transformed returns a copy of m with t applied to every vertex. Mirroring
// transforms reverse the winding so faces stay outward.
func (m *Mesh) Transformed(t Affine) *Mesh {
	out := &Mesh{
		Name:     m.Name,
		Vertices: make([]Vec3, len(m.Vertices)),
		Faces:    make([]Face, len(m.Faces)),
	}
	for i, v := range m.Vertices {
		out.Vertices[i] = t.Apply(v)
	}
	flip := t.Det() < 0
	for i, f := range m.Faces {
		if flip {
			f[1], f[2] = f[2], f[1]
		}
		out.Faces[i] = f
	}
	return out
}

// Append copies the vertices and faces of o into m.
func (m *Mesh) Append(o *Mesh) {
	if o == nil {
		return
	}
	base := len(m.Vertices)
	m.Vertices = append(m.Vertices, o.Vertices...)
	for _, f := range o.Faces {
		m.Faces = append(m.Faces, Face{f[0] + base, f[1] + base, f[2] + base})
	}
}

// Normal returns the unit normal of a counter-clockwise triangle.
func Normal(tri [3]Vec3) Vec3 {
	return tri[1].Sub(tri[0]).Cross(tri[2].Sub(tri[0])).Normalize()
}

// OpenEdges counts directed edges that are not matched by exactly one edge
// running the opposite way. A closed, consistently wound surface has none.
func (m *Mesh) OpenEdges() int {
	type edge struct{ a, b int }
	count := make(map[edge]int, len(m.Faces)*3)
	for _, f := range m.Faces {
		for i := 0; i < 3; i++ {
			count[edge{f[i], f[(i+1)%3]}]++
		}
	}
	open := 0
	for e, n := range count {
		if n != 1 || count[edge{e.b, e.a}] != 1 {
			open++
		}
	}
	return open
}

// IsClosed reports whether m is a watertight, consistently oriented surface.
func (m *Mesh) IsClosed() bool {
	return !m.IsEmpty() && m.OpenEdges() == 0
}
