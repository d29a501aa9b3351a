package mesh

// boxFaces lists the 12 triangles of a cuboid over its corners, where corner
// bit 0 selects max x, bit 1 max y and bit 2 max z.
var boxFaces = [12]Face{
	{0, 2, 3}, {0, 3, 1}, // -z
	{4, 5, 7}, {4, 7, 6}, // +z
	{0, 1, 5}, {0, 5, 4}, // -y
	{2, 6, 7}, {2, 7, 3}, // +y
	{0, 4, 6}, {0, 6, 2}, // -x
	{1, 3, 7}, {1, 7, 5}, // +x
}

// NewBox returns a closed cuboid of the given size centred on center.
func NewBox(name string, size, center Vec3) *Mesh {
	h := size.Scale(0.5)
	m := &Mesh{Name: name, Vertices: make([]Vec3, 8), Faces: make([]Face, 0, 12)}
	for i := range m.Vertices {
		c := center.Sub(h)
		if i&1 != 0 {
			c.X = center.X + h.X
		}
		if i&2 != 0 {
			c.Y = center.Y + h.Y
		}
		if i&4 != 0 {
			c.Z = center.Z + h.Z
		}
		m.Vertices[i] = c
	}
	m.Faces = append(m.Faces, boxFaces[:]...)
	return m
}
