// Package export 把字块序列化为 ASCII STL，并打包为单个 zip 交给 Sink。
package export

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/ByLCY/stampkit/mesh"
)

// ErrInvalidGeometry is returned for meshes that cannot be written as a solid.
var ErrInvalidGeometry = errors.New("export: invalid geometry")

// WriteSTL writes m as an ASCII STL solid, scaling every coordinate by scale.
// Numbers use fixed six-decimal formatting so equal meshes give equal bytes.
func WriteSTL(w io.Writer, name string, m *mesh.Mesh, scale float64) error {
	if m.IsEmpty() {
		return fmt.Errorf("%w: %s has no triangles", ErrInvalidGeometry, name)
	}
	for i, v := range m.Vertices {
		if !finite(v) {
			return fmt.Errorf("%w: %s vertex %d is not finite", ErrInvalidGeometry, name, i)
		}
	}

	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "solid %s\n", name)
	for i := range m.Faces {
		tri := m.Triangle(i)
		for k := range tri {
			tri[k] = tri[k].Scale(scale)
		}
		n := mesh.Normal(tri)
		bw.WriteString("  facet normal ")
		writeVec(bw, n)
		bw.WriteString("\n    outer loop\n")
		for _, p := range tri {
			bw.WriteString("      vertex ")
			writeVec(bw, p)
			bw.WriteByte('\n')
		}
		bw.WriteString("    endloop\n  endfacet\n")
	}
	fmt.Fprintf(bw, "endsolid %s\n", name)
	return bw.Flush()
}

func writeVec(w *bufio.Writer, v mesh.Vec3) {
	w.WriteString(fixed(v.X))
	w.WriteByte(' ')
	w.WriteString(fixed(v.Y))
	w.WriteByte(' ')
	w.WriteString(fixed(v.Z))
}

// fixed formats with six decimals and folds -0.000000 into 0.000000.
func fixed(f float64) string {
	if math.Abs(f) < 5e-7 {
		f = 0
	}
	return strconv.FormatFloat(f, 'f', 6, 64)
}

func finite(v mesh.Vec3) bool {
	for _, f := range []float64{v.X, v.Y, v.Z} {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return false
		}
	}
	return true
}
