// Package solid builds mesh solids from centerlines, cylinders and
// arrows, by transforming unit prism and cone templates.
package solid

import (
	"github.com/leapstack-labs/geoscene/pkg/geo"
	"github.com/leapstack-labs/geoscene/pkg/mesh"
)

// Decagon prism spanning z in [-0.5, 0.5] with unit diameter.
func unitCylinderGeometry() ([]*geo.Point, [][3]int) {
	vertices := []*geo.Point{
		geo.NewPoint(0.5, 0.0, -0.5),
		geo.NewPoint(0.404508, 0.293893, -0.5),
		geo.NewPoint(0.154508, 0.475528, -0.5),
		geo.NewPoint(-0.154508, 0.475528, -0.5),
		geo.NewPoint(-0.404508, 0.293893, -0.5),
		geo.NewPoint(-0.5, 0.0, -0.5),
		geo.NewPoint(-0.404508, -0.293893, -0.5),
		geo.NewPoint(-0.154508, -0.475528, -0.5),
		geo.NewPoint(0.154508, -0.475528, -0.5),
		geo.NewPoint(0.404508, -0.293893, -0.5),
		geo.NewPoint(0.5, 0.0, 0.5),
		geo.NewPoint(0.404508, 0.293893, 0.5),
		geo.NewPoint(0.154508, 0.475528, 0.5),
		geo.NewPoint(-0.154508, 0.475528, 0.5),
		geo.NewPoint(-0.404508, 0.293893, 0.5),
		geo.NewPoint(-0.5, 0.0, 0.5),
		geo.NewPoint(-0.404508, -0.293893, 0.5),
		geo.NewPoint(-0.154508, -0.475528, 0.5),
		geo.NewPoint(0.154508, -0.475528, 0.5),
		geo.NewPoint(0.404508, -0.293893, 0.5),
	}

	triangles := [][3]int{
		{0, 1, 11}, {0, 11, 10},
		{1, 2, 12}, {1, 12, 11},
		{2, 3, 13}, {2, 13, 12},
		{3, 4, 14}, {3, 14, 13},
		{4, 5, 15}, {4, 15, 14},
		{5, 6, 16}, {5, 16, 15},
		{6, 7, 17}, {6, 17, 16},
		{7, 8, 18}, {7, 18, 17},
		{8, 9, 19}, {8, 19, 18},
		{9, 0, 10}, {9, 10, 19},
	}

	return vertices, triangles
}

// Octagonal cone with apex at z = 0.5 and unit-diameter base at
// z = -0.5.
func unitConeGeometry() ([]*geo.Point, [][3]int) {
	vertices := []*geo.Point{
		geo.NewPoint(0.0, 0.0, 0.5),
		geo.NewPoint(0.5, 0.0, -0.5),
		geo.NewPoint(0.353553, -0.353553, -0.5),
		geo.NewPoint(0.0, -0.5, -0.5),
		geo.NewPoint(-0.353553, -0.353553, -0.5),
		geo.NewPoint(-0.5, 0.0, -0.5),
		geo.NewPoint(-0.353553, 0.353553, -0.5),
		geo.NewPoint(0.0, 0.5, -0.5),
		geo.NewPoint(0.353553, 0.353553, -0.5),
	}

	triangles := [][3]int{
		{0, 2, 1}, {0, 3, 2}, {0, 4, 3}, {0, 5, 4},
		{0, 6, 5}, {0, 7, 6}, {0, 8, 7}, {0, 1, 8},
	}

	return vertices, triangles
}

// lineFrame returns unit axes oriented along the line, with the line
// direction as z.
func lineFrame(line *geo.Line) (xAxis, yAxis, zAxis *geo.Vector) {
	zAxis = line.ToVector().Normalize()
	if zAxis.Z() < 0.9 && zAxis.Z() > -0.9 {
		xAxis = geo.NewVector(0, 0, 1).Cross(zAxis).Normalize()
	} else {
		xAxis = geo.NewVector(1, 0, 0).Cross(zAxis).Normalize()
	}
	yAxis = zAxis.Cross(xAxis).Normalize()
	return xAxis, yAxis, zAxis
}

func appendGeometry(m *mesh.Mesh, vertices []*geo.Point, triangles [][3]int, xform *geo.Xform) {
	keys := make([]int, len(vertices))
	for i, v := range vertices {
		keys[i] = m.AddVertex(xform.TransformedPoint(v), -1)
	}
	for _, tri := range triangles {
		m.AddFace([]int{keys[tri[0]], keys[tri[1]], keys[tri[2]]}, -1)
	}
}
