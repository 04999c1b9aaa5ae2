package geo

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// PointCloud is a set of points with optional per-point normals and
// colors. Coordinates serialize as flat arrays.
type PointCloud struct {
	GUID    string
	Name    string
	Points  []*Point
	Normals []*Vector
	Colors  []*Color
	Xform   *Xform
}

// NewPointCloud creates a point cloud from points, normals and colors.
func NewPointCloud(points []*Point, normals []*Vector, colors []*Color) *PointCloud {
	return &PointCloud{
		GUID:    uuid.New().String(),
		Name:    "my_pointcloud",
		Points:  points,
		Normals: normals,
		Colors:  colors,
		Xform:   Identity(),
	}
}

// EmptyPointCloud creates a point cloud with no points.
func EmptyPointCloud() *PointCloud {
	return NewPointCloud(nil, nil, nil)
}

// Len returns the number of points.
func (pc *PointCloud) Len() int { return len(pc.Points) }

// IsEmpty reports whether the cloud has no points.
func (pc *PointCloud) IsEmpty() bool { return len(pc.Points) == 0 }

// Transform applies the stored transform to the points and normals and
// resets it to the identity.
func (pc *PointCloud) Transform() {
	xform := pc.Xform.Clone()
	for _, pt := range pc.Points {
		xform.TransformPoint(pt)
	}
	for _, n := range pc.Normals {
		xform.TransformVector(n)
	}
	pc.Xform = Identity()
}

// Transformed returns a transformed copy.
func (pc *PointCloud) Transformed() *PointCloud {
	c := pc.Clone()
	c.Transform()
	return c
}

// AddVector translates all points by v in place.
func (pc *PointCloud) AddVector(v *Vector) {
	for i, pt := range pc.Points {
		pc.Points[i] = pt.AddVector(v)
	}
}

// SubVector translates all points by -v in place.
func (pc *PointCloud) SubVector(v *Vector) {
	for i, pt := range pc.Points {
		pc.Points[i] = pt.SubVector(v)
	}
}

// Clone returns a deep copy.
func (pc *PointCloud) Clone() *PointCloud {
	c := *pc
	c.Points = make([]*Point, len(pc.Points))
	for i, p := range pc.Points {
		c.Points[i] = p.Clone()
	}
	c.Normals = make([]*Vector, len(pc.Normals))
	for i, n := range pc.Normals {
		c.Normals[i] = n.Clone()
	}
	c.Colors = make([]*Color, len(pc.Colors))
	for i, col := range pc.Colors {
		c.Colors[i] = col.Clone()
	}
	c.Xform = pc.Xform.Clone()
	return &c
}

func (pc *PointCloud) String() string {
	return fmt.Sprintf("PointCloud(points=%d, normals=%d, colors=%d, guid=%s, name=%s)",
		len(pc.Points), len(pc.Normals), len(pc.Colors), pc.GUID, pc.Name)
}

type pointCloudJSON struct {
	Type    string    `json:"type"`
	GUID    string    `json:"guid"`
	Name    string    `json:"name"`
	Points  []float64 `json:"points"`
	Normals []float64 `json:"normals"`
	Colors  []uint8   `json:"colors"`
	Xform   *Xform    `json:"xform"`
}

// MarshalJSON flattens points and normals to [x, y, z, ...] and colors
// to [r, g, b, ...], dropping alpha.
func (pc PointCloud) MarshalJSON() ([]byte, error) {
	pointsFlat := make([]float64, 0, len(pc.Points)*3)
	for _, p := range pc.Points {
		pointsFlat = append(pointsFlat, p.X(), p.Y(), p.Z())
	}
	normalsFlat := make([]float64, 0, len(pc.Normals)*3)
	for _, n := range pc.Normals {
		normalsFlat = append(normalsFlat, n.X(), n.Y(), n.Z())
	}
	colorsFlat := make([]uint8, 0, len(pc.Colors)*3)
	for _, c := range pc.Colors {
		colorsFlat = append(colorsFlat, c.R, c.G, c.B)
	}
	return json.Marshal(pointCloudJSON{
		Type:    "PointCloud",
		GUID:    pc.GUID,
		Name:    pc.Name,
		Points:  pointsFlat,
		Normals: normalsFlat,
		Colors:  colorsFlat,
		Xform:   pc.Xform,
	})
}

// UnmarshalJSON rebuilds points, normals and colors from flat arrays.
// Alpha is restored as 255.
func (pc *PointCloud) UnmarshalJSON(data []byte) error {
	var raw pointCloudJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	pc.GUID = raw.GUID
	pc.Name = raw.Name

	pc.Points = make([]*Point, 0, len(raw.Points)/3)
	for i := 0; i+2 < len(raw.Points); i += 3 {
		pc.Points = append(pc.Points, NewPoint(raw.Points[i], raw.Points[i+1], raw.Points[i+2]))
	}
	pc.Normals = make([]*Vector, 0, len(raw.Normals)/3)
	for i := 0; i+2 < len(raw.Normals); i += 3 {
		pc.Normals = append(pc.Normals, NewVector(raw.Normals[i], raw.Normals[i+1], raw.Normals[i+2]))
	}
	pc.Colors = make([]*Color, 0, len(raw.Colors)/3)
	for i := 0; i+2 < len(raw.Colors); i += 3 {
		pc.Colors = append(pc.Colors, NewColor(raw.Colors[i], raw.Colors[i+1], raw.Colors[i+2], 255))
	}

	pc.Xform = raw.Xform
	if pc.Xform == nil {
		pc.Xform = Identity()
	}
	return nil
}
