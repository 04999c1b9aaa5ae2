package geo

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/google/uuid"
)

// Color is an RGBA color with identity fields.
type Color struct {
	GUID string `json:"guid"`
	Name string `json:"name"`
	R    uint8  `json:"r"`
	G    uint8  `json:"g"`
	B    uint8  `json:"b"`
	A    uint8  `json:"a"`
}

// NewColor creates a color from RGBA channel values.
func NewColor(r, g, b, a uint8) *Color {
	return &Color{
		GUID: uuid.New().String(),
		Name: "Color",
		R:    r,
		G:    g,
		B:    b,
		A:    a,
	}
}

func preset(name string, r, g, b uint8) *Color {
	c := NewColor(r, g, b, 255)
	c.Name = name
	return c
}

// Preset colors. Each sets its name.
func White() *Color   { return preset("white", 255, 255, 255) }
func Black() *Color   { return preset("black", 0, 0, 0) }
func Grey() *Color    { return preset("grey", 128, 128, 128) }
func Red() *Color     { return preset("red", 255, 0, 0) }
func Orange() *Color  { return preset("orange", 255, 128, 0) }
func Yellow() *Color  { return preset("yellow", 255, 255, 0) }
func Lime() *Color    { return preset("lime", 128, 255, 0) }
func Green() *Color   { return preset("green", 0, 255, 0) }
func Mint() *Color    { return preset("mint", 0, 255, 128) }
func Cyan() *Color    { return preset("cyan", 0, 255, 255) }
func Azure() *Color   { return preset("azure", 0, 128, 255) }
func Blue() *Color    { return preset("blue", 0, 0, 255) }
func Violet() *Color  { return preset("violet", 128, 0, 255) }
func Magenta() *Color { return preset("magenta", 255, 0, 255) }
func Pink() *Color    { return preset("pink", 255, 0, 128) }
func Maroon() *Color  { return preset("maroon", 128, 0, 0) }
func Brown() *Color   { return preset("brown", 128, 64, 0) }
func Olive() *Color   { return preset("olive", 128, 128, 0) }
func Teal() *Color    { return preset("teal", 0, 128, 128) }
func Navy() *Color    { return preset("navy", 0, 0, 128) }
func Purple() *Color  { return preset("purple", 128, 0, 128) }
func Silver() *Color  { return preset("silver", 192, 192, 192) }

// ToFloatArray converts the channels to floats in [0, 1].
func (c *Color) ToFloatArray() [4]float64 {
	return [4]float64{
		float64(c.R) / 255,
		float64(c.G) / 255,
		float64(c.B) / 255,
		float64(c.A) / 255,
	}
}

// ColorFromFloat creates a color from channel floats in [0, 1].
func ColorFromFloat(r, g, b, a float64) *Color {
	return NewColor(
		uint8(math.Round(r*255)),
		uint8(math.Round(g*255)),
		uint8(math.Round(b*255)),
		uint8(math.Round(a*255)),
	)
}

// Clone returns a copy preserving guid and name.
func (c *Color) Clone() *Color {
	cp := *c
	return &cp
}

// Equals compares name and channels; guids are ignored.
func (c *Color) Equals(other *Color) bool {
	if c == nil || other == nil {
		return c == other
	}
	return c.Name == other.Name && c.R == other.R && c.G == other.G && c.B == other.B && c.A == other.A
}

func (c *Color) String() string {
	return fmt.Sprintf("Color(r=%d, g=%d, b=%d, a=%d, name=%s)", c.R, c.G, c.B, c.A, c.Name)
}

type colorJSON struct {
	Type string `json:"type"`
	GUID string `json:"guid"`
	Name string `json:"name"`
	R    uint8  `json:"r"`
	G    uint8  `json:"g"`
	B    uint8  `json:"b"`
	A    uint8  `json:"a"`
}

// MarshalJSON implements json.Marshaler.
func (c Color) MarshalJSON() ([]byte, error) {
	return json.Marshal(colorJSON{
		Type: "Color",
		GUID: c.GUID,
		Name: c.Name,
		R:    c.R,
		G:    c.G,
		B:    c.B,
		A:    c.A,
	})
}

// UnmarshalJSON implements json.Unmarshaler.
func (c *Color) UnmarshalJSON(data []byte) error {
	var raw colorJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	c.GUID = raw.GUID
	c.Name = raw.Name
	c.R, c.G, c.B, c.A = raw.R, raw.G, raw.B, raw.A
	return nil
}
