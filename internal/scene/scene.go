// Package scene reads YAML scene documents and draws them with swraster.
//
// A document is validated against an embedded JSON schema before it is
// decoded, so structural mistakes are reported with their location in the
// document rather than as zero values at render time.
package scene

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"
)

//go:embed scene.schema.json
var schemaJSON []byte

// ErrInvalid is returned for documents that fail validation.
var ErrInvalid = errors.New("scene: invalid document")

var schema = mustSchema()

func mustSchema() *gojsonschema.Schema {
	s, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(schemaJSON))
	if err != nil {
		panic(fmt.Sprintf("scene: embedded schema: %v", err))
	}
	return s
}

// Document is a decoded scene.
type Document struct {
	Width      int      `yaml:"width"`
	Height     int      `yaml:"height"`
	Background string   `yaml:"background"`
	Shapes     []Shape  `yaml:"shapes"`
	Effects    []Effect `yaml:"effects"`
}

// Shape is one filled or stroked shape. Which geometry fields apply
// depends on Kind.
type Shape struct {
	Kind string `yaml:"kind"`

	X  float64 `yaml:"x"`
	Y  float64 `yaml:"y"`
	W  float64 `yaml:"w"`
	H  float64 `yaml:"h"`
	R  float64 `yaml:"r"`
	CX float64 `yaml:"cx"`
	CY float64 `yaml:"cy"`
	RX float64 `yaml:"rx"`
	RY float64 `yaml:"ry"`

	Points [][]float64 `yaml:"points"`
	D      string      `yaml:"d"`

	Transform *Transform `yaml:"transform"`
	Stroke    *Stroke    `yaml:"stroke"`
	Paint     Paint      `yaml:"paint"`
	Composite string     `yaml:"composite"` // src_over (default) or src
	Clip      []float64  `yaml:"clip"`
}

// Transform places a shape. Matrix or Perspective, when present, replace
// the translate, rotate and scale components, which otherwise apply in
// that order.
type Transform struct {
	Translate   []float64 `yaml:"translate"`
	Scale       []float64 `yaml:"scale"`
	Rotate      float64   `yaml:"rotate"` // degrees
	Matrix      []float64 `yaml:"matrix"`
	Perspective []float64 `yaml:"perspective"`
}

// Stroke strokes the outline instead of filling it.
type Stroke struct {
	Width      float64   `yaml:"width"`
	Cap        string    `yaml:"cap"`
	Join       string    `yaml:"join"`
	MiterLimit float64   `yaml:"miter_limit"`
	Dash       []float64 `yaml:"dash"`
	DashPhase  float64   `yaml:"dash_phase"`
}

// Paint holds exactly one of its fields.
type Paint struct {
	Color  string    `yaml:"color"`
	Linear *Gradient `yaml:"linear"`
	Radial *Gradient `yaml:"radial"`
}

// Gradient describes a linear (From, To) or radial (Center, Radius,
// Focus) gradient.
type Gradient struct {
	From   []float64 `yaml:"from"`
	To     []float64 `yaml:"to"`
	Center []float64 `yaml:"center"`
	Radius float64   `yaml:"radius"`
	Focus  []float64 `yaml:"focus"`
	Cycle  string    `yaml:"cycle"`
	Stops  []Stop    `yaml:"stops"`
}

// Stop is a gradient stop.
type Stop struct {
	Offset float64 `yaml:"offset"`
	Color  string  `yaml:"color"`
}

// Effect is a post-processing filter applied to the whole scene. Exactly
// one field is set.
type Effect struct {
	Displacement *Displacement `yaml:"displacement"`
	Color        *Color        `yaml:"color"`
}

// Color adjusts colors with a color matrix. The adjustments apply in
// field order.
type Color struct {
	Brightness *float64 `yaml:"brightness"`
	Saturation *float64 `yaml:"saturation"`
	Opacity    *float64 `yaml:"opacity"`
	Invert     bool     `yaml:"invert"`
}

// Displacement configures a displacement-map filter whose map is a sine
// wave across the rows.
type Displacement struct {
	Scale  []float64 `yaml:"scale"`
	Offset []float64 `yaml:"offset"`
	Wrap   bool      `yaml:"wrap"`
	Wave   *Wave     `yaml:"wave"`
}

// Wave shifts each row horizontally by Amplitude*sin(2*pi*Period*v) for
// normalized row position v, sampled on a Size x Size map.
type Wave struct {
	Amplitude float64 `yaml:"amplitude"`
	Period    float64 `yaml:"period"`
	Size      int     `yaml:"size"`
}

// Load reads and validates the scene at path.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("scene: %w", err)
	}
	doc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// Parse validates and decodes a YAML scene.
func Parse(data []byte) (*Document, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("scene: %w", err)
	}
	if raw == nil {
		return nil, fmt.Errorf("%w: empty document", ErrInvalid)
	}
	if err := validate(raw); err != nil {
		return nil, err
	}

	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("scene: %w", err)
	}
	for i := range doc.Shapes {
		if err := doc.Shapes[i].check(); err != nil {
			return nil, fmt.Errorf("%w: shapes.%d: %w", ErrInvalid, i, err)
		}
	}
	return &doc, nil
}

func validate(raw any) error {
	res, err := schema.Validate(gojsonschema.NewGoLoader(raw))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if res.Valid() {
		return nil
	}
	msgs := make([]string, 0, len(res.Errors()))
	for _, e := range res.Errors() {
		msgs = append(msgs, e.String())
	}
	return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(msgs, "; "))
}

// check enforces the geometry each kind needs beyond what the schema can
// express per kind.
func (s *Shape) check() error {
	switch s.Kind {
	case "rect", "rounded_rect":
		if s.W <= 0 || s.H <= 0 {
			return fmt.Errorf("%s needs positive w and h", s.Kind)
		}
	case "circle":
		if s.R <= 0 {
			return errors.New("circle needs a positive r")
		}
	case "ellipse":
		if s.RX <= 0 || s.RY <= 0 {
			return errors.New("ellipse needs positive rx and ry")
		}
	case "polygon":
		if len(s.Points) < 2 {
			return errors.New("polygon needs at least two points")
		}
	case "path":
		if _, err := parsePathData(s.D); err != nil {
			return err
		}
	}
	return nil
}
