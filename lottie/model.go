package lottie

import "encoding/json"

// animation is the top-level Lottie object.
type animation struct {
	Version   string  `json:"v"`
	Name      string  `json:"nm"`
	FrameRate float64 `json:"fr"`
	InPoint   float64 `json:"ip"`
	OutPoint  float64 `json:"op"`
	Width     float64 `json:"w"`
	Height    float64 `json:"h"`
	Layers    []layer `json:"layers"`
}

// Layer types.
const (
	layerPrecomp = 0
	layerSolid   = 1
	layerImage   = 2
	layerNull    = 3
	layerShape   = 4
	layerText    = 5
)

type layer struct {
	Index     int         `json:"ind"`
	Parent    *int        `json:"parent"`
	Type      int         `json:"ty"`
	Name      string      `json:"nm"`
	Hidden    bool        `json:"hd"`
	InPoint   float64     `json:"ip"`
	OutPoint  float64     `json:"op"`
	Transform *transform  `json:"ks"`
	Shapes    []shapeItem `json:"shapes"`
}

type transform struct {
	Anchor   *property `json:"a"`
	Position *property `json:"p"`
	Scale    *property `json:"s"`
	Rotation *property `json:"r"`
	Opacity  *property `json:"o"`
}

// shapeItem is any entry of a shapes or it list; Type selects the fields.
type shapeItem struct {
	Type   string `json:"ty"`
	Name   string `json:"nm"`
	Hidden bool   `json:"hd"`

	// gr
	Items []shapeItem `json:"it"`

	// sh
	Path *property `json:"ks"`

	// rc, el; s and p double as tr scale and position.
	Size      *property `json:"s"`
	Position  *property `json:"p"`
	Roundness *property `json:"r"`

	// fl, st
	Color   *property `json:"c"`
	Opacity *property `json:"o"`
	Width   *property `json:"w"`
	Cap     int       `json:"lc"`
	Join    int       `json:"lj"`
	Miter   float64   `json:"ml"`

	// tr
	Anchor *property `json:"a"`
}

// property is an animatable value: k holds either the static value or the
// keyframe list. Split positions carry separate x and y properties instead.
type property struct {
	Animated int             `json:"a"`
	K        json.RawMessage `json:"k"`
	Split    bool            `json:"s"`
	X        *property       `json:"x"`
	Y        *property       `json:"y"`
}

type keyframe struct {
	Time  float64         `json:"t"`
	Start json.RawMessage `json:"s"`
	End   json.RawMessage `json:"e"`
	In    *handle         `json:"i"`
	Out   *handle         `json:"o"`
	Hold  int             `json:"h"`
}

// handle is a timing control point. x and y are numbers or per-dimension
// arrays; the first dimension is used.
type handle struct {
	X json.RawMessage `json:"x"`
	Y json.RawMessage `json:"y"`
}

type bezier struct {
	Closed   bool        `json:"c"`
	Vertices [][]float64 `json:"v"`
	In       [][]float64 `json:"i"`
	Out      [][]float64 `json:"o"`
}
