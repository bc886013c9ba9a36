package sticker

// Document is an immutable animation: frame timing, canvas size, and the
// ordered layer list. Layers are listed front to back.
type Document struct {
	Name      string
	FrameRate float64 // frames per second
	InPoint   float64 // first frame
	OutPoint  float64 // frame at which playback loops
	Width     float64
	Height    float64
	Layers    []Layer
}

// TotalFrames returns the length of the playback range in frames.
func (d *Document) TotalFrames() float64 {
	return d.OutPoint - d.InPoint
}

// Duration returns the playback length in seconds, or 0 for a document
// without a frame rate.
func (d *Document) Duration() float64 {
	if d.FrameRate <= 0 {
		return 0
	}
	return d.TotalFrames() / d.FrameRate
}

// Layer is one entry of the document's layer list.
type Layer struct {
	Index     int  // unique within the document
	Parent    *int // index of the parent layer, nil for roots
	Name      string
	Kind      LayerKind
	InPoint   float64 // first frame the layer renders
	OutPoint  float64 // last frame the layer renders
	Transform Transform
	Shapes    []ShapeItem // front to back
}

// ShapeItem is one entry of a layer's (or group's) shape list. Which fields
// are meaningful depends on Kind.
type ShapeItem struct {
	Kind ShapeKind
	Name string

	// ShapeGroup
	Items []ShapeItem

	// ShapePath
	Path *PathTrack

	// ShapeRect, ShapeEllipse
	Size      *VectorTrack
	Position  *VectorTrack
	Roundness *ScalarTrack // ShapeRect only

	// ShapeFill
	Fill *Fill

	// ShapeStroke
	Stroke *Stroke

	// ShapeTransform
	Transform *Transform
}

// Fill paints the inside of a group's paths. A nil Color means no paint.
type Fill struct {
	Color   *VectorTrack // RGB or RGBA in [0, 1]
	Opacity *ScalarTrack // [0, 100]
}

// Stroke paints the outline of a group's paths. A nil Color means no paint.
type Stroke struct {
	Color      *VectorTrack
	Opacity    *ScalarTrack
	Width      *ScalarTrack
	Cap        LineCap
	Join       LineJoin
	MiterLimit float64
}

// IntPtr returns a pointer to v, for Layer.Parent literals.
func IntPtr(v int) *int { return &v }
