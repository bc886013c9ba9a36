// Package lottie decodes Lottie animations and Telegram .tgs stickers into
// sticker Documents.
//
// Only the vector subset the player renders is converted: shape, null and
// placeholder layers, and the gr, sh, rc, el, fl, st, tr and mm shape items.
// Other shape items are kept as unknown items and skipped by the player.
// The loader checks structure only; use sticker.Validate for integrity.
package lottie

import (
	"bytes"
	"compress/gzip"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/phanxgames/sticker"
)

// MaxDecompressedSize bounds how much a .tgs stream may inflate to.
const MaxDecompressedSize = 16 << 20

var (
	// ErrUnsupported is returned for constructs the converter cannot express.
	ErrUnsupported = errors.New("lottie: unsupported construct")
	// ErrTooLarge is returned when a .tgs stream inflates past MaxDecompressedSize.
	ErrTooLarge = errors.New("lottie: decompressed sticker too large")
)

// Decode reads Lottie JSON from r.
func Decode(r io.Reader) (*sticker.Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("lottie: read: %w", err)
	}
	return Parse(data)
}

// DecodeTGS reads a gzip-compressed Lottie document (.tgs).
func DecodeTGS(r io.Reader) (*sticker.Document, error) {
	zr, err := gzip.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("lottie: gzip: %w", err)
	}
	defer zr.Close()

	data, err := io.ReadAll(io.LimitReader(zr, MaxDecompressedSize+1))
	if err != nil {
		return nil, fmt.Errorf("lottie: gzip: %w", err)
	}
	if len(data) > MaxDecompressedSize {
		return nil, ErrTooLarge
	}
	return Parse(data)
}

// Open loads a .json or .tgs file. Files without a .tgs extension are
// sniffed for the gzip magic number.
func Open(path string) (*sticker.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("lottie: open: %w", err)
	}
	var doc *sticker.Document
	if strings.EqualFold(filepath.Ext(path), ".tgs") || isGzip(data) {
		doc, err = DecodeTGS(bytes.NewReader(data))
	} else {
		doc, err = Parse(data)
	}
	if err != nil {
		return nil, err
	}
	if doc.Name == "" {
		doc.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return doc, nil
}

func isGzip(data []byte) bool {
	return len(data) >= 2 && data[0] == 0x1f && data[1] == 0x8b
}

// Parse converts Lottie JSON bytes into a Document.
func Parse(data []byte) (*sticker.Document, error) {
	var a animation
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("lottie: decode: %w", err)
	}
	doc := &sticker.Document{
		Name:      a.Name,
		FrameRate: a.FrameRate,
		InPoint:   a.InPoint,
		OutPoint:  a.OutPoint,
		Width:     a.Width,
		Height:    a.Height,
		Layers:    make([]sticker.Layer, 0, len(a.Layers)),
	}
	for i := range a.Layers {
		l, err := convertLayer(&a.Layers[i])
		if err != nil {
			return nil, fmt.Errorf("lottie: layer %d (%s): %w", a.Layers[i].Index, a.Layers[i].Name, err)
		}
		doc.Layers = append(doc.Layers, l)
	}
	return doc, nil
}

func convertLayer(l *layer) (sticker.Layer, error) {
	out := sticker.Layer{
		Index:    l.Index,
		Parent:   l.Parent,
		Name:     l.Name,
		InPoint:  l.InPoint,
		OutPoint: l.OutPoint,
	}
	switch {
	case l.Type == layerNull:
		out.Kind = sticker.LayerNull
	case l.Type == layerShape && !l.Hidden:
		out.Kind = sticker.LayerShape
	default:
		// Hidden shape layers and unsupported layer types still parent.
		out.Kind = sticker.LayerOther
	}

	if l.Transform != nil {
		t, err := convertTransform(l.Transform.Anchor, l.Transform.Position, l.Transform.Scale,
			l.Transform.Rotation, l.Transform.Opacity)
		if err != nil {
			return out, fmt.Errorf("transform: %w", err)
		}
		out.Transform = *t
	}
	if out.Kind != sticker.LayerShape {
		return out, nil
	}
	shapes, err := convertItems(l.Shapes)
	if err != nil {
		return out, err
	}
	out.Shapes = shapes
	return out, nil
}

func convertTransform(anchor, position, scale, rotation, opacity *property) (*sticker.Transform, error) {
	var (
		t   sticker.Transform
		err error
	)
	if t.Anchor, err = convertTrack(anchor, vectorValue); err != nil {
		return nil, fmt.Errorf("anchor: %w", err)
	}
	if t.Position, err = positionTrack(position); err != nil {
		return nil, fmt.Errorf("position: %w", err)
	}
	if t.Scale, err = convertTrack(scale, vectorValue); err != nil {
		return nil, fmt.Errorf("scale: %w", err)
	}
	if t.Rotation, err = convertTrack(rotation, scalarValue); err != nil {
		return nil, fmt.Errorf("rotation: %w", err)
	}
	if t.Opacity, err = convertTrack(opacity, scalarValue); err != nil {
		return nil, fmt.Errorf("opacity: %w", err)
	}
	return &t, nil
}

// convertItems converts one shapes or it list. Hidden items are dropped.
func convertItems(items []shapeItem) ([]sticker.ShapeItem, error) {
	out := make([]sticker.ShapeItem, 0, len(items))
	for i := range items {
		it := &items[i]
		if it.Hidden {
			continue
		}
		s, err := convertItem(it)
		if err != nil {
			return nil, fmt.Errorf("shape %d %s (%s): %w", i, it.Type, it.Name, err)
		}
		out = append(out, s)
	}
	return out, nil
}

func convertItem(it *shapeItem) (sticker.ShapeItem, error) {
	s := sticker.ShapeItem{Name: it.Name}
	var err error
	switch it.Type {
	case "gr":
		s.Kind = sticker.ShapeGroup
		s.Items, err = convertItems(it.Items)
	case "sh":
		s.Kind = sticker.ShapePath
		s.Path, err = convertTrack(it.Path, pathValue)
	case "rc":
		s.Kind = sticker.ShapeRect
		if s.Size, err = convertTrack(it.Size, vectorValue); err != nil {
			break
		}
		if s.Position, err = positionTrack(it.Position); err != nil {
			break
		}
		s.Roundness, err = convertTrack(it.Roundness, scalarValue)
	case "el":
		s.Kind = sticker.ShapeEllipse
		if s.Size, err = convertTrack(it.Size, vectorValue); err != nil {
			break
		}
		s.Position, err = positionTrack(it.Position)
	case "fl":
		s.Kind = sticker.ShapeFill
		s.Fill = &sticker.Fill{}
		if s.Fill.Color, err = convertTrack(it.Color, colorValue); err != nil {
			break
		}
		s.Fill.Opacity, err = convertTrack(it.Opacity, scalarValue)
	case "st":
		s.Kind = sticker.ShapeStroke
		s.Stroke = &sticker.Stroke{
			Cap:        lineCap(it.Cap),
			Join:       lineJoin(it.Join),
			MiterLimit: it.Miter,
		}
		if s.Stroke.Color, err = convertTrack(it.Color, colorValue); err != nil {
			break
		}
		if s.Stroke.Opacity, err = convertTrack(it.Opacity, scalarValue); err != nil {
			break
		}
		s.Stroke.Width, err = convertTrack(it.Width, scalarValue)
	case "tr":
		// In a tr item, r is rotation rather than roundness.
		s.Kind = sticker.ShapeTransform
		s.Transform, err = convertTransform(it.Anchor, it.Position, it.Size, it.Roundness, it.Opacity)
	case "mm":
		s.Kind = sticker.ShapeMerge
	default:
		s.Kind = sticker.ShapeUnknown
	}
	return s, err
}

func lineCap(lc int) sticker.LineCap {
	switch lc {
	case 2:
		return sticker.LineCapRound
	case 3:
		return sticker.LineCapSquare
	}
	return sticker.LineCapButt
}

func lineJoin(lj int) sticker.LineJoin {
	switch lj {
	case 2:
		return sticker.LineJoinRound
	case 3:
		return sticker.LineJoinBevel
	}
	return sticker.LineJoinMiter
}
