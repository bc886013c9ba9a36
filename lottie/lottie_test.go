package lottie

import (
	"bytes"
	"compress/gzip"
	"encoding/json"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/phanxgames/sticker"
)

const epsilon = 1e-9

func assertNear(t *testing.T, name string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > epsilon {
		t.Errorf("%s = %v, want %v", name, got, want)
	}
}

func loadFixture(t *testing.T) *sticker.Document {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", "spinner.json"))
	if err != nil {
		t.Fatal(err)
	}
	doc, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return doc
}

func gzipped(t *testing.T, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write(data); err != nil {
		t.Fatal(err)
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestParseDocumentHeader(t *testing.T) {
	doc := loadFixture(t)
	if doc.Name != "spinner" {
		t.Errorf("Name = %q", doc.Name)
	}
	assertNear(t, "FrameRate", doc.FrameRate, 60)
	assertNear(t, "OutPoint", doc.OutPoint, 180)
	assertNear(t, "Width", doc.Width, 512)
	if len(doc.Layers) != 3 {
		t.Fatalf("layers = %d, want 3", len(doc.Layers))
	}
}

func TestParseLayerKinds(t *testing.T) {
	doc := loadFixture(t)
	want := []sticker.LayerKind{sticker.LayerShape, sticker.LayerNull, sticker.LayerOther}
	for i, k := range want {
		if doc.Layers[i].Kind != k {
			t.Errorf("layer %d kind = %v, want %v", i, doc.Layers[i].Kind, k)
		}
	}
	if p := doc.Layers[0].Parent; p == nil || *p != 2 {
		t.Errorf("parent = %v, want 2", p)
	}
}

func TestParseKeyframedRotation(t *testing.T) {
	rot := loadFixture(t).Layers[0].Transform.Rotation
	if rot == nil || !rot.Animated || len(rot.Keyframes) != 2 {
		t.Fatalf("rotation = %+v", rot)
	}
	k := rot.Keyframes[0]
	if k.Out == nil || k.In == nil {
		t.Fatal("missing easing handles")
	}
	assertNear(t, "out x", k.Out.X, 0.42)
	assertNear(t, "in x", k.In.X, 0.58)
	assertNear(t, "in y", k.In.Y, 1)
	assertNear(t, "end", rot.Keyframes[1].Start, 360)
}

func TestParseShapeItems(t *testing.T) {
	shapes := loadFixture(t).Layers[0].Shapes
	if len(shapes) != 2 {
		t.Fatalf("shapes = %d, want 2", len(shapes))
	}
	body := shapes[0]
	if body.Kind != sticker.ShapeGroup || len(body.Items) != 4 {
		t.Fatalf("body = %+v", body)
	}

	rect := body.Items[0]
	if rect.Kind != sticker.ShapeRect || rect.Roundness == nil {
		t.Errorf("rect = %+v", rect)
	}

	fill := body.Items[1].Fill
	if fill == nil {
		t.Fatal("missing fill")
	}
	// 0-255 colors are normalized.
	c := fill.Color.Value
	assertNear(t, "fill R", c[0], 1)
	assertNear(t, "fill G", c[1], 128.0/255)

	st := body.Items[2].Stroke
	if st == nil {
		t.Fatal("missing stroke")
	}
	if st.Cap != sticker.LineCapRound || st.Join != sticker.LineJoinBevel {
		t.Errorf("cap = %v join = %v, want round bevel", st.Cap, st.Join)
	}
	assertNear(t, "miter", st.MiterLimit, 10)
	assertNear(t, "width", st.Width.Value, 4)

	tr := body.Items[3].Transform
	if tr == nil || tr.Rotation == nil {
		t.Fatalf("group transform = %+v", tr)
	}
	assertNear(t, "group rotation", tr.Rotation.Value, 45)
	assertNear(t, "group opacity", tr.Opacity.Value, 80)
	assertNear(t, "group x", tr.Position.Value[0], 10)
}

func TestParseMorphGroup(t *testing.T) {
	morph := loadFixture(t).Layers[0].Shapes[1]
	// sh, gf, mm, fl; the hidden ellipse is dropped.
	kinds := []sticker.ShapeKind{sticker.ShapePath, sticker.ShapeUnknown, sticker.ShapeMerge, sticker.ShapeFill}
	if len(morph.Items) != len(kinds) {
		t.Fatalf("items = %d, want %d", len(morph.Items), len(kinds))
	}
	for i, k := range kinds {
		if morph.Items[i].Kind != k {
			t.Errorf("item %d kind = %v, want %v", i, morph.Items[i].Kind, k)
		}
	}

	path := morph.Items[0].Path
	if !path.Animated || len(path.Keyframes) != 2 {
		t.Fatalf("path = %+v", path)
	}
	if !path.Keyframes[0].Hold {
		t.Error("first path keyframe should hold")
	}
	end := path.Keyframes[1].Start
	if len(end.Vertices) != 3 || !end.Closed {
		t.Fatalf("end path = %+v", end)
	}
	if end.Vertices[1].In != (sticker.Vec2{X: -5}) || end.Vertices[0].Out != (sticker.Vec2{X: 5}) {
		t.Errorf("tangents = %+v", end.Vertices)
	}
}

func TestParseSplitPosition(t *testing.T) {
	pos := loadFixture(t).Layers[1].Transform.Position
	if pos == nil || !pos.Animated || len(pos.Keyframes) != 2 {
		t.Fatalf("position = %+v", pos)
	}
	got := sticker.EvaluateVector(pos, 90, nil)
	assertNear(t, "x", got[0], 250)
	assertNear(t, "y", got[1], 256)
}

func TestParsedDocumentPlays(t *testing.T) {
	doc := loadFixture(t)
	err := sticker.Validate(doc)
	if !errors.Is(err, sticker.ErrUnsupportedItem) {
		t.Errorf("Validate = %v, want only the merge item reported", err)
	}
	if errors.Is(err, sticker.ErrDanglingParent) || errors.Is(err, sticker.ErrPathTopology) {
		t.Errorf("Validate = %v", err)
	}

	g := sticker.BuildSceneGraph(doc)
	f := sticker.EvaluateFrame(g, 90)
	if len(f.Errors) != 0 {
		t.Fatalf("frame errors: %v", f.Errors)
	}
	if len(f.Layers) != 1 || !f.Layers[0].Visible {
		t.Fatalf("layers = %+v", f.Layers)
	}
	// body and morph, back to front.
	if n := len(f.Layers[0].Shapes); n != 2 {
		t.Errorf("shapes = %d, want 2", n)
	}
}

func TestDecodeTGS(t *testing.T) {
	data, err := os.ReadFile(filepath.Join("testdata", "spinner.json"))
	if err != nil {
		t.Fatal(err)
	}
	doc, err := DecodeTGS(bytes.NewReader(gzipped(t, data)))
	if err != nil {
		t.Fatalf("DecodeTGS: %v", err)
	}
	if len(doc.Layers) != 3 {
		t.Errorf("layers = %d, want 3", len(doc.Layers))
	}

	if _, err := DecodeTGS(bytes.NewReader(data)); err == nil {
		t.Error("DecodeTGS accepted uncompressed input")
	}
}

func TestDecodeTGSTooLarge(t *testing.T) {
	big := bytes.Repeat([]byte(" "), MaxDecompressedSize+1)
	_, err := DecodeTGS(bytes.NewReader(gzipped(t, big)))
	if !errors.Is(err, ErrTooLarge) {
		t.Errorf("DecodeTGS = %v, want ErrTooLarge", err)
	}
}

func TestOpen(t *testing.T) {
	data, err := os.ReadFile(filepath.Join("testdata", "spinner.json"))
	if err != nil {
		t.Fatal(err)
	}
	dir := t.TempDir()
	files := map[string][]byte{
		"plain.json":   data,
		"sticker.tgs":  gzipped(t, data),
		"sniffed.json": gzipped(t, data),
	}
	for name, content := range files {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, content, 0o644); err != nil {
			t.Fatal(err)
		}
		doc, err := Open(path)
		if err != nil {
			t.Errorf("Open(%s): %v", name, err)
			continue
		}
		if len(doc.Layers) != 3 {
			t.Errorf("Open(%s) layers = %d", name, len(doc.Layers))
		}
	}

	if _, err := Open(filepath.Join(dir, "missing.json")); err == nil {
		t.Error("Open of a missing file succeeded")
	}
}

func TestOpenNamesUnnamedDocuments(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wave.json")
	if err := os.WriteFile(path, []byte(`{"fr":30,"op":60,"w":10,"h":10,"layers":[]}`), 0o644); err != nil {
		t.Fatal(err)
	}
	doc, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if doc.Name != "wave" {
		t.Errorf("Name = %q, want wave", doc.Name)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		json string
		want error
	}{
		{"not json", `{"layers": [`, nil},
		{"bad value", `{"layers":[{"ty":4,"ks":{"r":{"a":0,"k":"x"}}}]}`, nil},
		{"split times differ", `{"layers":[{"ty":3,"ks":{"p":{"s":true,
			"x":{"a":1,"k":[{"t":0,"s":[0]},{"t":10,"s":[1]}]},
			"y":{"a":1,"k":[{"t":0,"s":[0]},{"t":20,"s":[1]}]}}}}]}`, ErrUnsupported},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.json))
			if err == nil {
				t.Fatal("Parse succeeded")
			}
			if tt.want != nil && !errors.Is(err, tt.want) {
				t.Errorf("Parse = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestConvertTrackLegacyKeyframes(t *testing.T) {
	// No "a" flag, explicit "e" values, and a terminal keyframe with only "t".
	p := &property{K: json.RawMessage(`[{"t":0,"s":[0],"e":[10]},{"t":10}]`)}
	tr, err := convertTrack(p, scalarValue)
	if err != nil {
		t.Fatal(err)
	}
	if !tr.Animated || len(tr.Keyframes) != 2 {
		t.Fatalf("track = %+v", tr)
	}
	assertNear(t, "terminal", tr.Keyframes[1].Start, 10)
	assertNear(t, "mid", sticker.EvaluateScalar(tr, 5, 0), 5)
}

func TestConvertTrackStatic(t *testing.T) {
	tests := []struct {
		name string
		k    string
		want sticker.Vector
	}{
		{"array", `[1, 2, 3]`, sticker.Vector{1, 2, 3}},
		{"number", `7`, sticker.Vector{7, 7}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr, err := convertTrack(&property{K: json.RawMessage(tt.k)}, vectorValue)
			if err != nil {
				t.Fatal(err)
			}
			if tr.Animated || len(tr.Value) != len(tt.want) {
				t.Fatalf("track = %+v", tr)
			}
			for i := range tt.want {
				assertNear(t, "component", tr.Value[i], tt.want[i])
			}
		})
	}

	if tr, err := convertTrack[float64](nil, scalarValue); tr != nil || err != nil {
		t.Errorf("nil property = %v, %v", tr, err)
	}
}

func TestFirstNumber(t *testing.T) {
	for raw, want := range map[string]float64{`0.5`: 0.5, `[0.25, 0.75]`: 0.25} {
		got, err := firstNumber(json.RawMessage(raw))
		if err != nil {
			t.Fatalf("firstNumber(%s): %v", raw, err)
		}
		assertNear(t, raw, got, want)
	}
	if _, err := firstNumber(json.RawMessage(`[]`)); err == nil {
		t.Error("empty array accepted")
	}
}
