// Package sticker plays keyframed vector animations ("stickers") on a
// retained drawing backend.
//
// A [Document] is an immutable description: frame rate, frame range, canvas
// size, and an ordered list of layers. Shape layers hold shape groups made of
// paths, rectangles and ellipses painted with fills and strokes. Every
// animatable property is a [Track]: either a static value or keyframes with
// per-segment cubic Bézier timing curves (see [MakeEasing]).
//
// # Playback
//
// The simplest way to play a document is a [Player]:
//
//	p := sticker.NewPlayer(backend, ticks, sticker.WithLogger(log))
//	if err := p.Load(doc); err != nil {
//		return err
//	}
//	p.Play()
//
// The player builds a [SceneGraph] from the document, binds it to the
// [Backend] through a [Stage], and drives a [Scheduler] from a [TickSource].
// Each tick advances a continuous frame cursor by elapsed wall-clock time,
// wraps it over the frame range, evaluates every layer, and pushes the
// result into the backend. The cursor is never rounded; sub-frame positions
// interpolate smoothly.
//
// # Layers and parenting
//
// Layers may name a parent layer by index. A layer's world transform is its
// parent chain composed root first. Null layers carry a transform for their
// children and draw nothing. Parenting carries the transform only; a
// parent's opacity does not apply to its children.
//
// A layer renders while the frame lies in its [Layer.InPoint, Layer.OutPoint]
// window, both ends included. Hidden layers are not evaluated.
//
// # Malformed documents
//
// [Validate] reports every integrity problem it finds, joined into one
// error. The player logs them and plays best effort unless
// [WithStrictValidation] is set. A layer whose evaluation fails is marked
// stale for that frame and the backend keeps showing its last good state.
//
// # Backends
//
// Backends live in sub-packages: ebitenbackend draws into an Ebitengine
// window, rasterbackend rasterizes frames into images for export. The lottie
// package decodes Lottie JSON and .tgs files into Documents.
package sticker
