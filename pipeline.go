// Package comptool composes the bit stream, transform, and codec packages
// in this module into full compress/decompress pipelines.
//
// A Pipeline is an ordered list of Transforms applied before a terminal
// Codec: raw bytes flow forward through each transform in order, then
// through the codec's encoder. Decompression reverses this: the codec's
// decoder runs first, then each transform's inverse runs in reverse order.
package comptool

// Transform is a reversible byte buffer operation such as the
// Move-To-Front (length-preserving) or Burrows-Wheeler (which adds a small
// frame) transforms.
type Transform interface {
	Forward(data []byte) ([]byte, error)
	Inverse(data []byte) ([]byte, error)
}

// Codec is a terminal encoder/decoder such as RLE, Huffman, or LZW.
type Codec interface {
	Encode(data []byte) ([]byte, error)
	Decode(data []byte) ([]byte, error)
}

// Pipeline chains zero or more Transforms in front of a Codec.
type Pipeline struct {
	Transforms []Transform
	Codec      Codec
}

// NewPipeline builds a Pipeline running transforms in the given order
// before codec.
func NewPipeline(codec Codec, transforms ...Transform) *Pipeline {
	return &Pipeline{Transforms: transforms, Codec: codec}
}

// Compress runs each transform's Forward in order, then the codec's Encode.
func (p *Pipeline) Compress(input []byte) ([]byte, error) {
	x := input
	for _, t := range p.Transforms {
		var err error
		x, err = t.Forward(x)
		if err != nil {
			return nil, err
		}
	}
	return p.Codec.Encode(x)
}

// Decompress runs the codec's Decode, then each transform's Inverse in
// reverse order.
func (p *Pipeline) Decompress(input []byte) ([]byte, error) {
	x, err := p.Codec.Decode(input)
	if err != nil {
		return nil, err
	}
	for i := len(p.Transforms) - 1; i >= 0; i-- {
		x, err = p.Transforms[i].Inverse(x)
		if err != nil {
			return nil, err
		}
	}
	return x, nil
}
