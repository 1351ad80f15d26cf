package gpu

import (
	"encoding/binary"
	"math"

	"github.com/gogpu/paint"
)

// dabUniformSize is the byte size of the dab uniform block (group 0,
// binding 0). Layout, std140-compatible:
//
//	color    (vec4<f32>) = 16 bytes
//	position (vec2<f32>) = 8 bytes
//	radius   (f32)       = 4 bytes
//	padding              = 4 bytes
//
// Total = 32 bytes.
const dabUniformSize = 32

// viewUniformSize is the byte size of the view uniform block (group 1,
// binding 0): one mat4x4<f32>, column-major, 64 bytes.
const viewUniformSize = 64

// makeDabUniform encodes a dab into its 32-byte uniform block.
func makeDabUniform(d paint.Dab) []byte {
	buf := make([]byte, dabUniformSize)
	binary.LittleEndian.PutUint32(buf[0:4], math.Float32bits(float32(d.Color.R)))
	binary.LittleEndian.PutUint32(buf[4:8], math.Float32bits(float32(d.Color.G)))
	binary.LittleEndian.PutUint32(buf[8:12], math.Float32bits(float32(d.Color.B)))
	binary.LittleEndian.PutUint32(buf[12:16], math.Float32bits(float32(d.Color.A)))
	binary.LittleEndian.PutUint32(buf[16:20], math.Float32bits(float32(d.Position.X)))
	binary.LittleEndian.PutUint32(buf[20:24], math.Float32bits(float32(d.Position.Y)))
	binary.LittleEndian.PutUint32(buf[24:28], math.Float32bits(float32(d.Radius)))
	// Padding bytes 28..31 remain zero.
	return buf
}

// makeViewUniform encodes a column-major 4x4 matrix into its 64-byte
// uniform block.
func makeViewUniform(m [16]float32) []byte {
	buf := make([]byte, viewUniformSize)
	for i, v := range m {
		binary.LittleEndian.PutUint32(buf[i*4:i*4+4], math.Float32bits(v))
	}
	return buf
}
