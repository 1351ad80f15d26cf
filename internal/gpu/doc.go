// Package gpu holds the render pipelines behind the paint module.
//
// It targets the gogpu/wgpu HAL (Pure Go WebGPU, zero CGO), which supports
// Vulkan, Metal, and DX12 backends depending on the platform.
//
// Two pipelines live here:
//
//   - DabPipeline stamps brush dabs onto the canvas texture. The quad
//     geometry is generated in the vertex shader from the vertex index, so
//     no vertex buffers are bound; each shape supplies only its fragment
//     mask.
//   - CompositePipeline draws the canvas texture onto a presentation
//     target through the view transform.
//
// Shaders are written in WGSL and embedded from the shaders directory.
// ClearTexture, ReadTexture, and WriteTexture cover canvas lifecycle and
// snapshot needs.
package gpu
