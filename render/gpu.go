// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !nogpu

package render

import (
	_ "embed"
	"encoding/binary"
	"fmt"
	"image"
	"math"
	"time"

	"github.com/gogpu/ekaki"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/naga"
	"github.com/gogpu/wgpu/hal"
	_ "github.com/gogpu/wgpu/hal/vulkan" // register the Vulkan backend
	"golang.org/x/image/math/f32"
)

//go:embed shaders/blit.wgsl
var blitShaderWGSL string

const (
	// uniformSize is mvp (64 bytes) + layer_size (8) + padding (8).
	uniformSize = 80

	// copyPitchAlignment is the required BytesPerRow alignment for
	// texture-to-buffer copies.
	copyPitchAlignment = 256

	gpuWaitTimeout = 5 * time.Second
)

// GPURenderer draws the layer with a WGSL shader through wgpu/hal.
//
// The layer lives in a read-only storage buffer; after the first frame only
// the dirty rows are uploaded. Every frame clears the whole view to the
// background, draws one quad and reads the image back into the Surface.
type GPURenderer struct {
	base
	surface *Surface

	instance hal.Instance // nil when the device belongs to the host
	device   hal.Device
	queue    hal.Queue

	shader     hal.ShaderModule
	bindLayout hal.BindGroupLayout
	pipeLayout hal.PipelineLayout
	pipeline   hal.RenderPipeline

	uniformBuf   hal.Buffer
	uniformParam Parameter
	uniformLayer image.Point
	uniformValid bool

	pixelBuf  hal.Buffer
	pixelSize image.Point
	bindGroup hal.BindGroup
	uploaded  bool

	target     hal.Texture
	targetView hal.TextureView
	staging    hal.Buffer
	pitch      uint32

	scratch []byte
}

// halProvider is implemented by hosts that expose their HAL device.
type halProvider interface {
	HalDevice() any
	HalQueue() any
}

func newGPURenderer(width, height int, o *options) (Renderer, error) {
	if o.provider != nil {
		hp, ok := o.provider.(halProvider)
		if !ok {
			return nil, fmt.Errorf("%w: provider does not expose HAL types", ErrGPUUnavailable)
		}
		device, ok := hp.HalDevice().(hal.Device)
		if !ok || device == nil {
			return nil, fmt.Errorf("%w: provider HalDevice is not hal.Device", ErrGPUUnavailable)
		}
		queue, ok := hp.HalQueue().(hal.Queue)
		if !ok || queue == nil {
			return nil, fmt.Errorf("%w: provider HalQueue is not hal.Queue", ErrGPUUnavailable)
		}
		return newGPURendererWithDevice(width, height, o.background, device, queue)
	}

	instance, device, queue, err := openDevice()
	if err != nil {
		return nil, err
	}
	r, err := newGPURendererWithDevice(width, height, o.background, device, queue)
	if err != nil {
		device.Destroy()
		instance.Destroy()
		return nil, err
	}
	r.instance = instance
	return r, nil
}

// openDevice creates a standalone Vulkan device, preferring a discrete or
// integrated GPU.
func openDevice() (hal.Instance, hal.Device, hal.Queue, error) {
	backend, ok := hal.GetBackend(gputypes.BackendVulkan)
	if !ok {
		return nil, nil, nil, fmt.Errorf("%w: vulkan backend not available", ErrGPUUnavailable)
	}
	instance, err := backend.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return nil, nil, nil, fmt.Errorf("%w: create instance: %w", ErrGPUUnavailable, err)
	}

	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		instance.Destroy()
		return nil, nil, nil, fmt.Errorf("%w: no GPU adapters found", ErrGPUUnavailable)
	}

	selected := &adapters[0]
	for i := range adapters {
		if adapters[i].Info.DeviceType == gputypes.DeviceTypeDiscreteGPU ||
			adapters[i].Info.DeviceType == gputypes.DeviceTypeIntegratedGPU {
			selected = &adapters[i]
			break
		}
	}

	openDev, err := selected.Adapter.Open(gputypes.Features(0), gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		return nil, nil, nil, fmt.Errorf("%w: open device: %w", ErrGPUUnavailable, err)
	}
	ekaki.Logger().Info("render: GPU initialized", "adapter", selected.Info.Name)
	return instance, openDev.Device, openDev.Queue, nil
}

// newGPURendererWithDevice builds the pipeline on an existing device. The
// renderer does not take ownership of device or queue.
func newGPURendererWithDevice(width, height int, bg ekaki.Color, device hal.Device, queue hal.Queue) (*GPURenderer, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("render: view %dx%d: %w", width, height, ekaki.ErrInvalidSize)
	}

	r := &GPURenderer{
		base:    newBase(width, height, bg),
		surface: newSurface(width, height, bg),
		device:  device,
		queue:   queue,
	}
	if err := r.createPipeline(); err != nil {
		r.destroy()
		return nil, err
	}
	if err := r.createTargets(); err != nil {
		r.destroy()
		return nil, err
	}
	return r, nil
}

// compileShader compiles WGSL to little-endian SPIR-V words.
func compileShader(src string) ([]uint32, error) {
	spirvBytes, err := naga.Compile(src)
	if err != nil {
		return nil, fmt.Errorf("compile shader: %w", err)
	}
	code := make([]uint32, len(spirvBytes)/4)
	for i := range code {
		code[i] = binary.LittleEndian.Uint32(spirvBytes[i*4:])
	}
	return code, nil
}

func (r *GPURenderer) createPipeline() error {
	code, err := compileShader(blitShaderWGSL)
	if err != nil {
		return err
	}

	shader, err := r.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  "blit_shader",
		Source: hal.ShaderSource{SPIRV: code},
	})
	if err != nil {
		return fmt.Errorf("create blit shader: %w", err)
	}
	r.shader = shader

	bindLayout, err := r.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "blit_bind_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: gputypes.ShaderStageVertex | gputypes.ShaderStageFragment,
				Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform},
			},
			{
				Binding:    1,
				Visibility: gputypes.ShaderStageFragment,
				Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeReadOnlyStorage},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("create blit bind layout: %w", err)
	}
	r.bindLayout = bindLayout

	pipeLayout, err := r.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            "blit_pipe_layout",
		BindGroupLayouts: []hal.BindGroupLayout{r.bindLayout},
	})
	if err != nil {
		return fmt.Errorf("create blit pipeline layout: %w", err)
	}
	r.pipeLayout = pipeLayout

	pipeline, err := r.device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  "blit_pipeline",
		Layout: r.pipeLayout,
		Vertex: hal.VertexState{
			Module:     r.shader,
			EntryPoint: "vs_main",
		},
		Fragment: &hal.FragmentState{
			Module:     r.shader,
			EntryPoint: "fs_main",
			Targets: []gputypes.ColorTargetState{
				{
					Format:    gputypes.TextureFormatRGBA8Unorm,
					WriteMask: gputypes.ColorWriteMaskAll,
				},
			},
		},
		Primitive: gputypes.PrimitiveState{
			Topology: gputypes.PrimitiveTopologyTriangleList,
			CullMode: gputypes.CullModeNone,
		},
		Multisample: gputypes.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return fmt.Errorf("create blit pipeline: %w", err)
	}
	r.pipeline = pipeline

	uniformBuf, err := r.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "blit_uniform",
		Size:  uniformSize,
		Usage: gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("create uniform buffer: %w", err)
	}
	r.uniformBuf = uniformBuf

	ekaki.Logger().Debug("render: blit pipeline ready", "spirv_words", len(code))
	return nil
}

// createTargets allocates the view-sized color target and its readback
// buffer.
func (r *GPURenderer) createTargets() error {
	w, h := uint32(r.size.X), uint32(r.size.Y) //nolint:gosec // sizes are positive ints

	target, err := r.device.CreateTexture(&hal.TextureDescriptor{
		Label:         "blit_target",
		Size:          hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        gputypes.TextureFormatRGBA8Unorm,
		Usage:         gputypes.TextureUsageRenderAttachment | gputypes.TextureUsageCopySrc,
	})
	if err != nil {
		return fmt.Errorf("create target texture: %w", err)
	}
	r.target = target

	view, err := r.device.CreateTextureView(target, &hal.TextureViewDescriptor{
		Label: "blit_target_view",
	})
	if err != nil {
		return fmt.Errorf("create target view: %w", err)
	}
	r.targetView = view

	r.pitch = (w*4 + copyPitchAlignment - 1) &^ (copyPitchAlignment - 1)
	staging, err := r.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "blit_staging",
		Size:  uint64(r.pitch) * uint64(h),
		Usage: gputypes.BufferUsageMapRead | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("create staging buffer: %w", err)
	}
	r.staging = staging
	return nil
}

func (r *GPURenderer) destroyTargets() {
	if r.staging != nil {
		r.device.DestroyBuffer(r.staging)
		r.staging = nil
	}
	if r.targetView != nil {
		r.device.DestroyTextureView(r.targetView)
		r.targetView = nil
	}
	if r.target != nil {
		r.device.DestroyTexture(r.target)
		r.target = nil
	}
}

// ensurePixels (re)allocates the storage buffer when the layer size changes.
func (r *GPURenderer) ensurePixels(size image.Point) error {
	if r.pixelBuf != nil && r.pixelSize == size {
		return nil
	}
	r.destroyPixels()

	n := uint64(max(size.X*size.Y*4, 4)) //nolint:gosec // non-negative
	buf, err := r.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "blit_pixels",
		Size:  n,
		Usage: gputypes.BufferUsageStorage | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("create pixel buffer: %w", err)
	}
	r.pixelBuf = buf

	bindGroup, err := r.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  "blit_bind",
		Layout: r.bindLayout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: 0, Resource: gputypes.BufferBinding{Buffer: r.uniformBuf.NativeHandle(), Offset: 0, Size: uniformSize}},
			{Binding: 1, Resource: gputypes.BufferBinding{Buffer: buf.NativeHandle(), Offset: 0, Size: n}},
		},
	})
	if err != nil {
		return fmt.Errorf("create bind group: %w", err)
	}
	r.bindGroup = bindGroup
	r.pixelSize = size
	r.uploaded = false

	ekaki.Logger().Debug("render: pixel buffer allocated", "width", size.X, "height", size.Y)
	return nil
}

func (r *GPURenderer) destroyPixels() {
	if r.bindGroup != nil {
		r.device.DestroyBindGroup(r.bindGroup)
		r.bindGroup = nil
	}
	if r.pixelBuf != nil {
		r.device.DestroyBuffer(r.pixelBuf)
		r.pixelBuf = nil
	}
}

// upload copies rect of layer into the storage buffer. The first upload
// after an allocation always copies the whole layer.
func (r *GPURenderer) upload(layer ekaki.Layer, rect image.Rectangle) {
	bounds := layer.Bounds()
	if !r.uploaded {
		rect = bounds
		r.uploaded = true
	}
	rect = rect.Intersect(bounds)
	if rect.Empty() {
		return
	}

	lw := bounds.Dx()
	w, h := rect.Dx(), rect.Dy()
	offset := func(x, y int) uint64 { return uint64((y*lw + x) * 4) } //nolint:gosec // in bounds

	if rr, ok := layer.(ekaki.RawReader); ok {
		if v, ok := rr.RawReadView(rect); ok && v.Stride == lw*4 {
			// Rows are contiguous in the layer, so the span from the first
			// pixel to the last one is a single write.
			n := (h-1)*v.Stride + w*4
			r.queue.WriteBuffer(r.pixelBuf, offset(rect.Min.X, rect.Min.Y), v.Pix[:n])
			return
		}
	}

	need := w * h * 4
	if cap(r.scratch) < need {
		r.scratch = make([]byte, need)
	}
	tmp := ekaki.Region{Pix: r.scratch[:need], Stride: w * 4, Width: w, Height: h}
	layer.ReadRaw(rect, tmp)
	for y := range h {
		r.queue.WriteBuffer(r.pixelBuf, offset(rect.Min.X, rect.Min.Y+y), tmp.Row(y))
	}
}

// mvp maps the unit quad onto the layer's place in the view.
func (r *GPURenderer) mvp(param Parameter, layerSize image.Point) f32.Mat4 {
	view := ekaki.SizeVec(r.viewBounds())
	t := ekaki.ViewToViewport(param.Offset, view)
	sx := float32(float64(layerSize.X) / view.X * param.Scale)
	sy := float32(float64(layerSize.Y) / view.Y * param.Scale)

	// Row major.
	return f32.Mat4{
		sx, 0, 0, float32(t.X),
		0, sy, 0, float32(t.Y),
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

func (r *GPURenderer) writeUniform(param Parameter, layerSize image.Point) {
	if r.uniformValid && r.uniformParam == param && r.uniformLayer == layerSize {
		return
	}

	m := r.mvp(param, layerSize)
	buf := make([]byte, uniformSize)
	// WGSL matrices are column major.
	for c := range 4 {
		for row := range 4 {
			binary.LittleEndian.PutUint32(buf[(c*4+row)*4:], math.Float32bits(m[row*4+c]))
		}
	}
	binary.LittleEndian.PutUint32(buf[64:], uint32(layerSize.X)) //nolint:gosec // layer sizes fit uint32
	binary.LittleEndian.PutUint32(buf[68:], uint32(layerSize.Y)) //nolint:gosec // layer sizes fit uint32
	r.queue.WriteBuffer(r.uniformBuf, 0, buf)

	r.uniformParam = param
	r.uniformLayer = layerSize
	r.uniformValid = true
}

// frame uploads the dirty part of the layer, draws and reads the view back.
func (r *GPURenderer) frame(param Parameter, layer ekaki.Layer, layerRect image.Rectangle) error {
	if r.size.X == 0 || r.size.Y == 0 {
		return nil
	}
	size := layer.Bounds().Size()
	if size.X == 0 || size.Y == 0 {
		r.surface.layer.Fill(r.background)
		return nil
	}

	if err := r.ensurePixels(size); err != nil {
		return err
	}
	r.upload(layer, layerRect)
	r.writeUniform(param, size)

	encoder, err := r.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{
		Label: "blit_encoder",
	})
	if err != nil {
		return fmt.Errorf("create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("blit_frame"); err != nil {
		return fmt.Errorf("begin encoding: %w", err)
	}

	bg := r.background
	rp := encoder.BeginRenderPass(&hal.RenderPassDescriptor{
		Label: "blit_pass",
		ColorAttachments: []hal.RenderPassColorAttachment{{
			View:       r.targetView,
			LoadOp:     gputypes.LoadOpClear,
			StoreOp:    gputypes.StoreOpStore,
			ClearValue: gputypes.Color{R: bg.R, G: bg.G, B: bg.B, A: bg.A},
		}},
	})
	rp.SetPipeline(r.pipeline)
	rp.SetBindGroup(0, r.bindGroup, nil)
	rp.Draw(6, 1, 0, 0)
	rp.End()

	w, h := uint32(r.size.X), uint32(r.size.Y) //nolint:gosec // sizes are positive ints

	encoder.TransitionTextures([]hal.TextureBarrier{{
		Texture: r.target,
		Usage: hal.TextureUsageTransition{
			OldUsage: gputypes.TextureUsageRenderAttachment,
			NewUsage: gputypes.TextureUsageCopySrc,
		},
	}})
	encoder.CopyTextureToBuffer(r.target, r.staging, []hal.BufferTextureCopy{{
		BufferLayout: hal.ImageDataLayout{Offset: 0, BytesPerRow: r.pitch, RowsPerImage: h},
		TextureBase:  hal.ImageCopyTexture{Texture: r.target, MipLevel: 0},
		Size:         hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
	}})
	encoder.TransitionTextures([]hal.TextureBarrier{{
		Texture: r.target,
		Usage: hal.TextureUsageTransition{
			OldUsage: gputypes.TextureUsageCopySrc,
			NewUsage: gputypes.TextureUsageRenderAttachment,
		},
	}})

	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return fmt.Errorf("end encoding: %w", err)
	}
	defer r.device.FreeCommandBuffer(cmdBuf)

	fence, err := r.device.CreateFence()
	if err != nil {
		return fmt.Errorf("create fence: %w", err)
	}
	defer r.device.DestroyFence(fence)

	if err := r.queue.Submit([]hal.CommandBuffer{cmdBuf}, fence, 1); err != nil {
		return fmt.Errorf("submit: %w", err)
	}
	fenceOK, err := r.device.Wait(fence, 1, gpuWaitTimeout)
	if err != nil || !fenceOK {
		return fmt.Errorf("wait for GPU: ok=%v err=%w", fenceOK, err)
	}

	readback := make([]byte, uint64(r.pitch)*uint64(h))
	if err := r.queue.ReadBuffer(r.staging, 0, readback); err != nil {
		return fmt.Errorf("readback: %w", err)
	}

	pix, stride := r.surface.Pixels(), r.surface.Stride()
	for y := 0; y < r.size.Y; y++ {
		copy(pix[y*stride:(y+1)*stride], readback[y*int(r.pitch):])
	}
	return nil
}

// Kind implements Renderer.
func (r *GPURenderer) Kind() Kind { return KindGPU }

// Surface implements Renderer.
func (r *GPURenderer) Surface() *Surface { return r.surface }

// SetSize implements Renderer.
func (r *GPURenderer) SetSize(width, height int) {
	r.size = image.Pt(max(width, 0), max(height, 0))
	r.surface.resize(r.size.X, r.size.Y, r.background)
	r.uniformValid = false

	r.destroyTargets()
	if r.size.X == 0 || r.size.Y == 0 {
		return
	}
	if err := r.createTargets(); err != nil {
		ekaki.Logger().Warn("render: resize GPU targets", "err", err)
		r.size = image.Point{}
	}
}

// SetBackground implements Renderer. It takes effect on the next frame.
func (r *GPURenderer) SetBackground(c ekaki.Color) { r.background = c }

// Render implements Renderer.
func (r *GPURenderer) Render(param Parameter, layer ekaki.Layer) image.Rectangle {
	return r.RenderRect(param, layer, layer.Bounds())
}

// RenderRect implements Renderer. The whole view is redrawn; the returned
// rect is the part expected to differ from the previous frame.
func (r *GPURenderer) RenderRect(param Parameter, layer ekaki.Layer, layerRect image.Rectangle) image.Rectangle {
	rect := r.renderRect(param, layer.Bounds(), layerRect).Intersect(r.viewBounds())
	if err := r.frame(param, layer, layerRect); err != nil {
		ekaki.Logger().Warn("render: GPU frame failed", "err", err)
		return image.Rectangle{}
	}
	r.surface.present(r.viewBounds())
	return rect
}

// Invalidate implements Renderer.
func (r *GPURenderer) Invalidate(param Parameter, layer ekaki.Layer) {
	r.prev = param
	r.uploaded = false
	if err := r.frame(param, layer, layer.Bounds()); err != nil {
		ekaki.Logger().Warn("render: GPU frame failed", "err", err)
		return
	}
	r.surface.present(r.viewBounds())
}

// Close implements Renderer. A device owned by the host is left open.
func (r *GPURenderer) Close() {
	r.destroy()
	if r.instance != nil {
		r.device.Destroy()
		r.instance.Destroy()
		r.instance = nil
	}
}

func (r *GPURenderer) destroy() {
	if r.device == nil {
		return
	}
	r.destroyTargets()
	r.destroyPixels()
	if r.uniformBuf != nil {
		r.device.DestroyBuffer(r.uniformBuf)
		r.uniformBuf = nil
	}
	if r.pipeline != nil {
		r.device.DestroyRenderPipeline(r.pipeline)
		r.pipeline = nil
	}
	if r.pipeLayout != nil {
		r.device.DestroyPipelineLayout(r.pipeLayout)
		r.pipeLayout = nil
	}
	if r.bindLayout != nil {
		r.device.DestroyBindGroupLayout(r.bindLayout)
		r.bindLayout = nil
	}
	if r.shader != nil {
		r.device.DestroyShaderModule(r.shader)
		r.shader = nil
	}
}
