// Package gpu mirrors CPU render textures into WebGPU textures so a host
// renderer can bind the composited moon surface directly.
package gpu

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/gekko3d/nightlight/skyrt/core"
	"go.uber.org/zap"
)

// Device is a surfaceless adapter/device/queue triple.
type Device struct {
	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	Device   *wgpu.Device
	Queue    *wgpu.Queue
}

// NewHeadlessDevice requests a high performance adapter without a surface.
func NewHeadlessDevice() (*Device, error) {
	instance := wgpu.CreateInstance(nil)
	adapter, err := instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		PowerPreference: wgpu.PowerPreferenceHighPerformance,
	})
	if err != nil {
		instance.Release()
		return nil, fmt.Errorf("request adapter: %w", err)
	}
	device, err := adapter.RequestDevice(&wgpu.DeviceDescriptor{
		Label: "Night Lighting Device",
	})
	if err != nil {
		adapter.Release()
		instance.Release()
		return nil, fmt.Errorf("request device: %w", err)
	}
	return &Device{
		instance: instance,
		adapter:  adapter,
		Device:   device,
		Queue:    device.GetQueue(),
	}, nil
}

func (d *Device) Release() {
	if d.Device != nil {
		d.Device.Release()
	}
	if d.adapter != nil {
		d.adapter.Release()
	}
	if d.instance != nil {
		d.instance.Release()
	}
}

// TextureMirror owns a GPU texture sized like its source render texture and
// re-uploads the pixels whenever the source reports a new update.
type TextureMirror struct {
	queue    *wgpu.Queue
	texture  *wgpu.Texture
	view     *wgpu.TextureView
	extent   wgpu.Extent3D
	uploaded uint64
	log      *zap.Logger
}

func NewTextureMirror(device *wgpu.Device, queue *wgpu.Queue, src *core.RenderTexture, log *zap.Logger) (*TextureMirror, error) {
	if log == nil {
		log = zap.NewNop()
	}
	b := src.Bounds()
	extent := wgpu.Extent3D{
		Width:              uint32(b.Dx()),
		Height:             uint32(b.Dy()),
		DepthOrArrayLayers: 1,
	}
	texture, err := device.CreateTexture(&wgpu.TextureDescriptor{
		Label:         src.Name(),
		Size:          extent,
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        wgpu.TextureFormatRGBA8Unorm,
		Usage:         wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("create mirror texture %q: %w", src.Name(), err)
	}
	view, err := texture.CreateView(nil)
	if err != nil {
		texture.Release()
		return nil, fmt.Errorf("create mirror view %q: %w", src.Name(), err)
	}
	return &TextureMirror{
		queue:   queue,
		texture: texture,
		view:    view,
		extent:  extent,
		log:     log,
	}, nil
}

// Attach uploads src after every completed render.
func (m *TextureMirror) Attach(src *core.RenderTexture) {
	src.OnUpdate(func(rt *core.RenderTexture) {
		if err := m.Upload(rt); err != nil {
			m.log.Warn("Moon texture upload failed", zap.String("texture", rt.Name()), zap.Error(err))
		}
	})
}

func (m *TextureMirror) Upload(src *core.RenderTexture) error {
	if src.UpdateCount() == m.uploaded {
		return nil
	}
	img := src.Image()
	err := m.queue.WriteTexture(
		m.texture.AsImageCopy(),
		img.Pix,
		&wgpu.TextureDataLayout{
			Offset:       0,
			BytesPerRow:  uint32(img.Stride),
			RowsPerImage: m.extent.Height,
		},
		&m.extent,
	)
	if err != nil {
		return err
	}
	m.uploaded = src.UpdateCount()
	return nil
}

func (m *TextureMirror) View() *wgpu.TextureView { return m.view }
func (m *TextureMirror) Uploaded() uint64        { return m.uploaded }

func (m *TextureMirror) Release() {
	if m.view != nil {
		m.view.Release()
	}
	if m.texture != nil {
		m.texture.Release()
	}
}
