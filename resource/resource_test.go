package resource

import (
	"testing"

	"github.com/gogpu/forge/backend"
	"github.com/gogpu/forge/backend/software"
	"github.com/gogpu/forge/handle"
	"github.com/gogpu/forge/memory"
)

type stubUsage struct{}

func (stubUsage) PropertiesRequired() backend.MemoryPropertyFlags { return backend.MemoryPropDeviceLocal }
func (stubUsage) MemoryFitness(props backend.MemoryPropertyFlags) int {
	if props.Contains(backend.MemoryPropDeviceLocal) {
		return 1
	}
	return 0
}
func (stubUsage) AllocatorFitness(kind memory.Kind) int {
	if kind == memory.Dedicated {
		return 1
	}
	return 0
}

func TestCreateBufferAndDispose(t *testing.T) {
	dev := software.New()
	heaps := memory.NewHeaps(dev.MemoryProperties(), memory.HeapsConfig{})

	buf, err := CreateBuffer(dev, heaps, backend.BufferInfo{Size: 256, Usage: backend.BufferUsageVertex}, stubUsage{})
	if err != nil {
		t.Fatalf("CreateBuffer: %v", err)
	}
	if buf.Block.Size() == 0 {
		t.Fatal("expected a non-empty block")
	}
	buf.Dispose(dev, heaps)
}

func TestShaderModuleKeyDedup(t *testing.T) {
	spirv := []uint32{1, 2, 3, 4}
	k1 := NewShaderModuleKey(spirv)
	k2 := NewShaderModuleKey([]uint32{1, 2, 3, 4})
	if k1 != k2 {
		t.Fatal("identical SPIR-V should produce equal keys")
	}
	k3 := NewShaderModuleKey([]uint32{1, 2, 3, 5})
	if k1 == k3 {
		t.Fatal("different SPIR-V should produce different keys")
	}
}

func TestDescriptorSetLayoutKeyStability(t *testing.T) {
	bindings := []backend.DescriptorBindingInfo{
		{Binding: 0, Type: backend.DescriptorTypeUniformBuffer, Count: 1, StageFlags: 1},
		{Binding: 1, Type: backend.DescriptorTypeSampledImage, Count: 1, StageFlags: 2},
	}
	k1 := NewDescriptorSetLayoutKey(bindings)
	k2 := NewDescriptorSetLayoutKey(append([]backend.DescriptorBindingInfo{}, bindings...))
	if k1 != k2 {
		t.Fatal("equal binding vectors should produce equal keys")
	}
}

func TestRenderPassCompatTokenIgnoresLoadStoreOps(t *testing.T) {
	base := backend.RenderPassInfo{
		Attachments: []backend.AttachmentDescription{
			{Format: 1, Samples: 1, LoadOp: 0, StoreOp: 0},
		},
		Subpasses: []backend.SubpassDescription{
			{ColorAttachments: []backend.AttachmentRef{{Attachment: 0, Layout: backend.ImageLayoutColorAttachmentOptimal}}},
		},
	}
	varied := base
	varied.Attachments = []backend.AttachmentDescription{
		{Format: 1, Samples: 1, LoadOp: 1, StoreOp: 1}, // different ops, same compat-relevant fields
	}

	if NewRenderPassCompatToken(base) != NewRenderPassCompatToken(varied) {
		t.Fatal("compat token must ignore load/store ops")
	}

	incompatible := base
	incompatible.Attachments = []backend.AttachmentDescription{
		{Format: 2, Samples: 1},
	}
	if NewRenderPassCompatToken(base) == NewRenderPassCompatToken(incompatible) {
		t.Fatal("different formats must produce different compat tokens")
	}
}

func TestImageViewRetainsOwningImage(t *testing.T) {
	dev := software.New()
	images := handle.NewInstanceStore[Image](dev.Identity(), func(Image) {})

	img := Image{Raw: 1}
	imgHandle := images.Insert(img)

	view, err := CreateImageView(dev, images, ImageViewKey{Image: imgHandle, View: backend.ImageViewInfo{Image: img.Raw}})
	if err != nil {
		t.Fatalf("CreateImageView: %v", err)
	}
	if images.Len() != 1 {
		t.Fatalf("Len = %d, want 1 (view retains the image)", images.Len())
	}

	view.Dispose(dev, images)
	if images.Len() != 1 {
		t.Fatalf("Len = %d, want 1 (original Insert ref still live)", images.Len())
	}
}
