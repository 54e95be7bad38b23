package resource

import (
	"github.com/gogpu/forge/backend"
	"github.com/gogpu/forge/handle"
)

// ImageViewKey normalizes an image view's identity for the derived-object
// cache (spec §4.8 "ImageViewKey { image_handle, view_info }"): the owning
// image's handle plus its full creation info, both plain comparable values
// so ImageViewKey is usable directly as a Go map key.
type ImageViewKey struct {
	Image handle.Instance[Image]
	View  backend.ImageViewInfo
}

// ImageView owns a raw view and a strong reference to its Image (spec §3
// "Derived image objects").
type ImageView struct {
	Raw   backend.RawImageView
	Image handle.Instance[Image]
	Info  backend.ImageViewInfo
}

// CreateImageView creates the raw view for key, retaining a strong
// reference to the owning image via images.
func CreateImageView(dev backend.Device, images *handle.InstanceStore[Image], key ImageViewKey) (ImageView, error) {
	imgHandle, err := images.Retain(key.Image)
	if err != nil {
		return ImageView{}, err
	}
	raw, err := dev.CreateImageView(key.View)
	if err != nil {
		images.Release(imgHandle)
		return ImageView{}, err
	}
	return ImageView{Raw: raw, Image: imgHandle, Info: key.View}, nil
}

// Dispose destroys the raw view and releases its reference to the owning
// image.
func (v ImageView) Dispose(dev backend.Device, images *handle.InstanceStore[Image]) {
	dev.DestroyImageView(v.Raw)
	images.Release(v.Image)
}

// SamplerDesc is the normalized sampler key (spec §4.8 "SamplerDesc"): it
// is exactly backend.SamplerInfo, which is already a plain comparable
// struct of enum/scalar fields and therefore usable as a map key without
// further normalization.
type SamplerDesc = backend.SamplerInfo

// Sampler owns a raw sampler object (spec §3).
type Sampler struct {
	Raw  backend.RawSampler
	Info SamplerDesc
}

// CreateSampler creates the raw sampler for desc.
func CreateSampler(dev backend.Device, desc SamplerDesc) (Sampler, error) {
	raw, err := dev.CreateSampler(desc)
	if err != nil {
		return Sampler{}, err
	}
	return Sampler{Raw: raw, Info: desc}, nil
}

// Dispose destroys the raw sampler.
func (s Sampler) Dispose(dev backend.Device) { dev.DestroySampler(s.Raw) }

// ShaderModuleKey is the module's SPIR-V words, content-addressed (spec
// §4.8 "ShaderModuleKey { spirv_bytes }"). []uint32 is not itself
// comparable, so the key is the canonical byte encoding turned into a Go
// string — a copy, but strings are comparable and hashable out of the box,
// giving exact equality with no collision risk (unlike a digest-only key).
type ShaderModuleKey string

// NewShaderModuleKey computes the key for a SPIR-V module.
func NewShaderModuleKey(spirv []uint32) ShaderModuleKey {
	buf := make([]byte, 4*len(spirv))
	for i, w := range spirv {
		buf[4*i], buf[4*i+1], buf[4*i+2], buf[4*i+3] = byte(w), byte(w>>8), byte(w>>16), byte(w>>24)
	}
	return ShaderModuleKey(buf)
}

// ShaderModule owns a raw module plus the SPIR-V bytes used as its key
// (spec §3 "ShaderModule owns raw module + SPIR-V bytes used as key").
type ShaderModule struct {
	Raw   backend.RawShaderModule
	SPIRV []uint32
	Key   ShaderModuleKey
}

// CreateShaderModule creates the raw module for spirv.
func CreateShaderModule(dev backend.Device, spirv []uint32) (ShaderModule, error) {
	raw, err := dev.CreateShaderModule(backend.ShaderModuleInfo{SPIRV: spirv})
	if err != nil {
		return ShaderModule{}, err
	}
	return ShaderModule{Raw: raw, SPIRV: spirv, Key: NewShaderModuleKey(spirv)}, nil
}

// Dispose destroys the raw shader module.
func (m ShaderModule) Dispose(dev backend.Device) { dev.DestroyShaderModule(m.Raw) }
