package sync

import (
	"github.com/gogpu/forge/access"
	"github.com/gogpu/forge/backend"
)

type imageTransition struct {
	image         backend.RawImage
	rng           backend.SubresourceRange
	srcAccess     access.ImageAccess
	dstAccess     access.ImageAccess
	oldLayout     backend.ImageLayout
	newLayout     backend.ImageLayout
}

// BarrierSet accumulates the buffer/image accesses that happen
// immediately before and immediately after one target operation (a
// render pass, a dispatch, a copy), then flattens them into a single
// pair of backend.Device.CmdPipelineBarrier calls (spec §4.6
// "Synchronizer: barriers"). Grounded on rendy's factory/src/barriers.rs
// Barriers type; queue-family ownership transfer is not modeled (the
// original leaves it as a TODO on ImageBarrier.families too).
type BarrierSet struct {
	targetStages PipelineStage
	targetBuffer access.BufferAccess
	targetImage  access.ImageAccess

	beforeStages      PipelineStage
	beforeBufferAcc   access.BufferAccess
	beforeImageAcc    access.ImageAccess
	beforeTransitions []imageTransition

	afterStages      PipelineStage
	afterBufferAcc   access.BufferAccess
	afterImageAcc    access.ImageAccess
	afterTransitions []imageTransition
}

// NewBarrierSet starts a BarrierSet for an operation that will itself
// touch resources with targetStages/targetBuffer/targetImage.
func NewBarrierSet(targetStages PipelineStage, targetBuffer access.BufferAccess, targetImage access.ImageAccess) *BarrierSet {
	return &BarrierSet{targetStages: targetStages, targetBuffer: targetBuffer, targetImage: targetImage}
}

// AddImage folds one image's surrounding accesses into the set. lastX
// describes how the image was used just before the target operation,
// nextX how it will be used just after; targetLayout is the layout the
// target operation itself requires.
func (s *BarrierSet) AddImage(
	image backend.RawImage, rng backend.SubresourceRange,
	lastStage PipelineStage, lastAccess access.ImageAccess, lastLayout backend.ImageLayout,
	targetLayout backend.ImageLayout,
	nextStage PipelineStage, nextAccess access.ImageAccess, nextLayout backend.ImageLayout,
) {
	s.beforeStages |= lastStage
	s.beforeImageAcc |= lastAccess
	s.afterStages |= nextStage
	s.afterImageAcc |= nextAccess

	if lastLayout != targetLayout {
		s.beforeTransitions = append(s.beforeTransitions, imageTransition{
			image: image, rng: rng,
			srcAccess: lastAccess, dstAccess: s.targetImage,
			oldLayout: lastLayout, newLayout: targetLayout,
		})
	}
	if nextLayout != targetLayout {
		s.afterTransitions = append(s.afterTransitions, imageTransition{
			image: image, rng: rng,
			srcAccess: s.targetImage, dstAccess: nextAccess,
			oldLayout: targetLayout, newLayout: nextLayout,
		})
	}
}

// AddBuffer folds one buffer's surrounding accesses into the set. Unlike
// images, buffers carry no layout, so there is nothing to transition —
// only the accumulated access/stage masks feed the flattened barrier.
func (s *BarrierSet) AddBuffer(lastStage PipelineStage, lastAccess access.BufferAccess, nextStage PipelineStage, nextAccess access.BufferAccess) {
	s.beforeStages |= lastStage
	s.beforeBufferAcc |= lastAccess
	s.afterStages |= nextStage
	s.afterBufferAcc |= nextAccess
}

// EncodeBefore issues the barrier that must precede the target
// operation, then resets the "before" accumulator.
func (s *BarrierSet) EncodeBefore(dev backend.Device, cb backend.RawCommandBuffer) {
	if s.beforeStages != 0 {
		images := make([]backend.ImageBarrier, len(s.beforeTransitions))
		for i, t := range s.beforeTransitions {
			images[i] = backend.ImageBarrier{
				Image: t.image, Range: t.rng,
				SrcAccessMask: uint32(t.srcAccess), DstAccessMask: uint32(t.dstAccess),
				OldLayout: t.oldLayout, NewLayout: t.newLayout,
			}
		}
		var memory []backend.MemoryBarrier
		if s.beforeImageAcc != 0 || s.beforeBufferAcc != 0 {
			memory = []backend.MemoryBarrier{{
				SrcAccessMask: uint32(s.beforeImageAcc) | uint32(s.beforeBufferAcc),
				DstAccessMask: uint32(s.targetImage) | uint32(s.targetBuffer),
			}}
		}
		dev.CmdPipelineBarrier(cb, uint32(s.beforeStages), uint32(s.targetStages), memory, nil, images)
	}

	s.beforeStages = 0
	s.beforeBufferAcc = 0
	s.beforeImageAcc = 0
	s.beforeTransitions = nil
}

// EncodeAfter issues the barrier that must follow the target operation,
// then resets the "after" accumulator.
func (s *BarrierSet) EncodeAfter(dev backend.Device, cb backend.RawCommandBuffer) {
	if s.targetStages != 0 {
		images := make([]backend.ImageBarrier, len(s.afterTransitions))
		for i, t := range s.afterTransitions {
			images[i] = backend.ImageBarrier{
				Image: t.image, Range: t.rng,
				SrcAccessMask: uint32(t.srcAccess), DstAccessMask: uint32(t.dstAccess),
				OldLayout: t.oldLayout, NewLayout: t.newLayout,
			}
		}
		var memory []backend.MemoryBarrier
		if s.afterImageAcc != 0 || s.afterBufferAcc != 0 {
			memory = []backend.MemoryBarrier{{
				SrcAccessMask: uint32(s.targetImage) | uint32(s.targetBuffer),
				DstAccessMask: uint32(s.afterImageAcc) | uint32(s.afterBufferAcc),
			}}
		}
		dev.CmdPipelineBarrier(cb, uint32(s.targetStages), uint32(s.afterStages), memory, nil, images)
	}

	s.afterStages = 0
	s.afterBufferAcc = 0
	s.afterImageAcc = 0
	s.afterTransitions = nil
}
