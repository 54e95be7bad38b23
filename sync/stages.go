package sync

// PipelineStage is the Vulkan-style pipeline-stage bitmask forge passes
// to backend.Device.CmdPipelineBarrier and carries on schedule.BufferUse/
// ImageUse.Stages.
type PipelineStage uint32

const (
	StageTopOfPipe PipelineStage = 1 << iota
	StageDrawIndirect
	StageVertexInput
	StageVertexShader
	StageFragmentShader
	StageEarlyFragmentTests
	StageLateFragmentTests
	StageColorAttachmentOutput
	StageComputeShader
	StageTransfer
	StageBottomOfPipe
	StageHost
	StageAllGraphics
	StageAllCommands
)
