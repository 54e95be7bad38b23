package schedule

import (
	"github.com/gogpu/forge/access"
	"github.com/gogpu/forge/backend"
)

// BufferUse is one node's access to one buffer (spec §4.5 Collect input).
type BufferUse struct {
	BufferID uint64
	Access   access.BufferAccess
	Usage    backend.BufferUsage
	Stages   uint32
}

// ImageUse is one node's access to one image.
type ImageUse struct {
	ImageID uint64
	Access  access.ImageAccess
	Usage   backend.ImageUsage
	Stages  uint32
}

// Node is one unit of scheduled work: a frame-graph pass's resource
// accesses and the ids of the nodes it depends on. Grounded on rendy's
// chain/src/node.rs Node{id, family, dependencies, buffers, images}
// (referenced from collect.rs; the type itself sits outside the
// retrieved excerpt, reconstructed here from its call sites).
type Node struct {
	ID           int
	Family       int
	Dependencies []int
	Buffers      []BufferUse
	Images       []ImageUse
	Present      *PresentHint
}
