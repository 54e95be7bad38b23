// Command forgedemo wires the forge core end to end against the
// in-process software backend: three nodes across two queue families
// sharing one image, run through Graph.Build, with the resulting schedule
// and synchronization plan printed to stdout. It is the minimal
// reproduction of spec §8 scenario S3 ("family transfer increases fitness
// cost"), not a renderer.
package main

import (
	"fmt"

	"github.com/gogpu/forge"
	"github.com/gogpu/forge/access"
	"github.com/gogpu/forge/backend"
	"github.com/gogpu/forge/backend/software"
	"github.com/gogpu/forge/schedule"
)

const (
	familyGraphics = 0
	familyCompute  = 1
)

func maxQueues(family int) int {
	return 1
}

func main() {
	dev := software.New()
	g := forge.New(dev, forge.Config{})

	const imageID = 1

	nodes := []schedule.Node{
		{
			ID:     0,
			Family: familyGraphics,
			Images: []schedule.ImageUse{{
				ImageID: imageID,
				Access:  access.ImageAccessColorAttachmentWrite,
				Usage:   backend.ImageUsageColorAttachment,
				Stages:  1 << 7, // color-attachment-output stage
			}},
		},
		{
			ID:           1,
			Family:       familyCompute,
			Dependencies: []int{0},
			Images: []schedule.ImageUse{{
				ImageID: imageID,
				Access:  access.ImageAccessShaderRead,
				Usage:   backend.ImageUsageStorage,
				Stages:  1 << 8, // compute-shader stage
			}},
		},
		{
			ID:           2,
			Family:       familyGraphics,
			Dependencies: []int{1},
			Images: []schedule.ImageUse{{
				ImageID: imageID,
				Access:  access.ImageAccessShaderRead,
				Usage:   backend.ImageUsageSampled,
				Stages:  1 << 0,
			}},
		},
	}

	frame := g.Build(nodes, maxQueues)

	for _, sub := range frame.Schedule.Ordered() {
		s := frame.Sync.Sync[sub.ID]
		fmt.Printf("family=%d queue=%d submit_order=%d node=%d wait=%v signal=%v\n",
			sub.ID.Queue.Family, sub.ID.Queue.Index, sub.SubmitOrder, sub.NodeID, s.Wait, s.Signal)
	}

	fmt.Printf("barriers=%d fences=%d semaphores=%d\n",
		len(frame.Sync.Barriers), len(frame.Sync.Fences), frame.Sync.SemaphoreCount)
}
