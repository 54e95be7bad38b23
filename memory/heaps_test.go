package memory

import (
	"testing"

	"github.com/gogpu/forge/backend"
	"github.com/gogpu/forge/backend/software"
)

// stubUsage is a minimal Usage for exercising Heaps routing in isolation,
// standing in for the concrete access.BufferUsageHint and
// access.ImageUsageHint types.
type stubUsage struct {
	required      backend.MemoryPropertyFlags
	preferCached  bool
	allocatorPref map[Kind]int
}

func (u stubUsage) PropertiesRequired() backend.MemoryPropertyFlags { return u.required }

func (u stubUsage) MemoryFitness(props backend.MemoryPropertyFlags) int {
	fit := 0
	if props.Contains(backend.MemoryPropDeviceLocal) {
		fit += 10
	}
	if u.preferCached && props.Contains(backend.MemoryPropHostCached) {
		fit += 5
	}
	return fit
}

func (u stubUsage) AllocatorFitness(kind Kind) int {
	if u.allocatorPref == nil {
		return 0
	}
	return u.allocatorPref[kind]
}

func TestHeapsRoutesDeviceLocalUpload(t *testing.T) {
	dev := software.New()
	h := NewHeaps(dev.MemoryProperties(), HeapsConfig{})

	usage := stubUsage{
		required:      backend.MemoryPropDeviceLocal,
		allocatorPref: map[Kind]int{Dedicated: 1},
	}
	reqs := backend.Requirements{Size: 4096, Alignment: 256, TypeMask: ^uint32(0)}

	block, typeIndex, err := h.Allocate(dev, reqs, usage)
	if err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	if typeIndex != 0 {
		t.Fatalf("typeIndex = %d, want 0 (the only device-local type)", typeIndex)
	}
	if block.Kind != Dedicated {
		t.Fatalf("Kind = %v, want Dedicated", block.Kind)
	}
	h.Free(dev, typeIndex, block)
}

func TestHeapsPrefersDynamicWhenFitter(t *testing.T) {
	dev := software.New()
	h := NewHeaps(dev.MemoryProperties(), HeapsConfig{})

	usage := stubUsage{
		required:      backend.MemoryPropHostVisible,
		allocatorPref: map[Kind]int{Dynamic: 3, Linear: 2, Dedicated: 1},
	}
	reqs := backend.Requirements{Size: 512, Alignment: 16, TypeMask: ^uint32(0)}

	block, _, err := h.Allocate(dev, reqs, usage)
	if err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	if block.Kind != Dynamic {
		t.Fatalf("Kind = %v, want Dynamic", block.Kind)
	}
}

func TestHeapsNoSuitableMemory(t *testing.T) {
	dev := software.New()
	h := NewHeaps(dev.MemoryProperties(), HeapsConfig{})

	usage := stubUsage{required: backend.MemoryPropertyFlags(1 << 30)} // unsatisfiable
	reqs := backend.Requirements{Size: 1, Alignment: 1, TypeMask: ^uint32(0)}

	_, _, err := h.Allocate(dev, reqs, usage)
	if err == nil {
		t.Fatal("expected NoSuitableMemoryError")
	}
	if _, ok := err.(*NoSuitableMemoryError); !ok {
		t.Fatalf("err = %T, want *NoSuitableMemoryError", err)
	}
}

func TestHeapsRejectsOversizedRequestForHeap(t *testing.T) {
	dev := software.NewWithConfig(software.Config{
		Heaps: []backend.MemoryHeap{{Size: 1024}},
		Types: []backend.MemoryType{{Properties: backend.MemoryPropDeviceLocal, HeapIndex: 0}},
	})
	h := NewHeaps(dev.MemoryProperties(), HeapsConfig{})

	usage := stubUsage{required: backend.MemoryPropDeviceLocal, allocatorPref: map[Kind]int{Dedicated: 1}}
	reqs := backend.Requirements{Size: 2048, Alignment: 1, TypeMask: ^uint32(0)}

	_, _, err := h.Allocate(dev, reqs, usage)
	if err == nil {
		t.Fatal("expected error: request exceeds heap size")
	}
}
