package descriptor

import (
	"sync"

	"github.com/gogpu/forge/backend"
)

// pool is one backend descriptor pool and its live-set bookkeeping.
type pool struct {
	raw      backend.RawDescriptorPool
	capacity int
	used     int
}

// bucket is one range signature's FIFO of pools.
type bucket struct {
	bindings []backend.DescriptorBindingInfo // representative shape for sizing new pools
	pools    []*pool
	setOwner map[backend.RawDescriptorSet]*pool
}

// Allocator is the descriptor-set pool allocator (spec §4.3).
type Allocator struct {
	mu      sync.Mutex
	buckets map[RangeSignature]*bucket
}

// New constructs an empty Allocator.
func New() *Allocator {
	return &Allocator{buckets: make(map[RangeSignature]*bucket)}
}

func (a *Allocator) bucketFor(sig RangeSignature, bindings []backend.DescriptorBindingInfo) *bucket {
	b, ok := a.buckets[sig]
	if !ok {
		b = &bucket{bindings: bindings, setOwner: make(map[backend.RawDescriptorSet]*pool)}
		a.buckets[sig] = b
	}
	return b
}

// Allocate services `count` sets of the given layout, reusing an existing
// pool with enough free capacity for its signature before creating a new
// one (spec §4.3 "iterates live pools trying to satisfy from existing free
// counts; otherwise creates a pool sized to max(MIN_SETS, ...)").
func (a *Allocator) Allocate(dev backend.Device, layout backend.RawDescriptorSetLayout, bindings []backend.DescriptorBindingInfo, count int) ([]backend.RawDescriptorSet, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	sig := ComputeSignature(bindings)
	b := a.bucketFor(sig, bindings)

	layouts := make([]backend.RawDescriptorSetLayout, count)
	for i := range layouts {
		layouts[i] = layout
	}

	for _, p := range b.pools {
		if p.capacity-p.used >= count {
			sets, err := dev.AllocateDescriptorSets(p.raw, layouts)
			if err != nil {
				return nil, err
			}
			p.used += count
			for _, s := range sets {
				b.setOwner[s] = p
			}
			return sets, nil
		}
	}

	poolSetCount := MinSets
	if alt := int(nextPow2(uint32(count-1))) * 2; alt > poolSetCount {
		poolSetCount = alt
	}
	rawPool, err := dev.CreateDescriptorPool(backend.DescriptorPoolInfo{
		MaxSets: poolSetCount,
		Sizes:   typeCapacities(bindings, poolSetCount),
	})
	if err != nil {
		return nil, err
	}

	sets, err := dev.AllocateDescriptorSets(rawPool, layouts)
	if err != nil {
		// Partial-allocation rollback (spec §7): nothing was handed out
		// from this pool, so tearing it down fully reverses the attempt.
		dev.DestroyDescriptorPool(rawPool)
		return nil, err
	}

	p := &pool{raw: rawPool, capacity: poolSetCount, used: count}
	b.pools = append(b.pools, p)
	for _, s := range sets {
		b.setOwner[s] = p
	}
	return sets, nil
}

// Free groups sets by their origin pool and returns each group in one
// batch call (spec §4.3 "groups contiguous sets by their origin pool and
// returns them in batches"). Sets from a bucket this Allocator never
// served are ignored.
func (a *Allocator) Free(dev backend.Device, sig RangeSignature, sets []backend.RawDescriptorSet) {
	a.mu.Lock()
	defer a.mu.Unlock()

	b, ok := a.buckets[sig]
	if !ok {
		return
	}

	groups := make(map[*pool][]backend.RawDescriptorSet)
	for _, s := range sets {
		p, ok := b.setOwner[s]
		if !ok {
			continue
		}
		groups[p] = append(groups[p], s)
		delete(b.setOwner, s)
	}
	for p, group := range groups {
		dev.FreeDescriptorSets(p.raw, group)
		p.used -= len(group)
		if p.used < 0 {
			p.used = 0
		}
	}
}

// Cleanup drops head pools (per bucket, FIFO order) whose free count has
// returned to their full capacity (spec §4.3 "Periodic cleanup drops head
// pools whose free-count equals their size").
func (a *Allocator) Cleanup(dev backend.Device) {
	a.mu.Lock()
	defer a.mu.Unlock()

	for _, b := range a.buckets {
		i := 0
		for i < len(b.pools) && b.pools[i].used == 0 {
			dev.DestroyDescriptorPool(b.pools[i].raw)
			i++
		}
		b.pools = b.pools[i:]
	}
}
