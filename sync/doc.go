// Package sync turns a schedule.Schedule's chain boundaries into the
// actual synchronization primitives a frame needs: pipeline barriers
// within a queue, and semaphores/fences across queues (spec §4.6
// "Synchronizer"). Queue-family ownership transfer is not modeled (see
// BarrierSet doc): a link boundary that crosses families gets a semaphore
// dependency only, with no release/acquire barrier pair.
//
// Grounded on amethyst/rendy's factory/src/barriers.rs (the BarrierSet
// accumulate-then-flush shape) and chain/src/schedule (the Submission
// Wait/Signal/Sync surface Synchronize fills in). Synchronize does not use
// BarrierSet; it records one Barrier per same-family link boundary.
package sync
