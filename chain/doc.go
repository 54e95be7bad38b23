// Package chain implements the per-resource Link/Chain model (spec §4.5
// "Chain analyzer"): a Chain is an ordered sequence of Links, and a Link is
// a maximal group of consecutive, compatible resource-uses sharing one
// queue family.
//
// Grounded on amethyst/rendy's chain/src/chain/link.rs (LinkQueueState,
// Link::compatible/add_node) and chain/src/resource.rs (the access/layout
// rules access.HasWrite/access.LayoutFor implement). forge keeps Buffer
// and Image as two concrete types instead of rendy's single generic
// Resource trait — Go's lack of associated types makes a shared generic
// Link[R] carry more type-parameter ceremony than the two variants'
// actual code duplication would cost.
//
// Resolves spec §9's "access exclusivity" ambiguity (the retrieved rendy
// source's Link::compatible only ORs access flags and never reconsults
// layout_for) by following spec §4.4's own written definition instead:
// exclusivity is "any write access, OR any access requiring a layout
// different from the link's common layout" — so Compatible also rejects a
// node whose own required layout (access.LayoutFor of its access alone)
// disagrees with the link's established layout, which the original's
// write-only check does not catch. This is a deliberate behavior
// refinement, recorded in DESIGN.md.
package chain
