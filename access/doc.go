// Package access implements forge's resource/access model (spec §4.4):
// the Buffer and Image access-flag vocabularies, which usage-flag bits
// each access bit requires, and — for images — which layout an access
// combination prefers.
//
// Grounded on amethyst/rendy's chain/src/resource.rs Resource trait (the
// BUFFER_ACCESSES/IMAGE_ACCESSES tables and their valid_usage/layout_for
// folds), translated from a generic Resource trait over two single-method
// implementations (rendy uses one associated-type trait with Buffer/Image
// marker structs; forge uses two concrete flag types instead, since Go has
// no associated types and the two resource kinds never actually share
// logic beyond the shape of the check).
package access
