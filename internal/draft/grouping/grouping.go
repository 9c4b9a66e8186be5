// Package grouping implements coverage-group membership and reordering over a
// draft's block collection.
//
// Operations take an ordered snapshot of blocks and return a new ordered
// snapshot; callers own persistence. Catalog-sourced instances are keyed by
// (catalogID, groupID) so membership behaves like a set scoped to one group.
package grouping

import (
	"fmt"

	"github.com/bwmarrin/snowflake"

	"github.com/fieldserve/contractbill/internal/draft/domain"
)

// NamespacedID builds the per-group instance id for a catalog block. In flat
// legacy mode (no coverage groups) the catalog id is used as-is.
func NamespacedID(catalogID string, groupID *snowflake.ID) string {
	if groupID == nil {
		return catalogID
	}
	return fmt.Sprintf("%s__%s", catalogID, groupID.String())
}

// FindInGroup scans only the given group for a catalog instance. A nil group
// scans the implicit flat group (blocks without a coverage group).
func FindInGroup(blocks []domain.ConfigurableBlock, catalogID string, groupID *snowflake.ID) *domain.ConfigurableBlock {
	id := NamespacedID(catalogID, groupID)
	for i := range blocks {
		if blocks[i].IsFlyBy {
			continue
		}
		if blocks[i].ID == id {
			return &blocks[i]
		}
	}
	return nil
}

// EnsureUnique rejects an insert when the catalog block already has an
// instance in the active group. Other groups are not scanned; the same
// catalog block may appear once per group.
func EnsureUnique(blocks []domain.ConfigurableBlock, catalogID string, groupID *snowflake.ID) error {
	if FindInGroup(blocks, catalogID, groupID) != nil {
		return domain.ErrDuplicateInGroup
	}
	return nil
}

// ToggleResult describes the outcome of a toggle-attach call.
type ToggleResult struct {
	Blocks  []domain.ConfigurableBlock
	Removed *domain.ConfigurableBlock
	Added   *domain.ConfigurableBlock
}

// Toggle applies set-like membership for a catalog instance: an existing
// instance in the active group is removed, otherwise the candidate is
// appended. The candidate's ID must already be namespaced for the group.
func Toggle(blocks []domain.ConfigurableBlock, candidate domain.ConfigurableBlock) ToggleResult {
	for i := range blocks {
		if blocks[i].ID == candidate.ID {
			removed := blocks[i]
			next := make([]domain.ConfigurableBlock, 0, len(blocks)-1)
			next = append(next, blocks[:i]...)
			next = append(next, blocks[i+1:]...)
			return ToggleResult{Blocks: renumber(next), Removed: &removed}
		}
	}
	candidate.Position = len(blocks)
	next := append(append([]domain.ConfigurableBlock(nil), blocks...), candidate)
	return ToggleResult{Blocks: next, Added: &next[len(next)-1]}
}

// Insert appends a block unconditionally. Fly-by insertions always create a
// new instance and are never deduplicated against catalog ids.
func Insert(blocks []domain.ConfigurableBlock, candidate domain.ConfigurableBlock) []domain.ConfigurableBlock {
	candidate.Position = len(blocks)
	return append(append([]domain.ConfigurableBlock(nil), blocks...), candidate)
}

// Remove drops the block with the given id. Removing an unknown id reports
// ErrBlockNotFound and leaves the snapshot unchanged.
func Remove(blocks []domain.ConfigurableBlock, id string) ([]domain.ConfigurableBlock, error) {
	for i := range blocks {
		if blocks[i].ID == id {
			next := make([]domain.ConfigurableBlock, 0, len(blocks)-1)
			next = append(next, blocks[:i]...)
			next = append(next, blocks[i+1:]...)
			return renumber(next), nil
		}
	}
	return blocks, domain.ErrBlockNotFound
}

// Move splices the dragged block into the target block's position. The move
// is confined to a single coverage group: a cross-group drop is rejected
// with ErrCrossGroupMove and the snapshot is unchanged. Dropping a block on
// itself is a no-op.
func Move(blocks []domain.ConfigurableBlock, draggedID, targetID string) ([]domain.ConfigurableBlock, error) {
	if draggedID == targetID {
		return blocks, nil
	}

	from, to := -1, -1
	for i := range blocks {
		switch blocks[i].ID {
		case draggedID:
			from = i
		case targetID:
			to = i
		}
	}
	if from < 0 || to < 0 {
		return blocks, domain.ErrBlockNotFound
	}
	if !blocks[from].SameGroup(&blocks[to]) {
		return blocks, domain.ErrCrossGroupMove
	}

	next := append([]domain.ConfigurableBlock(nil), blocks...)
	dragged := next[from]
	next = append(next[:from], next[from+1:]...)
	next = append(next[:to], append([]domain.ConfigurableBlock{dragged}, next[to:]...)...)
	return renumber(next), nil
}

// GroupBlocks filters the snapshot to one coverage group. A nil group selects
// the implicit flat group.
func GroupBlocks(blocks []domain.ConfigurableBlock, groupID *snowflake.ID) []domain.ConfigurableBlock {
	var out []domain.ConfigurableBlock
	for i := range blocks {
		if sameGroupID(blocks[i].CoverageGroupID, groupID) {
			out = append(out, blocks[i])
		}
	}
	return out
}

func sameGroupID(a, b *snowflake.ID) bool {
	if a == nil && b == nil {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	return *a == *b
}

func renumber(blocks []domain.ConfigurableBlock) []domain.ConfigurableBlock {
	for i := range blocks {
		blocks[i].Position = i
	}
	return blocks
}
