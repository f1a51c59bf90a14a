// Package hir holds the elaborated, type-resolved VHDL design tree consumed by
// code generation.
//
// HIR is produced by semantic analysis and is read-only from code
// generation's point of view. Nodes are addressed by NodeID; references that
// may point at several node kinds carry a closed kind enum next to the id
// (DeclRef, ConcStmtRef, SeqStmtRef) so lowering can dispatch exhaustively.
package hir

// NodeID identifies an elaborated node within an Arena.
type NodeID uint32

// NoNodeID marks an absent node (zero is sentinel).
const NoNodeID NodeID = 0

// IsValid returns true if the ID is valid (non-zero).
func (id NodeID) IsValid() bool { return id != NoNodeID }
