package main

import (
	"fmt"
	"os"
)

// Relax runs the two-phase relaxation and layout engine described in the
// component design: phase 1 binds jump targets and performs the first
// promotion pass; phase 2 re-walks the list until a full sweep produces
// zero growth. Grounded on the block-list architecture in block.go and
// the displacement formula from original_source/tools/assembler.c's
// label-patching loop, generalized to an explicit fixpoint.
func (a *Assembler) Relax() error {
	grown, err := a.relaxBind()
	if err != nil {
		return err
	}
	sweeps := 0
	for grown {
		grown = a.relaxSweep()
		sweeps++
		if Verbose && grown {
			fmt.Fprintf(os.Stderr, "relax: sweep %d still growing\n", sweeps)
		}
	}
	if Verbose {
		fmt.Fprintf(os.Stderr, "relax: stabilized after %d sweep(s)\n", sweeps)
	}
	return nil
}

// relaxBind is phase 1: walk once, resolving each jump's target name to
// a block pointer on first sight, and promoting short forms whose
// displacement doesn't fit.
func (a *Assembler) relaxBind() (grown bool, err error) {
	var offset int64
	for blk := a.graph.Head; blk != nil; blk = blk.Next {
		blk.Address = uint64(int64(blk.Address) + offset)
		if blk.Kind != BlockJump {
			continue
		}
		if blk.Target == nil {
			target, ok := a.labels.Get(blk.TargetName)
			if !ok {
				return grown, a.errfAt(SemanticError, blk.Line, "unknown label %q", blk.TargetName)
			}
			blk.Target = target
		}
		if a.promoteIfNeeded(blk, &offset) {
			grown = true
		}
	}
	return grown, nil
}

// relaxSweep is phase 2: re-walk the fully-bound list, recomputing
// displacements and promoting any short jump that no longer fits. Near
// jumps never downgrade.
func (a *Assembler) relaxSweep() (grown bool) {
	var offset int64
	for blk := a.graph.Head; blk != nil; blk = blk.Next {
		blk.Address = uint64(int64(blk.Address) + offset)
		if blk.Kind != BlockJump {
			continue
		}
		if a.promoteIfNeeded(blk, &offset) {
			grown = true
		}
	}
	return grown
}

// promoteIfNeeded computes blk's displacement against its already-bound
// target, recording it in blk.Disp, and promotes short forms to near
// forms when the displacement doesn't fit a signed 8-bit field. The
// source only checked the positive bound (INT8_MAX); both bounds are
// checked here.
func (a *Assembler) promoteIfNeeded(blk *Block, offset *int64) bool {
	disp := int64(blk.Target.Address) - int64(blk.Address) - int64(blk.JumpSize)
	blk.Disp = disp
	if disp >= -128 && disp <= 127 {
		return false
	}

	oldSize := blk.JumpSize
	switch blk.JumpOp {
	case JumpShortJmp:
		blk.JumpOp = JumpNearJmp
		if blk.LongMode {
			blk.JumpSize = 5
		} else {
			blk.JumpSize = 3
		}
	case JumpShortJnz:
		blk.JumpOp = JumpNearJnz
		if blk.LongMode {
			blk.JumpSize = 6
		} else {
			blk.JumpSize = 4
		}
	default:
		// Already a near form with a 16/32-bit field; it never downgrades.
		return false
	}

	blk.Disp = int64(blk.Target.Address) - int64(blk.Address) - int64(blk.JumpSize)
	*offset += int64(blk.JumpSize - oldSize)
	if Verbose {
		fmt.Fprintf(os.Stderr, "relax: promoted jump at %d to %d bytes (target %q, disp %d)\n",
			blk.Address, blk.JumpSize, blk.TargetName, blk.Disp)
	}
	return true
}
