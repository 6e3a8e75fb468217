/*
 * Copyright 2024 CloudWeGo Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package region

import "unsafe"

// NullAddr is the sentinel "no address" value returned by a failed
// allocation or resize. 0 is a legitimate offset (the first byte of the
// backing buffer), so it cannot double as null the way a C NULL pointer
// does; NullAddr fills that role instead.
const NullAddr = -1

// Arena is a bump allocator: every successful AllocAligned simply
// advances a cursor. Individual allocations cannot be freed; the whole
// arena is released at once with Reset. The most recent allocation gets
// a narrow fast-path resize (grow or shrink in place).
//
// Arena does not own memory; it never grows, never shrinks, and never
// calls back into a system allocator. The caller owns buf for the
// lifetime of the Arena.
type Arena struct {
	memory []byte
	base   unsafe.Pointer // &memory[0], nil if memory is empty
	offset int
	// prevOffset is the offset recorded at the start of the most recent
	// successful allocation. 0 <= prevOffset <= offset.
	prevOffset int
}

// NewArena creates an Arena over buf. buf is not copied; the Arena reads
// and writes it directly for as long as the Arena is used.
func NewArena(buf []byte) *Arena {
	return &Arena{memory: buf, base: arenaBase(buf)}
}

// Cap returns the capacity of the backing buffer.
func (a *Arena) Cap() int { return len(a.memory) }

// Bytes returns the usable view of a live allocation at addr with the
// given size. It does not validate that addr/size describe a live
// allocation; callers that lost track of their own bookkeeping get
// undefined results, same as dereferencing a stale pointer would.
func (a *Arena) Bytes(addr, size int) []byte {
	return a.memory[addr : addr+size]
}

// AllocAligned allocates bytes bytes starting at the next address that is
// a multiple of align, returning the offset of the new allocation or (NullAddr, false) if it doesn't fit. The
// returned region is zeroed. bytes == 0 always fails.
func (a *Arena) AllocAligned(bytes int, align uintptr) (int, bool) {
	if bytes <= 0 {
		return NullAddr, false
	}
	if !isPowerOfTwo(align) {
		panic("region: align must be a power of two")
	}

	alignedAddr := forwardAlign(uintptr(unsafe.Add(a.base, a.offset)), align)
	alignedOffset := int(alignedAddr - uintptr(a.base))
	next := alignedOffset + bytes
	if next > len(a.memory) {
		return NullAddr, false
	}

	a.prevOffset = a.offset
	a.offset = next
	zero(a.memory[alignedOffset:next])
	return alignedOffset, true
}

// ResizeAligned resizes the allocation at oldAddr (of oldSize bytes,
// originally made with the given align) to newSize bytes. align must be
// the alignment the allocation was originally made with; Arena never
// changes the alignment of an existing allocation.
//
// If oldAddr is the most recent allocation, the offset is adjusted in
// place and the same address is returned, even when shrinking. This path
// does not re-check capacity when growing: callers must not grow past
// capacity this way, exactly as the original design leaves it (see the
// "Open questions" entry in DESIGN.md).
//
// Otherwise a fresh allocation is bump-allocated, the old contents are
// copied over (truncated or zero-extended to newSize), and the new
// address is returned; oldAddr remains valid only as long as the caller
// doesn't rely on it being the "current" allocation anymore.
func (a *Arena) ResizeAligned(oldAddr, oldSize, newSize int, align uintptr) (int, bool) {
	if !isPowerOfTwo(align) {
		panic("region: align must be a power of two")
	}
	if oldAddr == NullAddr || oldSize == 0 {
		return NullAddr, false
	}
	if oldAddr < 0 || oldAddr > len(a.memory) {
		return NullAddr, false
	}

	// the most recent allocation starts at prevOffset rounded up to align.
	top := int(forwardAlign(uintptr(unsafe.Add(a.base, a.prevOffset)), align) - uintptr(a.base))
	if oldAddr == top {
		a.offset = oldAddr + newSize
		if newSize > oldSize {
			zero(a.memory[oldAddr+oldSize : oldAddr+newSize])
		}
		return oldAddr, true
	}

	newAddr, ok := a.AllocAligned(newSize, align)
	if !ok {
		return NullAddr, false
	}
	n := oldSize
	if newSize < n {
		n = newSize
	}
	copy(a.memory[newAddr:newAddr+n], a.memory[oldAddr:oldAddr+n])
	return newAddr, true
}

// Reset makes the whole arena available again. It does not clear
// prevOffset: the next successful allocation always overwrites it before
// any resize could observe the stale value, so leaving it is benign.
func (a *Arena) Reset() {
	a.offset = 0
}

// arenaBase returns a cached pointer to the start of buf, used for
// alignment math against the real (absolute) address the way the
// original C allocators do, rather than against a relative offset.
// Returns nil for an empty buffer.
func arenaBase(buf []byte) unsafe.Pointer {
	if len(buf) == 0 {
		return nil
	}
	return unsafe.Pointer(&buf[0])
}

func zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
