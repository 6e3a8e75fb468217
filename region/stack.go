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

// stackHeaderSize is the header placed immediately before every live
// Stack allocation, inside its alignment padding:
//
//	[0:4]   tag         guard magic, see guard.go
//	[4:8]   padding     bytes of padding this allocation consumed, header included
//	[8:12]  prevOffset  the allocator's offset just before this allocation began
//	[12:16] prevHeader  offset of the previous live header, or -1
//	[16:20] nextHeader  offset of the next live header, or -1
const stackHeaderSize = 20

// maxStackAlign is the largest alignment the padding field (a uint32)
// can record: 2^(8*sizeof(padding)-1). Later revisions of this header
// widened padding from a byte to a word; this implementation follows the
// wider layout, so the ceiling is 2^31 rather than the byte-field era's 128.
const maxStackAlign = uintptr(1) << 31

// Stack is a LIFO allocator: allocations may only be freed in the exact
// reverse order they were made. Each live allocation carries a header
// packed into its own alignment padding, doubly linked to its neighbors
// in allocation order, so that a resize of a non-top ("middle") block can
// splice itself out of the chain without disturbing the rest.
type Stack struct {
	memory     []byte
	base       unsafe.Pointer
	offset     int
	prevOffset int
	// prevHeader is the offset of the top (most recent live) header, or
	// NullAddr if the stack is empty.
	prevHeader int
}

// NewStack creates a Stack over buf. buf is not copied.
func NewStack(buf []byte) *Stack {
	return &Stack{memory: buf, base: arenaBase(buf), prevHeader: NullAddr}
}

// Cap returns the capacity of the backing buffer.
func (s *Stack) Cap() int { return len(s.memory) }

// Bytes returns the usable view of a live allocation at addr with the
// given size.
func (s *Stack) Bytes(addr, size int) []byte {
	return s.memory[addr : addr+size]
}

// AllocAligned allocates size bytes aligned to align, returning the
// offset of the new allocation or (NullAddr, false) if it doesn't fit.
// align is clamped to maxStackAlign. The returned region is zeroed.
func (s *Stack) AllocAligned(size int, align uintptr) (int, bool) {
	if size <= 0 {
		return NullAddr, false
	}
	if !isPowerOfTwo(align) {
		panic("region: align must be a power of two")
	}
	if align > maxStackAlign {
		align = maxStackAlign
	}

	curAddr := uintptr(unsafe.Add(s.base, s.offset))
	padding := int(calcPaddingWithHeader(curAddr, align, stackHeaderSize))
	if s.offset+padding+size > len(s.memory) {
		return NullAddr, false
	}

	prevOffset := s.offset
	newOffset := s.offset + padding
	hdr := newOffset - stackHeaderSize

	writeTag(s.base, hdr, stackTag)
	s.setHdrPadding(hdr, uint32(padding))
	s.setHdrPrevOffset(hdr, uint32(prevOffset))
	s.setHdrPrevHeader(hdr, int32(s.prevHeader))
	s.setHdrNextHeader(hdr, -1)
	if s.prevHeader != NullAddr {
		s.setHdrNextHeader(s.prevHeader, int32(hdr))
	}
	s.prevHeader = hdr
	s.prevOffset = prevOffset

	addr := newOffset
	s.offset = newOffset + size
	zero(s.memory[addr:s.offset])
	return addr, true
}

// Free releases the allocation at addr. It only succeeds if addr is the
// top (most recently made, still-live) allocation; freeing out of order
// returns false and leaves the Stack untouched.
func (s *Stack) Free(addr int) bool {
	if addr == NullAddr || addr < 0 || addr >= s.offset {
		return false
	}
	hdr := addr - stackHeaderSize
	if hdr < 0 {
		return false
	}
	checkTag(s.base, hdr, stackTag, "region: stack free of foreign or corrupted address")

	if hdr != s.prevHeader && s.hdrPrevHeader(hdr) == NullAddr && s.hdrNextHeader(hdr) == NullAddr {
		// already retired by an earlier non-top resize.
		return false
	}
	if s.hdrPrevOffset(hdr) != uint32(s.prevOffset) {
		// not the top of the stack: caller is trying a non-LIFO free.
		return false
	}

	s.offset = s.prevOffset
	if prev := s.hdrPrevHeader(hdr); prev != NullAddr {
		s.prevOffset = int(s.hdrPrevOffset(prev))
		s.prevHeader = prev
	} else {
		s.prevOffset = 0
		s.prevHeader = NullAddr
	}
	return true
}

// ResizeAligned resizes the allocation at oldAddr to newSize bytes.
//
// Resizing the top allocation adjusts the offset in place and returns the
// same address. Resizing any other ("middle") allocation copies its data
// to a fresh top allocation and retires the old header: the old address
// must never be used again, and a second ResizeAligned/Free of it returns
// null/false rather than corrupting anything.
func (s *Stack) ResizeAligned(oldAddr, oldSize, newSize int, align uintptr) (int, bool) {
	if oldAddr == NullAddr {
		return s.AllocAligned(newSize, align)
	}
	if newSize == 0 {
		s.Free(oldAddr)
		return NullAddr, false
	}
	if oldAddr < 0 || oldAddr >= s.offset {
		return NullAddr, false
	}
	hdr := oldAddr - stackHeaderSize
	if hdr < 0 {
		return NullAddr, false
	}
	checkTag(s.base, hdr, stackTag, "region: stack resize of foreign or corrupted address")

	if hdr == s.prevHeader {
		s.offset = oldAddr + newSize
		if newSize > oldSize {
			zero(s.memory[oldAddr+oldSize : s.offset])
		}
		return oldAddr, true
	}

	prevHdr := s.hdrPrevHeader(hdr)
	nextHdr := s.hdrNextHeader(hdr)
	if prevHdr == NullAddr && nextHdr == NullAddr {
		// already retired by an earlier non-top resize.
		return NullAddr, false
	}

	newAddr, ok := s.AllocAligned(newSize, align)
	if !ok {
		return NullAddr, false
	}
	n := oldSize
	if newSize < n {
		n = newSize
	}
	copy(s.memory[newAddr:newAddr+n], s.memory[oldAddr:oldAddr+n])

	// splice hdr out of the live list, folding its padding into nextHdr's
	// so a later free of nextHdr's allocation still walks offset back
	// past this retired block.
	padding := s.hdrPadding(hdr)
	s.setHdrPadding(nextHdr, s.hdrPadding(nextHdr)+padding)
	s.setHdrPrevOffset(nextHdr, s.hdrPrevOffset(hdr))
	s.setHdrPrevHeader(nextHdr, int32(prevHdr))
	if prevHdr != NullAddr {
		s.setHdrNextHeader(prevHdr, int32(nextHdr))
	}
	s.setHdrPrevHeader(hdr, NullAddr)
	s.setHdrNextHeader(hdr, NullAddr)

	return newAddr, true
}

// Reset makes the whole stack available again.
func (s *Stack) Reset() {
	s.offset = 0
	s.prevOffset = 0
	s.prevHeader = NullAddr
}

func (s *Stack) hdrPadding(h int) uint32    { return *(*uint32)(unsafe.Add(s.base, h+4)) }
func (s *Stack) hdrPrevOffset(h int) uint32 { return *(*uint32)(unsafe.Add(s.base, h+8)) }
func (s *Stack) hdrPrevHeader(h int) int    { return int(*(*int32)(unsafe.Add(s.base, h+12))) }
func (s *Stack) hdrNextHeader(h int) int    { return int(*(*int32)(unsafe.Add(s.base, h+16))) }

func (s *Stack) setHdrPadding(h int, v uint32)    { *(*uint32)(unsafe.Add(s.base, h+4)) = v }
func (s *Stack) setHdrPrevOffset(h int, v uint32) { *(*uint32)(unsafe.Add(s.base, h+8)) = v }
func (s *Stack) setHdrPrevHeader(h int, v int32)  { *(*int32)(unsafe.Add(s.base, h+12)) = v }
func (s *Stack) setHdrNextHeader(h int, v int32)  { *(*int32)(unsafe.Add(s.base, h+16)) = v }
