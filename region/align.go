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

// Package region implements region-style memory allocators that carve
// allocations out of a single caller-owned, fixed-size []byte buffer:
// Arena (bump allocator), Stack (LIFO allocator) and Pool (fixed-size
// block allocator). None of them grows the backing buffer, none of them
// is safe for concurrent use, and none of them ever calls back into a
// system allocator; the buffer is supplied and owned by the caller for
// the allocator's whole lifetime.
package region

// isPowerOfTwo reports whether x is a power of two. It returns false
// for x == 0.
func isPowerOfTwo(x uintptr) bool {
	return x > 0 && x&(x-1) == 0
}

// forwardAlign returns the smallest integer >= base that is a multiple
// of align. align must be a power of two.
func forwardAlign(base, align uintptr) uintptr {
	mod := base & (align - 1)
	if mod == 0 {
		return base
	}
	return base + (align - mod)
}

// calcPaddingWithHeader returns the smallest padding p >= 0 such that
// base+p is aligned to align AND the last headerSize bytes of [base, base+p)
// are usable to hold a header, i.e. p >= headerSize.
//
// It starts from the natural alignment padding and, if that isn't enough
// to fit the header, extends by whole multiples of align until it is.
func calcPaddingWithHeader(base, align, headerSize uintptr) uintptr {
	padding := forwardAlign(base, align) - base
	if padding < headerSize {
		needed := headerSize - padding
		// round up to whole multiples of align
		padding += ((needed + align - 1) / align) * align
	}
	return padding
}
