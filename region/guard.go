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

// A guard tag is a uint32 magic pattern written next to a live
// allocation so Free/resize can reject a foreign or corrupted address
// (and, in a guarded Pool, an already-freed chunk) with a clear panic
// instead of silently corrupting a free list or header chain. A Stack
// block retired by a non-top resize keeps its tag; it is recognised by
// its cleared header links instead. The idea, and the 4-byte size, is lifted
// directly from the magic+size header malloc.BuddyAllocator and
// malloc.BitmapAllocator write next to every block they hand out.
const tagSize = 4

// stackTag marks a live Stack allocation header.
const stackTag uint32 = 0xBADF00D

// poolTag marks a live Pool chunk when the Pool was built WithGuard.
const poolTag uint32 = 0xB17BA900

// writeTag stores tag at the given offset.
func writeTag(base unsafe.Pointer, offset int, tag uint32) {
	*(*uint32)(unsafe.Add(base, offset)) = tag
}

// readTag loads the uint32 at the given offset in memory.
func readTag(base unsafe.Pointer, offset int) uint32 {
	return *(*uint32)(unsafe.Add(base, offset))
}

// checkTag panics with msg if the tag at offset doesn't match want.
func checkTag(base unsafe.Pointer, offset int, want uint32, msg string) {
	if readTag(base, offset) != want {
		panic(msg)
	}
}
