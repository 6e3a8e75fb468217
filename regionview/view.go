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

// Package regionview reinterprets the raw []byte an allocator in
// package region hands back as a typed value or slice, without copying.
// It exists because Arena, Stack and Pool all deal exclusively in byte
// offsets and sizes; regionview is the thin typed layer a caller builds
// on top once it knows what it's storing.
package regionview

import (
	"unsafe"

	"github.com/cloudwego/regionalloc/unsafex"
)

// As reinterprets the first unsafe.Sizeof(T) bytes of buf as *T, without
// copying. buf normally comes straight from an allocator's Bytes method.
//
// T must not contain pointers: buf is ordinary allocator memory, not
// something the garbage collector scans, so a pointer value stored inside
// it would be invisible to the GC and could be collected out from under
// it. This is the same restriction container/ring's Ring[V] places on its
// element type, for the same reason.
//
// As panics if buf is smaller than T.
func As[T any](buf []byte) *T {
	size := int(unsafe.Sizeof(*new(T)))
	if len(buf) < size {
		panic("regionview: buffer too small for type")
	}
	return (*T)(unsafe.Pointer(&buf[0]))
}

// Slice reinterprets buf as a []T of n elements, without copying. The
// same no-pointers restriction on T that applies to As applies here.
//
// Slice panics if buf is smaller than n elements, or if n is negative.
func Slice[T any](buf []byte, n int) []T {
	if n == 0 {
		return nil
	}
	size := int(unsafe.Sizeof(*new(T)))
	if n < 0 || len(buf) < size*n {
		panic("regionview: buffer too small for n elements")
	}
	return unsafe.Slice((*T)(unsafe.Pointer(&buf[0])), n)
}

// String views buf as a string without copying, the same way
// protocol/thrift's buffer readers turn a wire-format byte range straight
// into a string field. It exists for logging and debug dumps of live
// allocator regions; like As and Slice, the result is only valid for as
// long as the underlying allocation is.
func String(buf []byte) string {
	return unsafex.BinaryToString(buf)
}
