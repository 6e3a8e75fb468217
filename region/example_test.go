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

import "fmt"

func ExampleArena() {
	buf := make([]byte, 64)
	a := NewArena(buf)

	addr, _ := a.AllocAligned(16, 8)
	copy(a.Bytes(addr, 16), []byte("hello region lib"))
	fmt.Println(string(a.Bytes(addr, 16)))

	a.Reset()
	fmt.Println(a.Cap())

	// Output:
	// hello region lib
	// 64
}

func ExampleStack() {
	buf := make([]byte, 256)
	s := NewStack(buf)

	a, _ := s.AllocAligned(16, 8)
	b, _ := s.AllocAligned(16, 8)

	fmt.Println(s.Free(b))
	fmt.Println(s.Free(a))

	// Output:
	// true
	// true
}

func ExamplePool() {
	buf := make([]byte, 320)
	p, _ := NewPool(buf, 64, 64)

	addr, ok := p.Alloc()
	fmt.Println(ok, addr%64 == 0)
	fmt.Println(p.Free(addr))

	// Output:
	// true true
	// true
}
