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

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
)

func TestWriteReadTag(t *testing.T) {
	buf := make([]byte, 16)
	base := unsafe.Pointer(&buf[0])

	writeTag(base, 4, stackTag)
	assert.Equal(t, stackTag, readTag(base, 4))
}

func TestCheckTagPanicsOnMismatch(t *testing.T) {
	buf := make([]byte, 16)
	base := unsafe.Pointer(&buf[0])
	writeTag(base, 0, poolTag)

	assert.NotPanics(t, func() {
		checkTag(base, 0, poolTag, "unexpected")
	})
	assert.PanicsWithValue(t, "boom", func() {
		checkTag(base, 0, stackTag, "boom")
	})
}
