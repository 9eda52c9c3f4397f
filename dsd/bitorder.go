// SPDX-License-Identifier: EPL-2.0

package dsd

import "math/bits"

// BitOrderTable maps every byte to its bit-reversed value.
var BitOrderTable = func() [256]byte {
	var t [256]byte
	for i := range t {
		t[i] = bits.Reverse8(uint8(i))
	}
	return t
}()

// Reverse bit-reverses every byte of buf in place.
func Reverse(buf []byte) {
	for i, b := range buf {
		buf[i] = BitOrderTable[b]
	}
}
