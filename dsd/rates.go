// SPDX-License-Identifier: EPL-2.0

package dsd

// DSD bit rates per channel. Rate64Alt and Rate512Alt are the values some
// demuxers advertise; they resolve to the same rungs.
const (
	Rate64     = 2822400
	Rate64Alt  = 2882400
	Rate128    = 5644800
	Rate256    = 11289600
	Rate512    = 22579200
	Rate512Alt = 22279200
)

const (
	DirectBaseRate = 88200
	DoPBaseRate    = 176400
	// DoPBitsPerSample is the container width of a DoP frame.
	DoPBitsPerSample = 32
)

var rungs = map[int]int{
	Rate64:     1,
	Rate64Alt:  1,
	Rate128:    2,
	Rate256:    3,
	Rate512:    4,
	Rate512Alt: 4,
}

func lookup(bitRate, base int) (int, bool) {
	if r, ok := rungs[bitRate]; ok {
		return base * r, true
	}
	return base, false
}

// DirectRate maps a DSD bit rate onto the Direct output rate ladder.
// Unknown rates return DirectBaseRate and false.
func DirectRate(bitRate int) (int, bool) { return lookup(bitRate, DirectBaseRate) }

// DoPRate maps a DSD bit rate onto the DoP output rate ladder.
// Unknown rates return DoPBaseRate and false.
func DoPRate(bitRate int) (int, bool) { return lookup(bitRate, DoPBaseRate) }
