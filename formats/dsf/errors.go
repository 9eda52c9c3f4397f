// SPDX-License-Identifier: EPL-2.0

package dsf

import "errors"

var (
	ErrNotDSFFile           = errors.New("not a DSF file")
	ErrUnsupportedDSFFormat = errors.New("unsupported DSF format")
	ErrUnsupportedBitOrder  = errors.New("unsupported DSF bits per sample")
	ErrUnsupportedBlockSize = errors.New("unsupported DSF block size")
	ErrNoDSDData            = errors.New("no DSD data found")
)
