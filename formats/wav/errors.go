// SPDX-License-Identifier: EPL-2.0

package wav

import "errors"

var (
	ErrNotWavFile           = errors.New("not a WAV file")
	ErrUnsupportedWavLayout = errors.New("unsupported WAV layout")
	ErrUnsupportedBitDepth  = errors.New("unsupported PCM bit depth")
	ErrNoPCMData            = errors.New("no PCM data chunk")
)
