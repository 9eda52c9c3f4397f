// SPDX-License-Identifier: EPL-2.0

package session

// Logger receives decode anomalies. *log.Logger satisfies it.
type Logger interface {
	Printf(format string, v ...any)
}

// MetadataSink receives side-channel information about the open stream.
type MetadataSink interface {
	// SetFileType reports the canonical codec name.
	SetFileType(name string)
	// SetBitrate reports the instantaneous bitrate in kbit/s.
	SetBitrate(kbps int)
}

type nopSink struct{}

func (nopSink) SetFileType(string) {}
func (nopSink) SetBitrate(int)     {}

func logf(l Logger, format string, v ...any) {
	if l != nil {
		l.Printf(format, v...)
	}
}
