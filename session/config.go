// SPDX-License-Identifier: EPL-2.0

package session

import (
	"strconv"
	"strings"
)

// DSDMode selects how DSD streams are delivered.
type DSDMode int

const (
	// DSDModePCM decodes DSD to PCM through the codec.
	DSDModePCM DSDMode = iota
	// DSDModeDirect passes raw DSD, sample-interleaved.
	DSDModeDirect
	// DSDModeDoP wraps raw DSD in DSD-over-PCM frames.
	DSDModeDoP
)

func (m DSDMode) String() string {
	switch m {
	case DSDModePCM:
		return "PCM"
	case DSDModeDirect:
		return "Direct"
	case DSDModeDoP:
		return "DoP"
	default:
		return "DSDMode(" + strconv.Itoa(int(m)) + ")"
	}
}

// Endian is the bit significance order requested for Direct DSD output.
type Endian int

const (
	LittleEndian Endian = iota
	BigEndian
)

// Settings keys read by ConfigFromSettings.
const (
	KeyEnableDSD  = "ffmpeg.enable_dsd"
	KeyDSDFormat  = "alsa.dsdformat"
	KeyExtensions = "ffmpeg.extensions"
)

// DefaultExtensions is the extension list used when none is configured.
const DefaultExtensions = "aa3;oma;ac3;vqf;amr;tak;dsf;dff;wma;3gp;mp4;m4a"

// Config is an immutable snapshot of the decoder configuration.
type Config struct {
	DSDMode DSDMode
	// DSDBits is the Direct output width, 16 or 32.
	DSDBits   int
	DSDEndian Endian
	// Extensions the host asks to claim. Only those with a registered
	// backend are claimed.
	Extensions []string
}

// DefaultConfig returns PCM output with 32-bit big endian Direct settings.
func DefaultConfig() Config {
	return Config{
		DSDMode:    DSDModePCM,
		DSDBits:    32,
		DSDEndian:  BigEndian,
		Extensions: ParseExtensions(DefaultExtensions, ';'),
	}
}

// Settings is a read-only view of host configuration.
type Settings interface {
	Int(key string, def int) int
	String(key, def string) string
}

// MapSettings serves Settings from a plain map.
type MapSettings map[string]string

func (m MapSettings) Int(key string, def int) int {
	v, ok := m[key]
	if !ok {
		return def
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return def
	}
	return n
}

func (m MapSettings) String(key, def string) string {
	if v, ok := m[key]; ok {
		return v
	}
	return def
}

// ConfigFromSettings builds a Config snapshot. Unknown values fall back to
// the defaults and are reported through logger, which may be nil.
func ConfigFromSettings(s Settings, logger Logger) Config {
	cfg := DefaultConfig()
	if s == nil {
		return cfg
	}

	cfg.Extensions = ParseExtensions(s.String(KeyExtensions, DefaultExtensions), ';')

	switch mode := DSDMode(s.Int(KeyEnableDSD, 0)); mode {
	case DSDModePCM, DSDModeDirect, DSDModeDoP:
		cfg.DSDMode = mode
	default:
		logf(logger, "session: unknown DSD output method %d, using PCM", int(mode))
	}

	// 0: 32/big, 1: 32/little, 2: 16/big, 3: 16/little.
	switch f := s.Int(KeyDSDFormat, 0); f {
	case 0:
		cfg.DSDBits, cfg.DSDEndian = 32, BigEndian
	case 1:
		cfg.DSDBits, cfg.DSDEndian = 32, LittleEndian
	case 2:
		cfg.DSDBits, cfg.DSDEndian = 16, BigEndian
	case 3:
		cfg.DSDBits, cfg.DSDEndian = 16, LittleEndian
	default:
		logf(logger, "session: unknown DSD output format %d selected", f)
	}

	return cfg
}

// ParseExtensions splits a delimited extension list, dropping blanks,
// leading dots and duplicates. Order is preserved.
func ParseExtensions(list string, delim rune) []string {
	var exts []string
	seen := make(map[string]bool)

	for _, e := range strings.Split(list, string(delim)) {
		e = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(e), "."))
		if e == "" || seen[e] {
			continue
		}
		seen[e] = true
		exts = append(exts, e)
	}

	return exts
}
