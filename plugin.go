// SPDX-License-Identifier: EPL-2.0

package audpull

import (
	"log"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/ik5/audpull/audio"
	"github.com/ik5/audpull/formats/aiff"
	"github.com/ik5/audpull/formats/dsf"
	"github.com/ik5/audpull/formats/flac"
	"github.com/ik5/audpull/formats/mp3"
	"github.com/ik5/audpull/formats/vorbis"
	"github.com/ik5/audpull/formats/wav"
	"github.com/ik5/audpull/session"
)

// DefaultRegistry returns a registry with every bundled backend registered.
func DefaultRegistry() *audio.Registry {
	reg := audio.NewRegistry()

	wav.Register(reg)
	aiff.Register(reg)
	mp3.Register(reg)
	vorbis.Register(reg)
	flac.Register(reg)
	dsf.Register(reg)

	return reg
}

// Plugin is the host-facing entry point. It holds the process-wide
// configuration snapshot and opens sessions with it.
//
// A Plugin is safe for concurrent use. Sessions are not: each one belongs
// to a single playback thread.
type Plugin struct {
	settings session.Settings
	reg      *audio.Registry
	logger   session.Logger

	mtx *sync.RWMutex
	cfg session.Config
}

// NewPlugin creates a plugin reading its configuration from settings.
//
// Parameters:
//   - settings: host key/value configuration, read now and on every
//     ConfigChanged. nil means defaults.
//   - reg: the backends to use. nil selects DefaultRegistry().
//
// Example:
//
//	p := audpull.NewPlugin(session.MapSettings{"ffmpeg.enable_dsd": "2"}, nil)
//	s, err := p.Open("/music/track.dsf", nil, nil)
//	if err != nil {
//	    return err
//	}
//	defer s.Close()
func NewPlugin(settings session.Settings, reg *audio.Registry) *Plugin {
	if reg == nil {
		reg = DefaultRegistry()
	}

	p := &Plugin{
		settings: settings,
		reg:      reg,
		logger:   log.Default(),
		mtx:      &sync.RWMutex{},
	}
	p.cfg = session.ConfigFromSettings(settings, p.logger)

	return p
}

// SetLogger replaces the logger handed to sessions and used for
// configuration warnings.
func (p *Plugin) SetLogger(l session.Logger) {
	p.mtx.Lock()
	defer p.mtx.Unlock()

	p.logger = l
}

// ConfigChanged re-reads the settings. Open sessions keep their snapshot
// until the host passes them Config() through Session.ConfigChanged.
func (p *Plugin) ConfigChanged() {
	p.mtx.RLock()
	logger := p.logger
	p.mtx.RUnlock()

	cfg := session.ConfigFromSettings(p.settings, logger)

	p.mtx.Lock()
	p.cfg = cfg
	p.mtx.Unlock()
}

// Config returns the current configuration snapshot.
func (p *Plugin) Config() session.Config {
	p.mtx.RLock()
	defer p.mtx.RUnlock()

	return p.cfg
}

// Registry returns the backends the plugin opens files with.
func (p *Plugin) Registry() *audio.Registry { return p.reg }

// Extensions lists the handled extensions: the configured ones a backend is
// registered for, followed by the remaining registered ones, without
// duplicates.
func (p *Plugin) Extensions() []string {
	var exts []string
	for _, e := range p.Config().Extensions {
		if _, ok := p.reg.Format(e); ok && !slices.Contains(exts, e) {
			exts = append(exts, e)
		}
	}
	for _, e := range p.reg.Extensions() {
		if !slices.Contains(exts, e) {
			exts = append(exts, e)
		}
	}
	return exts
}

// Handles reports whether path has an extension Open can serve. Configured
// extensions without a registered backend are not claimed.
func (p *Plugin) Handles(path string) bool {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	if ext == "" {
		return false
	}
	_, ok := p.reg.Format(ext)
	return ok
}

// Open starts a decode session for a local path or file:// URI with the
// current configuration. rng restricts playback to a window; sink may be
// nil.
func (p *Plugin) Open(uri string, rng *session.Range, sink session.MetadataSink) (*session.Session, error) {
	p.mtx.RLock()
	cfg, logger := p.cfg, p.logger
	p.mtx.RUnlock()

	return session.Open(p.reg, uri, rng,
		session.WithConfig(cfg),
		session.WithMetadataSink(sink),
		session.WithLogger(logger),
	)
}

// Probe reads the track properties of uri for a library scan.
func (p *Plugin) Probe(uri string) (session.Info, error) {
	return session.Probe(p.reg, uri)
}
