package sound

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/audio/mp3"
	"github.com/hajimehoshi/ebiten/v2/audio/vorbis"
	"github.com/hajimehoshi/ebiten/v2/audio/wav"
)

const SampleRate = 44100

var ErrUnsupported = errors.New("unsupported audio format")

// Source supplies raw sound file contents by path.
type Source interface {
	Bytes(path string) ([]byte, error)
}

// Player plays short sounds decoded once and kept as PCM.
type Player struct {
	ctx    *audio.Context
	src    Source
	logger *log.Logger

	pcm     map[string][]byte
	playing map[string][]*audio.Player
}

// context returns the process-wide audio context, creating it on first use.
func context() *audio.Context {
	if c := audio.CurrentContext(); c != nil {
		return c
	}
	return audio.NewContext(SampleRate)
}

// NewPlayer creates a player reading files from src. The audio context is
// created lazily on the first Play.
func NewPlayer(src Source, logger *log.Logger) *Player {
	return &Player{
		src:     src,
		logger:  logger,
		pcm:     make(map[string][]byte),
		playing: make(map[string][]*audio.Player),
	}
}

// Play starts path. loops is the number of extra repeats; -1 repeats
// forever. volume is clamped to [0, 1].
func (p *Player) Play(path string, loops int, volume float64) error {
	if p == nil {
		return nil
	}
	pcm, err := p.load(path)
	if err != nil {
		return err
	}
	if p.ctx == nil {
		p.ctx = context()
	}

	var ap *audio.Player
	switch {
	case loops < 0:
		ap, err = p.ctx.NewPlayer(audio.NewInfiniteLoop(bytes.NewReader(pcm), int64(len(pcm))))
		if err != nil {
			return fmt.Errorf("sound: play %s: %w", path, err)
		}
	default:
		ap = p.ctx.NewPlayerFromBytes(repeatPCM(pcm, loops))
	}
	ap.SetVolume(clampVolume(volume))
	ap.Play()
	p.playing[path] = append(p.playing[path], ap)
	if p.logger != nil {
		p.logger.Debug("sound: play", "path", path, "loops", loops, "volume", volume)
	}
	return nil
}

func (p *Player) load(path string) ([]byte, error) {
	if pcm, ok := p.pcm[path]; ok {
		return pcm, nil
	}
	if p.src == nil {
		return nil, fmt.Errorf("sound: load %s: no source", path)
	}
	data, err := p.src.Bytes(path)
	if err != nil {
		return nil, fmt.Errorf("sound: load %s: %w", path, err)
	}
	pcm, err := decodePCM(path, data, SampleRate)
	if err != nil {
		return nil, err
	}
	p.pcm[path] = pcm
	return pcm, nil
}

// Stop halts every instance of path.
func (p *Player) Stop(path string) {
	if p == nil {
		return
	}
	for _, ap := range p.playing[path] {
		ap.Pause()
		_ = ap.Close()
	}
	delete(p.playing, path)
}

// StopAll halts every sound.
func (p *Player) StopAll() {
	if p == nil {
		return
	}
	for path := range p.playing {
		p.Stop(path)
	}
}

// Playing reports whether any instance of path is still audible.
func (p *Player) Playing(path string) bool {
	if p == nil {
		return false
	}
	for _, ap := range p.playing[path] {
		if ap.IsPlaying() {
			return true
		}
	}
	return false
}

// Update releases players that have finished.
func (p *Player) Update() {
	if p == nil {
		return
	}
	for path, list := range p.playing {
		kept := list[:0]
		for _, ap := range list {
			if ap.IsPlaying() {
				kept = append(kept, ap)
				continue
			}
			_ = ap.Close()
		}
		if len(kept) == 0 {
			delete(p.playing, path)
		} else {
			p.playing[path] = kept
		}
	}
}

// decodePCM turns a wav, ogg or mp3 file into 16-bit stereo PCM at rate.
func decodePCM(path string, data []byte, rate int) ([]byte, error) {
	r := bytes.NewReader(data)
	var (
		stream io.Reader
		err    error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav":
		stream, err = wav.DecodeWithSampleRate(rate, r)
	case ".ogg":
		stream, err = vorbis.DecodeWithSampleRate(rate, r)
	case ".mp3":
		stream, err = mp3.DecodeWithSampleRate(rate, r)
	default:
		return nil, fmt.Errorf("sound: decode %s: %w", path, ErrUnsupported)
	}
	if err != nil {
		return nil, fmt.Errorf("sound: decode %s: %w", path, err)
	}
	pcm, err := io.ReadAll(stream)
	if err != nil {
		return nil, fmt.Errorf("sound: decode %s: %w", path, err)
	}
	return pcm, nil
}

func repeatPCM(pcm []byte, loops int) []byte {
	if loops <= 0 {
		return pcm
	}
	return bytes.Repeat(pcm, loops+1)
}

func clampVolume(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
