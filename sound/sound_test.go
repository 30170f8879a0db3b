package sound

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"
)

// monoWAV builds a 16-bit mono PCM wav with n samples at rate.
func monoWAV(n, rate int) []byte {
	var buf bytes.Buffer
	dataLen := n * 2
	buf.WriteString("RIFF")
	binary.Write(&buf, binary.LittleEndian, uint32(36+dataLen))
	buf.WriteString("WAVEfmt ")
	binary.Write(&buf, binary.LittleEndian, uint32(16))
	binary.Write(&buf, binary.LittleEndian, uint16(1))
	binary.Write(&buf, binary.LittleEndian, uint16(1))
	binary.Write(&buf, binary.LittleEndian, uint32(rate))
	binary.Write(&buf, binary.LittleEndian, uint32(rate*2))
	binary.Write(&buf, binary.LittleEndian, uint16(2))
	binary.Write(&buf, binary.LittleEndian, uint16(16))
	buf.WriteString("data")
	binary.Write(&buf, binary.LittleEndian, uint32(dataLen))
	for i := 0; i < n; i++ {
		binary.Write(&buf, binary.LittleEndian, int16(i*10))
	}
	return buf.Bytes()
}

func TestDecodePCM(t *testing.T) {
	pcm, err := decodePCM("beep.WAV", monoWAV(100, SampleRate), SampleRate)
	if err != nil {
		t.Fatalf("decodePCM: %v", err)
	}
	// mono 16-bit is widened to stereo 16-bit.
	if len(pcm) != 100*4 {
		t.Fatalf("pcm length = %d, want %d", len(pcm), 400)
	}

	if _, err := decodePCM("notes.txt", []byte("x"), SampleRate); !errors.Is(err, ErrUnsupported) {
		t.Fatalf("expected ErrUnsupported, got %v", err)
	}
	if _, err := decodePCM("bad.wav", []byte("nope"), SampleRate); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestRepeatPCM(t *testing.T) {
	pcm := []byte{1, 2, 3, 4}
	cases := []struct {
		loops int
		want  int
	}{
		{0, 4},
		{-3, 4},
		{2, 12},
	}
	for _, c := range cases {
		if got := len(repeatPCM(pcm, c.loops)); got != c.want {
			t.Fatalf("loops %d: len %d, want %d", c.loops, got, c.want)
		}
	}
}

func TestClampVolume(t *testing.T) {
	for in, want := range map[float64]float64{-1: 0, 0.25: 0.25, 3: 1} {
		if got := clampVolume(in); got != want {
			t.Fatalf("clampVolume(%f) = %f", in, got)
		}
	}
}

type mapSource map[string][]byte

func (m mapSource) Bytes(path string) ([]byte, error) {
	b, ok := m[path]
	if !ok {
		return nil, errors.New("missing")
	}
	return b, nil
}

func TestLoadCachesPCM(t *testing.T) {
	src := mapSource{"a.wav": monoWAV(10, SampleRate)}
	p := NewPlayer(src, nil)
	first, err := p.load("a.wav")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	delete(src, "a.wav")
	second, err := p.load("a.wav")
	if err != nil || &first[0] != &second[0] {
		t.Fatalf("second load should reuse decoded pcm: %v", err)
	}
	if _, err := p.load("b.wav"); err == nil {
		t.Fatalf("missing file should fail")
	}
}
