package audio

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/mewkiz/flac"

	"github.com/speakeasy-labs/fluency-service/internal/domain"
)

// TargetRate is the sample rate every clip is converted to before analysis.
const TargetRate = 16000

// Clip is mono PCM audio with samples normalized to [-1, 1].
type Clip struct {
	Samples []float64
	Rate    int
}

// DurationSec returns the clip length in seconds.
func (c Clip) DurationSec() float64 {
	if c.Rate == 0 {
		return 0
	}
	return float64(len(c.Samples)) / float64(c.Rate)
}

// Decode parses raw audio bytes in the named format into a mono 16 kHz
// clip. Formats other than wav and flac must be converted by the caller
// before decoding.
func Decode(data []byte, format string) (Clip, error) {
	if len(data) == 0 {
		return Clip{}, domain.ErrEmptyAudio
	}
	var (
		clip Clip
		err  error
	)
	switch strings.ToLower(format) {
	case "wav", "wave":
		clip, err = decodeWAV(data)
	case "flac":
		clip, err = decodeFLAC(data)
	default:
		return Clip{}, fmt.Errorf("%w: %s", domain.ErrUnsupportedFormat, format)
	}
	if err != nil {
		return Clip{}, err
	}
	return Resample(clip, TargetRate), nil
}

// SniffFormat guesses the container format from the payload header,
// falling back to the provided hint.
func SniffFormat(data []byte, hint string) string {
	if len(data) >= 12 && bytes.Equal(data[0:4], []byte("RIFF")) && bytes.Equal(data[8:12], []byte("WAVE")) {
		return "wav"
	}
	if len(data) >= 4 && bytes.Equal(data[0:4], []byte("fLaC")) {
		return "flac"
	}
	return strings.ToLower(strings.TrimPrefix(hint, "."))
}

func decodeWAV(data []byte) (Clip, error) {
	r := bytes.NewReader(data)

	var riff [12]byte
	if _, err := io.ReadFull(r, riff[:]); err != nil {
		return Clip{}, fmt.Errorf("wav: read header: %w", err)
	}
	if !bytes.Equal(riff[0:4], []byte("RIFF")) || !bytes.Equal(riff[8:12], []byte("WAVE")) {
		return Clip{}, fmt.Errorf("wav: %w: not a RIFF/WAVE file", domain.ErrUnsupportedFormat)
	}

	var (
		audioFormat   uint16
		channels      uint16
		sampleRate    uint32
		bitsPerSample uint16
		pcm           []byte
		haveFmt       bool
	)
	for {
		var chunk [8]byte
		if _, err := io.ReadFull(r, chunk[:]); err != nil {
			if err == io.EOF || err == io.ErrUnexpectedEOF {
				break
			}
			return Clip{}, fmt.Errorf("wav: read chunk header: %w", err)
		}
		size := binary.LittleEndian.Uint32(chunk[4:8])
		body := make([]byte, size)
		if _, err := io.ReadFull(r, body); err != nil {
			return Clip{}, fmt.Errorf("wav: read chunk body: %w", err)
		}
		switch string(chunk[0:4]) {
		case "fmt ":
			if size < 16 {
				return Clip{}, fmt.Errorf("wav: fmt chunk too short")
			}
			audioFormat = binary.LittleEndian.Uint16(body[0:2])
			channels = binary.LittleEndian.Uint16(body[2:4])
			sampleRate = binary.LittleEndian.Uint32(body[4:8])
			bitsPerSample = binary.LittleEndian.Uint16(body[14:16])
			haveFmt = true
		case "data":
			pcm = body
		}
		// Chunks are word-aligned.
		if size%2 == 1 {
			if _, err := r.Seek(1, io.SeekCurrent); err != nil {
				break
			}
		}
	}
	if !haveFmt || pcm == nil {
		return Clip{}, fmt.Errorf("wav: missing fmt or data chunk")
	}
	if channels == 0 || sampleRate == 0 {
		return Clip{}, fmt.Errorf("wav: invalid fmt chunk")
	}

	var samples []float64
	switch {
	case audioFormat == 1 && bitsPerSample == 16:
		n := len(pcm) / 2
		samples = make([]float64, n)
		for i := 0; i < n; i++ {
			s := int16(binary.LittleEndian.Uint16(pcm[2*i:]))
			samples[i] = float64(s) / 32768.0
		}
	case audioFormat == 1 && bitsPerSample == 8:
		samples = make([]float64, len(pcm))
		for i, b := range pcm {
			samples[i] = (float64(b) - 128.0) / 128.0
		}
	case audioFormat == 1 && bitsPerSample == 32:
		n := len(pcm) / 4
		samples = make([]float64, n)
		for i := 0; i < n; i++ {
			s := int32(binary.LittleEndian.Uint32(pcm[4*i:]))
			samples[i] = float64(s) / 2147483648.0
		}
	case audioFormat == 3 && bitsPerSample == 32:
		n := len(pcm) / 4
		samples = make([]float64, n)
		for i := 0; i < n; i++ {
			samples[i] = float64(math.Float32frombits(binary.LittleEndian.Uint32(pcm[4*i:])))
		}
	default:
		return Clip{}, fmt.Errorf("wav: %w: format=%d bits=%d", domain.ErrUnsupportedFormat, audioFormat, bitsPerSample)
	}

	return Downmix(samples, int(channels), int(sampleRate)), nil
}

func decodeFLAC(data []byte) (Clip, error) {
	stream, err := flac.Parse(bytes.NewReader(data))
	if err != nil {
		return Clip{}, fmt.Errorf("flac: parse: %w", err)
	}
	defer stream.Close()

	info := stream.Info
	scale := float64(int64(1) << (info.BitsPerSample - 1))
	channels := int(info.NChannels)

	var interleaved []float64
	for {
		fr, err := stream.ParseNext()
		if err == io.EOF {
			break
		}
		if err != nil {
			return Clip{}, fmt.Errorf("flac: decode frame: %w", err)
		}
		n := len(fr.Subframes[0].Samples)
		for i := 0; i < n; i++ {
			for ch := 0; ch < channels; ch++ {
				interleaved = append(interleaved, float64(fr.Subframes[ch].Samples[i])/scale)
			}
		}
	}

	return Downmix(interleaved, channels, int(info.SampleRate)), nil
}

// Downmix averages interleaved multichannel samples into a mono clip.
func Downmix(interleaved []float64, channels, rate int) Clip {
	if channels <= 1 {
		return Clip{Samples: interleaved, Rate: rate}
	}
	n := len(interleaved) / channels
	mono := make([]float64, n)
	for i := 0; i < n; i++ {
		var sum float64
		for ch := 0; ch < channels; ch++ {
			sum += interleaved[i*channels+ch]
		}
		mono[i] = sum / float64(channels)
	}
	return Clip{Samples: mono, Rate: rate}
}

// Resample converts a clip to the given rate by linear interpolation.
func Resample(c Clip, rate int) Clip {
	if c.Rate == rate || c.Rate == 0 || len(c.Samples) == 0 {
		c.Rate = rate
		return c
	}
	ratio := float64(c.Rate) / float64(rate)
	n := int(float64(len(c.Samples)) / ratio)
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		pos := float64(i) * ratio
		j := int(pos)
		if j >= len(c.Samples)-1 {
			out[i] = c.Samples[len(c.Samples)-1]
			continue
		}
		frac := pos - float64(j)
		out[i] = c.Samples[j]*(1-frac) + c.Samples[j+1]*frac
	}
	return Clip{Samples: out, Rate: rate}
}
