package audio

import (
	"math"

	"go.uber.org/zap"
)

const (
	silenceFloorDB  = -40.0
	targetRMSDB     = -20.0
	trimFrameMS     = 10
	minSilenceRunMS = 100
)

// Preprocessor cleans a decoded clip before feature extraction: edge
// silence trim, RMS normalization and voice activity detection.
type Preprocessor struct {
	detector VoiceDetector
	log      *zap.Logger
}

func NewPreprocessor(detector VoiceDetector, log *zap.Logger) *Preprocessor {
	return &Preprocessor{detector: detector, log: log}
}

// Process returns the cleaned clip and its voiced segments.
func (p *Preprocessor) Process(clip Clip) (Clip, []Segment) {
	trimmed := TrimSilence(clip)
	normalized := NormalizeRMS(trimmed)

	segments := p.detector.DetectSegments(normalized)
	if len(segments) == 0 && len(normalized.Samples) > 0 {
		// No detectable speech; analyze the whole clip rather than nothing.
		segments = []Segment{{StartSec: 0, EndSec: normalized.DurationSec()}}
	}

	p.log.Debug("audio preprocessed",
		zap.Float64("duration_sec", normalized.DurationSec()),
		zap.Int("segments", len(segments)),
		zap.String("detector", p.detector.Name()),
	)
	return normalized, segments
}

// TrimSilence removes leading and trailing stretches below the silence
// floor, keeping one frame of lead-in and two frames of trail-out so word
// onsets are not clipped. A clip with no audible frame is returned as is.
func TrimSilence(c Clip) Clip {
	frame := c.Rate * trimFrameMS / 1000
	if frame == 0 || len(c.Samples) < frame {
		return c
	}
	n := len(c.Samples) / frame

	first, last := -1, -1
	for i := 0; i < n; i++ {
		db := rmsDB(c.Samples[i*frame : (i+1)*frame])
		if db > silenceFloorDB {
			if first < 0 {
				first = i
			}
			last = i
		}
	}
	if first < 0 {
		return c
	}

	start := (first - 1) * frame
	if start < 0 {
		start = 0
	}
	end := (last + 3) * frame
	if end > len(c.Samples) {
		end = len(c.Samples)
	}
	return Clip{Samples: c.Samples[start:end], Rate: c.Rate}
}

// NormalizeRMS scales the clip toward a -20 dB RMS level, limiting the
// gain so no sample clips.
func NormalizeRMS(c Clip) Clip {
	rms := rmsOf(c.Samples)
	if rms == 0 {
		return c
	}
	target := math.Pow(10, targetRMSDB/20)
	gain := target / rms

	var peak float64
	for _, s := range c.Samples {
		if a := math.Abs(s); a > peak {
			peak = a
		}
	}
	if peak*gain > 0.99 {
		gain = 0.99 / peak
	}

	out := make([]float64, len(c.Samples))
	for i, s := range c.Samples {
		out[i] = s * gain
	}
	return Clip{Samples: out, Rate: c.Rate}
}

func rmsOf(samples []float64) float64 {
	if len(samples) == 0 {
		return 0
	}
	var sum float64
	for _, s := range samples {
		sum += s * s
	}
	return math.Sqrt(sum / float64(len(samples)))
}

func rmsDB(samples []float64) float64 {
	rms := rmsOf(samples)
	if rms < 1e-9 {
		return -96.0
	}
	return 20 * math.Log10(rms)
}
