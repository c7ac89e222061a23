package features

import (
	"math"

	"go.uber.org/zap"

	"github.com/speakeasy-labs/fluency-service/internal/audio"
	"github.com/speakeasy-labs/fluency-service/internal/domain"
)

const (
	pitchMinHz   = 50.0
	pitchMaxHz   = 600.0
	pitchFrameMS = 40
	hopMS        = 10

	pauseFloorDB = -40.0
	minPauseMS   = 200.0
)

// Extractor computes the acoustic features analyzers consume. Each
// sub-feature is independent: one failing leaves only its own fields at
// zero.
type Extractor struct {
	log *zap.Logger
}

func NewExtractor(log *zap.Logger) *Extractor {
	return &Extractor{log: log}
}

// Extract measures pitch, intensity, pauses and rhythm over the clip.
func (e *Extractor) Extract(clip audio.Clip) domain.AudioFeatures {
	f := domain.AudioFeatures{
		DurationSec: clip.DurationSec(),
		SampleRate:  clip.Rate,
		SpeechRatio: 0,
	}
	if len(clip.Samples) == 0 || clip.Rate == 0 {
		return f
	}

	e.extractPitch(clip, &f)
	e.extractIntensity(clip, &f)
	e.extractPauses(clip, &f)
	f.NPVI = e.computeNPVI(clip, f.Pauses)

	e.log.Debug("features extracted",
		zap.Float64("duration_sec", f.DurationSec),
		zap.Float64("pitch_mean_hz", f.PitchMeanHz),
		zap.Int("pauses", len(f.Pauses)),
		zap.Float64("speech_ratio", f.SpeechRatio),
		zap.Float64("npvi", f.NPVI),
	)
	return f
}

// extractPitch runs an autocorrelation tracker over voiced frames only.
// No voiced frame leaves every pitch field at zero.
func (e *Extractor) extractPitch(clip audio.Clip, f *domain.AudioFeatures) {
	frame := clip.Rate * pitchFrameMS / 1000
	hop := clip.Rate * hopMS / 1000
	if frame == 0 || hop == 0 || len(clip.Samples) < frame {
		return
	}

	lagMin := int(float64(clip.Rate) / pitchMaxHz)
	lagMax := int(float64(clip.Rate) / pitchMinHz)
	if lagMax >= frame {
		lagMax = frame - 1
	}

	var pitches []float64
	for start := 0; start+frame <= len(clip.Samples); start += hop {
		window := clip.Samples[start : start+frame]
		if hz, ok := pitchOf(window, clip.Rate, lagMin, lagMax); ok {
			pitches = append(pitches, hz)
		}
	}
	if len(pitches) == 0 {
		return
	}

	f.PitchSeries = pitches
	f.PitchMeanHz = mean(pitches)
	f.PitchStdHz = stddev(pitches, f.PitchMeanHz)
	f.PitchMinHz = minOf(pitches)
	f.PitchMaxHz = maxOf(pitches)
	f.PitchRangeHz = f.PitchMaxHz - f.PitchMinHz
}

// pitchOf returns the fundamental of the window, or false when the frame
// is silent or no convincing periodicity exists.
func pitchOf(window []float64, rate, lagMin, lagMax int) (float64, bool) {
	var energy float64
	for _, s := range window {
		energy += s * s
	}
	if energy < 1e-6 {
		return 0, false
	}

	bestLag, bestCorr := 0, 0.0
	for lag := lagMin; lag <= lagMax; lag++ {
		var corr float64
		for i := 0; i < len(window)-lag; i++ {
			corr += window[i] * window[i+lag]
		}
		if corr > bestCorr {
			bestCorr = corr
			bestLag = lag
		}
	}
	if bestLag == 0 || bestCorr/energy < 0.3 {
		return 0, false
	}
	return float64(rate) / float64(bestLag), true
}

func (e *Extractor) extractIntensity(clip audio.Clip, f *domain.AudioFeatures) {
	frame := clip.Rate * hopMS / 1000
	if frame == 0 || len(clip.Samples) < frame {
		return
	}
	var dbs []float64
	for start := 0; start+frame <= len(clip.Samples); start += frame {
		var sum float64
		for _, s := range clip.Samples[start : start+frame] {
			sum += s * s
		}
		rms := math.Sqrt(sum / float64(frame))
		if rms < 1e-9 {
			continue
		}
		dbs = append(dbs, 20*math.Log10(rms))
	}
	if len(dbs) == 0 {
		return
	}
	f.IntensitySeries = dbs
	f.IntensityMeanDB = mean(dbs)
	f.IntensityStdDB = stddev(dbs, f.IntensityMeanDB)
	f.IntensityMaxDB = maxOf(dbs)
}

// extractPauses finds silence runs of at least 200 ms and derives the
// total pause time and speech ratio.
func (e *Extractor) extractPauses(clip audio.Clip, f *domain.AudioFeatures) {
	frame := clip.Rate * hopMS / 1000
	if frame == 0 || len(clip.Samples) < frame {
		return
	}
	n := len(clip.Samples) / frame

	silent := make([]bool, n)
	for i := 0; i < n; i++ {
		var sum float64
		for _, s := range clip.Samples[i*frame : (i+1)*frame] {
			sum += s * s
		}
		rms := math.Sqrt(sum / float64(frame))
		db := -96.0
		if rms >= 1e-9 {
			db = 20 * math.Log10(rms)
		}
		silent[i] = db < pauseFloorDB
	}

	var pauses []domain.Pause
	start := -1
	for i := 0; i <= n; i++ {
		isSilent := i < n && silent[i]
		switch {
		case isSilent && start < 0:
			start = i
		case !isSilent && start >= 0:
			p := domain.Pause{
				StartMS: float64(start * hopMS),
				EndMS:   float64(i * hopMS),
			}
			p.DurationMS = p.EndMS - p.StartMS
			if p.DurationMS >= minPauseMS {
				pauses = append(pauses, p)
			}
			start = -1
		}
	}

	f.Pauses = pauses
	for _, p := range pauses {
		f.TotalPauseMS += p.DurationMS
	}
	totalMS := f.DurationSec * 1000
	if totalMS > 0 {
		ratio := (totalMS - f.TotalPauseMS) / totalMS
		f.SpeechRatio = clamp01(ratio)
	}
}

// computeNPVI measures rhythm as the normalized pairwise variability of
// the speech intervals between pauses. Fewer than two intervals yields 0.
func (e *Extractor) computeNPVI(clip audio.Clip, pauses []domain.Pause) float64 {
	totalMS := clip.DurationSec() * 1000
	intervals := speechIntervals(totalMS, pauses)
	if len(intervals) < 2 {
		return 0
	}
	var sum float64
	for i := 0; i < len(intervals)-1; i++ {
		a, b := intervals[i], intervals[i+1]
		m := (a + b) / 2
		if m == 0 {
			continue
		}
		sum += math.Abs(a-b) / m
	}
	return 100 * sum / float64(len(intervals)-1)
}

// speechIntervals returns the durations (ms) of the speech stretches
// between consecutive pauses, dropping empty stretches.
func speechIntervals(totalMS float64, pauses []domain.Pause) []float64 {
	var intervals []float64
	cursor := 0.0
	for _, p := range pauses {
		if d := p.StartMS - cursor; d > 0 {
			intervals = append(intervals, d)
		}
		cursor = p.EndMS
	}
	if d := totalMS - cursor; d > 0 {
		intervals = append(intervals, d)
	}
	return intervals
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

func stddev(xs []float64, m float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		d := x - m
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(xs)))
}

func minOf(xs []float64) float64 {
	m := xs[0]
	for _, x := range xs[1:] {
		if x < m {
			m = x
		}
	}
	return m
}

func maxOf(xs []float64) float64 {
	m := xs[0]
	for _, x := range xs[1:] {
		if x > m {
			m = x
		}
	}
	return m
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
