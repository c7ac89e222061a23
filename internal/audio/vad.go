package audio

// Segment is a stretch of detected speech, in seconds from clip start.
type Segment struct {
	StartSec float64 `json:"start_sec"`
	EndSec   float64 `json:"end_sec"`
}

// DurationMS returns the segment length in milliseconds.
func (s Segment) DurationMS() float64 {
	return (s.EndSec - s.StartSec) * 1000
}

// VoiceDetector locates speech inside a clip. Implementations are chosen
// at construction time; callers never branch on capability.
type VoiceDetector interface {
	DetectSegments(c Clip) []Segment
	Name() string
}

const (
	vadFrameMS      = 30
	minSegmentMS    = 50.0
	vadBridgeFrames = 2
)

// EnergyDetector is the full detector: per-frame energy gated against the
// silence floor, adjacent speech frames merged, short blips dropped.
type EnergyDetector struct{}

func NewEnergyDetector() *EnergyDetector { return &EnergyDetector{} }

func (d *EnergyDetector) Name() string { return "energy" }

func (d *EnergyDetector) DetectSegments(c Clip) []Segment {
	frame := c.Rate * vadFrameMS / 1000
	if frame == 0 || len(c.Samples) < frame {
		return nil
	}
	n := len(c.Samples) / frame

	voiced := make([]bool, n)
	for i := 0; i < n; i++ {
		voiced[i] = rmsDB(c.Samples[i*frame:(i+1)*frame]) > silenceFloorDB
	}

	// Bridge short unvoiced gaps so one word does not split into several
	// segments.
	for i := 1; i < n-1; i++ {
		if !voiced[i] {
			gap := 0
			for j := i; j < n && !voiced[j]; j++ {
				gap++
			}
			if gap <= vadBridgeFrames && voiced[i-1] && i+gap < n && voiced[i+gap] {
				for j := i; j < i+gap; j++ {
					voiced[j] = true
				}
			}
			i += gap - 1
		}
	}

	frameSec := float64(frame) / float64(c.Rate)
	var segments []Segment
	start := -1
	for i := 0; i <= n; i++ {
		inSpeech := i < n && voiced[i]
		switch {
		case inSpeech && start < 0:
			start = i
		case !inSpeech && start >= 0:
			seg := Segment{StartSec: float64(start) * frameSec, EndSec: float64(i) * frameSec}
			if seg.DurationMS() >= minSegmentMS {
				segments = append(segments, seg)
			}
			start = -1
		}
	}
	return segments
}

// FullClipDetector is the degraded detector used when frame-level
// detection is disabled: the entire clip counts as one segment.
type FullClipDetector struct{}

func NewFullClipDetector() *FullClipDetector { return &FullClipDetector{} }

func (d *FullClipDetector) Name() string { return "full_clip" }

func (d *FullClipDetector) DetectSegments(c Clip) []Segment {
	if len(c.Samples) == 0 {
		return nil
	}
	return []Segment{{StartSec: 0, EndSec: c.DurationSec()}}
}
