package audio

import (
	"math"
	"testing"

	"go.uber.org/zap"
)

// sine generates a test tone at the given amplitude.
func sine(freq float64, amplitude float64, durationSec float64, rate int) []float64 {
	n := int(durationSec * float64(rate))
	samples := make([]float64, n)
	for i := range samples {
		samples[i] = amplitude * math.Sin(2*math.Pi*freq*float64(i)/float64(rate))
	}
	return samples
}

func silence(durationSec float64, rate int) []float64 {
	return make([]float64, int(durationSec*float64(rate)))
}

func TestEncodeDecodeWAVRoundTrip(t *testing.T) {
	original := Clip{Samples: sine(220, 0.5, 0.25, TargetRate), Rate: TargetRate}

	data := EncodeWAV(original)
	decoded, err := Decode(data, "wav")
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}

	if decoded.Rate != TargetRate {
		t.Errorf("decoded rate = %d, want %d", decoded.Rate, TargetRate)
	}
	if len(decoded.Samples) != len(original.Samples) {
		t.Fatalf("decoded %d samples, want %d", len(decoded.Samples), len(original.Samples))
	}
	for i := range decoded.Samples {
		if math.Abs(decoded.Samples[i]-original.Samples[i]) > 0.001 {
			t.Fatalf("sample %d = %f, want %f", i, decoded.Samples[i], original.Samples[i])
		}
	}
}

func TestDecodeRejectsEmptyAndUnknown(t *testing.T) {
	if _, err := Decode(nil, "wav"); err == nil {
		t.Error("expected error for empty payload")
	}
	if _, err := Decode([]byte{1, 2, 3}, "ogg"); err == nil {
		t.Error("expected error for unsupported format")
	}
	if _, err := Decode([]byte("definitely not audio data here"), "wav"); err == nil {
		t.Error("expected error for garbage wav payload")
	}
}

func TestSniffFormat(t *testing.T) {
	wav := EncodeWAV(Clip{Samples: sine(220, 0.5, 0.05, TargetRate), Rate: TargetRate})
	if got := SniffFormat(wav, "bin"); got != "wav" {
		t.Errorf("sniffed %q, want wav", got)
	}
	if got := SniffFormat([]byte("fLaC...."), "bin"); got != "flac" {
		t.Errorf("sniffed %q, want flac", got)
	}
	if got := SniffFormat([]byte("????"), ".OGG"); got != "ogg" {
		t.Errorf("sniffed %q, want ogg hint", got)
	}
}

func TestTrimSilence(t *testing.T) {
	rate := TargetRate
	var samples []float64
	samples = append(samples, silence(0.5, rate)...)
	samples = append(samples, sine(220, 0.5, 0.5, rate)...)
	samples = append(samples, silence(0.5, rate)...)

	trimmed := TrimSilence(Clip{Samples: samples, Rate: rate})
	if got := trimmed.DurationSec(); got > 0.6 {
		t.Errorf("trimmed duration = %f s, want about 0.5 s plus margins", got)
	}
	if got := trimmed.DurationSec(); got < 0.5 {
		t.Errorf("trimmed duration = %f s, speech was clipped", got)
	}
}

func TestTrimSilenceAllQuiet(t *testing.T) {
	c := Clip{Samples: silence(1, TargetRate), Rate: TargetRate}
	trimmed := TrimSilence(c)
	if len(trimmed.Samples) != len(c.Samples) {
		t.Errorf("all-silent clip should be returned unchanged")
	}
}

func TestNormalizeRMS(t *testing.T) {
	quiet := Clip{Samples: sine(220, 0.01, 0.5, TargetRate), Rate: TargetRate}
	normalized := NormalizeRMS(quiet)

	target := math.Pow(10, -20.0/20)
	got := rmsOf(normalized.Samples)
	if math.Abs(got-target) > 0.01 {
		t.Errorf("normalized RMS = %f, want about %f", got, target)
	}

	for _, s := range normalized.Samples {
		if math.Abs(s) > 0.99 {
			t.Fatalf("normalization produced clipping sample %f", s)
		}
	}
}

func TestNormalizeRMSLimitsGain(t *testing.T) {
	// A clip already near full scale must not be pushed into clipping.
	loud := Clip{Samples: sine(220, 0.95, 0.1, TargetRate), Rate: TargetRate}
	normalized := NormalizeRMS(loud)
	for _, s := range normalized.Samples {
		if math.Abs(s) > 0.99 {
			t.Fatalf("gain limiter failed, sample %f", s)
		}
	}
}

func TestEnergyDetectorFindsSegments(t *testing.T) {
	rate := TargetRate
	var samples []float64
	samples = append(samples, sine(220, 0.5, 0.4, rate)...)
	samples = append(samples, silence(0.5, rate)...)
	samples = append(samples, sine(220, 0.5, 0.4, rate)...)

	segments := NewEnergyDetector().DetectSegments(Clip{Samples: samples, Rate: rate})
	if len(segments) != 2 {
		t.Fatalf("segments = %d, want 2: %+v", len(segments), segments)
	}
	if segments[0].StartSec > 0.05 {
		t.Errorf("first segment starts at %f, want near 0", segments[0].StartSec)
	}
	if segments[1].StartSec < 0.8 {
		t.Errorf("second segment starts at %f, want after the gap", segments[1].StartSec)
	}
}

func TestEnergyDetectorBridgesShortGaps(t *testing.T) {
	rate := TargetRate
	var samples []float64
	samples = append(samples, sine(220, 0.5, 0.3, rate)...)
	samples = append(samples, silence(0.05, rate)...) // below the bridge limit
	samples = append(samples, sine(220, 0.5, 0.3, rate)...)

	segments := NewEnergyDetector().DetectSegments(Clip{Samples: samples, Rate: rate})
	if len(segments) != 1 {
		t.Errorf("segments = %d, want 1 bridged segment: %+v", len(segments), segments)
	}
}

func TestEnergyDetectorSilentClip(t *testing.T) {
	segments := NewEnergyDetector().DetectSegments(Clip{Samples: silence(1, TargetRate), Rate: TargetRate})
	if len(segments) != 0 {
		t.Errorf("segments = %d, want 0 for silence", len(segments))
	}
}

func TestFullClipDetector(t *testing.T) {
	d := NewFullClipDetector()
	if got := d.DetectSegments(Clip{}); got != nil {
		t.Errorf("empty clip segments = %+v, want nil", got)
	}

	segments := d.DetectSegments(Clip{Samples: silence(2, TargetRate), Rate: TargetRate})
	if len(segments) != 1 || segments[0].EndSec != 2 {
		t.Errorf("segments = %+v, want one covering 0..2 s", segments)
	}
}

func TestPreprocessorFallsBackToFullClip(t *testing.T) {
	p := NewPreprocessor(NewEnergyDetector(), zap.NewNop())
	// Quiet but non-empty clip: the detector finds nothing, Process must
	// still return one segment covering the clip.
	clip := Clip{Samples: sine(220, 0.001, 0.5, TargetRate), Rate: TargetRate}

	_, segments := p.Process(clip)
	if len(segments) != 1 {
		t.Fatalf("segments = %d, want 1 fallback segment", len(segments))
	}
}

func TestResample(t *testing.T) {
	src := Clip{Samples: sine(220, 0.5, 1, 8000), Rate: 8000}
	out := Resample(src, TargetRate)
	if out.Rate != TargetRate {
		t.Errorf("rate = %d, want %d", out.Rate, TargetRate)
	}
	if got := out.DurationSec(); math.Abs(got-1) > 0.01 {
		t.Errorf("duration = %f, want 1 s", got)
	}
}

func TestDownmixStereo(t *testing.T) {
	interleaved := []float64{1, 0, 0.5, 0.5, -1, 1}
	mono := Downmix(interleaved, 2, TargetRate)
	want := []float64{0.5, 0.5, 0}
	if len(mono.Samples) != 3 {
		t.Fatalf("mono samples = %d, want 3", len(mono.Samples))
	}
	for i, w := range want {
		if mono.Samples[i] != w {
			t.Errorf("sample %d = %f, want %f", i, mono.Samples[i], w)
		}
	}
}
