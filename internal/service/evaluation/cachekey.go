package evaluation

import (
	"crypto/sha256"
	"fmt"

	"github.com/speakeasy-labs/fluency-service/internal/domain"
)

// ReportCacheKey derives a stable key from the audio payload and every
// request field that changes the report.
func ReportCacheKey(req domain.EvaluationRequest) string {
	h := sha256.New()
	h.Write(req.Audio)
	fmt.Fprintf(h, "|%s|%s|%s|%s|%v",
		req.ExpectedText, req.Scenario, req.Level, req.Language, req.Detailed)
	return fmt.Sprintf("fluency:report:%x", h.Sum(nil))
}
