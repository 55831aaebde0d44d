package emotion

import (
	"context"
	"strings"
	"time"

	"github.com/ZanzyTHEbar/emotion-detector/internal/adapters"
	"github.com/ZanzyTHEbar/emotion-detector/internal/errors"
	"github.com/ZanzyTHEbar/emotion-detector/internal/monitoring"
	"github.com/ZanzyTHEbar/emotion-detector/internal/types"
)

// Outcome tells how a result was produced. It never changes the response
// body; both neutral outcomes serialize identically.
type Outcome string

const (
	// OutcomeAnalyzed means the service answered with a readable document
	OutcomeAnalyzed Outcome = "analyzed"
	// OutcomeSkipped means the text was blank and no call was made
	OutcomeSkipped Outcome = "skipped"
	// OutcomeFailed means the call was made and failed
	OutcomeFailed Outcome = "failed"
)

// Result is the output of AnalyzeText
type Result struct {
	Scores  types.EmotionScores
	Outcome Outcome
	// Err holds the upstream failure for OutcomeFailed, nil otherwise
	Err error
}

// Client is the remote emotion classifier
type Client interface {
	Analyze(ctx context.Context, text string) (*adapters.WatsonResponse, error)
}

// Service is the emotion gateway. It is safe for concurrent use and holds
// no per-request state.
type Service struct {
	client   Client
	logger   *monitoring.Logger
	metrics  *monitoring.Metrics
	endpoint string
}

// NewService creates a gateway service. logger and metrics may be nil.
func NewService(client Client, endpoint string, logger *monitoring.Logger, metrics *monitoring.Metrics) *Service {
	if logger == nil {
		logger = monitoring.NewNopLogger()
	}
	if metrics == nil {
		metrics = monitoring.NewMetrics()
	}

	return &Service{
		client:   client,
		logger:   logger,
		metrics:  metrics,
		endpoint: endpoint,
	}
}

// AnalyzeText classifies text through the remote service. It never returns
// an error: blank text and every upstream failure resolve to the neutral
// result, distinguished only by Result.Outcome.
func (s *Service) AnalyzeText(ctx context.Context, text string) Result {
	start := time.Now()

	if strings.TrimSpace(text) == "" {
		s.metrics.IncrementSkipped()
		result := Result{Scores: types.NeutralScores(), Outcome: OutcomeSkipped}
		s.logger.AnalysisLogger(len(text), string(result.Outcome), nil, time.Since(start))
		return result
	}

	resp, err := s.client.Analyze(ctx, text)
	duration := time.Since(start)

	statusCode := 0
	if resp != nil {
		statusCode = resp.StatusCode
	}

	s.metrics.RecordUpstreamCall(err == nil)
	s.logger.ExternalAPILogger(adapters.WatsonAPIName, "POST", s.endpoint, statusCode, duration, err == nil)

	if err != nil {
		appErr := errors.ToAppError(err)
		errors.LogWith(s.logger.With("api_name", adapters.WatsonAPIName), appErr)

		s.logger.AnalysisLogger(len(text), string(OutcomeFailed), nil, duration)
		return Result{Scores: types.NeutralScores(), Outcome: OutcomeFailed, Err: appErr}
	}

	scores := ParseEmotions(resp.Body)
	if scores.IsNeutral() {
		s.logger.Debug("Emotion service returned no usable scores", "status_code", statusCode, "body_bytes", len(resp.Body))
	}
	s.logger.AnalysisLogger(len(text), string(OutcomeAnalyzed), scores.DominantEmotion, duration)
	return Result{Scores: scores, Outcome: OutcomeAnalyzed}
}
