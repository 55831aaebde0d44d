package types

// EmotionScores is the normalized response of an emotion analysis
type EmotionScores struct {
	Anger           float64 `json:"anger"`
	Disgust         float64 `json:"disgust"`
	Fear            float64 `json:"fear"`
	Joy             float64 `json:"joy"`
	Sadness         float64 `json:"sadness"`
	DominantEmotion *string `json:"dominant_emotion"`
}

// NeutralScores returns the all-zero result with no dominant emotion
func NeutralScores() EmotionScores {
	return EmotionScores{}
}

// IsNeutral reports whether no emotion was detected
func (s EmotionScores) IsNeutral() bool {
	return s.DominantEmotion == nil &&
		s.Anger == 0 && s.Disgust == 0 && s.Fear == 0 && s.Joy == 0 && s.Sadness == 0
}

// AnalysisRequest represents the request structure for the detect endpoint
type AnalysisRequest struct {
	Text string `json:"text" example:"I am so happy today"`
}

// ErrorResponse is the body returned for rejected requests
type ErrorResponse struct {
	Error string `json:"error" example:"Missing 'text' in request body"`
}
