package emotion

import (
	"math"

	"github.com/tidwall/gjson"

	"github.com/ZanzyTHEbar/emotion-detector/internal/types"
)

// emotionPath locates the score map in an Analyze reply
const emotionPath = "document.emotion"

// ParseEmotions extracts the score map from a reply body. Named emotions
// missing from the map stay 0. The dominant emotion is the key holding the
// highest numeric score, taking the first one in document order on ties,
// and may be a label outside the five named fields. Non-numeric entries and
// numbers that overflow a float64 are ignored; a missing or non-object map
// yields the neutral scores.
func ParseEmotions(body []byte) types.EmotionScores {
	scores := types.NeutralScores()

	emotions := gjson.GetBytes(body, emotionPath)
	if !emotions.IsObject() {
		return scores
	}

	var (
		dominant string
		best     float64
		found    bool
	)

	emotions.ForEach(func(key, value gjson.Result) bool {
		if value.Type != gjson.Number {
			return true
		}

		score := value.Float()
		if math.IsInf(score, 0) || math.IsNaN(score) {
			return true
		}

		name := key.String()

		switch name {
		case "anger":
			scores.Anger = score
		case "disgust":
			scores.Disgust = score
		case "fear":
			scores.Fear = score
		case "joy":
			scores.Joy = score
		case "sadness":
			scores.Sadness = score
		}

		if !found || score > best {
			dominant, best, found = name, score, true
		}
		return true
	})

	if found {
		scores.DominantEmotion = &dominant
	}
	return scores
}
