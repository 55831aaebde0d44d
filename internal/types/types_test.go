package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmotionScores_NeutralJSON(t *testing.T) {
	encoded, err := json.Marshal(NeutralScores())
	require.NoError(t, err)

	assert.JSONEq(t,
		`{"anger":0,"disgust":0,"fear":0,"joy":0,"sadness":0,"dominant_emotion":null}`,
		string(encoded))
}

func TestEmotionScores_IsNeutral(t *testing.T) {
	joy := "joy"

	assert.True(t, NeutralScores().IsNeutral())
	assert.False(t, EmotionScores{Joy: 0.4}.IsNeutral())
	assert.False(t, EmotionScores{DominantEmotion: &joy}.IsNeutral())
}
