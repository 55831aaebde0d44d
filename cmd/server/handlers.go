package main

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tidwall/gjson"

	"github.com/ZanzyTHEbar/emotion-detector/internal/emotion"
	"github.com/ZanzyTHEbar/emotion-detector/internal/errors"
)

const (
	infoMessage = "Emotion Detector is running. " +
		"Send POST requests to /detect_emotion with JSON {'text': 'your text'}."

	errMissingText = "Missing 'text' in request body"
	errTextType    = "'text' must be a string"
	errEmptyText   = "Text must not be empty"
)

// textAnalyzer is the gateway operation used by the detect handler
type textAnalyzer interface {
	AnalyzeText(ctx context.Context, text string) emotion.Result
}

// infoHandler explains how to use the API
//
//	@Summary	Usage string
//	@Tags		meta
//	@Produce	plain
//	@Success	200	{string}	string
//	@Router		/info [get]
func infoHandler(c *gin.Context) {
	c.String(http.StatusOK, infoMessage)
}

// detectEmotionHandler validates the posted text and runs the analysis
//
//	@Summary		Detect emotions in text
//	@Description	Forwards text to the emotion service and returns normalized scores.
//	@Tags			emotion
//	@Accept			json
//	@Produce		json
//	@Param			request	body		types.AnalysisRequest	true	"Text to analyze"
//	@Success		200		{object}	types.EmotionScores
//	@Failure		400		{object}	types.ErrorResponse
//	@Router			/detect_emotion [post]
func detectEmotionHandler(analyzer textAnalyzer) gin.HandlerFunc {
	return func(c *gin.Context) {
		text, appErr := readText(c)
		if appErr != nil {
			errors.LogError(c, appErr)
			c.JSON(appErr.HTTPStatus, appErr.Response())
			return
		}

		result := analyzer.AnalyzeText(c.Request.Context(), text)
		c.JSON(http.StatusOK, result.Scores)
	}
}

// readText extracts and validates the "text" field. Anything that is not a
// JSON object body counts as a missing field.
func readText(c *gin.Context) (string, *errors.AppError) {
	if !isJSONContentType(c.ContentType()) {
		return "", errors.NewValidationError(errMissingText, "content type "+c.ContentType())
	}

	body, err := c.GetRawData()
	if err != nil {
		return "", errors.NewValidationError(errMissingText, err)
	}

	if !gjson.ValidBytes(body) {
		return "", errors.NewValidationError(errMissingText, "malformed JSON")
	}

	root := gjson.ParseBytes(body)
	if !root.IsObject() {
		return "", errors.NewValidationError(errMissingText, "body is not an object")
	}

	field := lastField(root, "text")
	if !field.Exists() {
		return "", errors.NewValidationError(errMissingText)
	}
	if field.Type != gjson.String {
		return "", errors.NewValidationError(errTextType, field.Type.String())
	}

	text := strings.TrimSpace(field.String())
	if text == "" {
		return "", errors.NewValidationError(errEmptyText)
	}

	return text, nil
}

// lastField returns the last value stored under key, so a repeated key
// resolves the way common JSON decoders do.
func lastField(obj gjson.Result, key string) gjson.Result {
	var field gjson.Result
	obj.ForEach(func(k, v gjson.Result) bool {
		if k.String() == key {
			field = v
		}
		return true
	})
	return field
}

func isJSONContentType(contentType string) bool {
	return contentType == "application/json" ||
		(strings.HasPrefix(contentType, "application/") && strings.HasSuffix(contentType, "+json"))
}

// healthHandler reports process liveness. It never calls the emotion service.
func healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
		"version":   version,
	})
}

// statsProvider exposes counters for the metrics endpoint
type statsProvider interface {
	GetStats() map[string]interface{}
}

func metricsHandler(metrics, upstream statsProvider) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"http":     metrics.GetStats(),
			"upstream": upstream.GetStats(),
		})
	}
}
