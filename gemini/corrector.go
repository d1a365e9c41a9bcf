// Package gemini implements text correction and token counting using
// Google Gemini models.
package gemini

import (
	"context"

	"github.com/pageproof/pageproof"
	"google.golang.org/genai"
)

// DefaultModel is the Gemini model used for spelling and grammar review.
const DefaultModel = "gemini-2.5-flash"

// systemPrompt pins the wire contract: the model receives the batch array
// and answers with corrections for changed items only.
const systemPrompt = "You are a spelling and grammar assistant. " +
	"The user sends a JSON array of text fragments collected from a web page, " +
	"each as {\"idx\": <number>, \"text\": \"<fragment>\"}. " +
	"Check every fragment for spelling and grammar mistakes. " +
	"Respond with a JSON array containing one {\"idx\": <number>, \"content\": \"<corrected text>\"} " +
	"object for each fragment that needs a correction, keeping the idx of the original fragment. " +
	"Fragments that are already correct must not appear in the response. " +
	"If nothing needs correction, respond with an empty JSON array []. " +
	"Respond with JSON only, no prose."

// Ensure Corrector implements pageproof.Corrector at compile time.
var _ pageproof.Corrector = (*Corrector)(nil)

// Corrector reviews text batches using Google Gemini.
type Corrector struct {
	client *genai.Client
	model  string
}

// NewCorrector creates a new Corrector. An empty model selects DefaultModel.
func NewCorrector(client *genai.Client, model string) *Corrector {
	if model == "" {
		model = DefaultModel
	}
	return &Corrector{client: client, model: model}
}

// Correct sends the batch to the model and returns the corrections it
// proposes. Items the model found correct are absent from the result.
func (c *Corrector) Correct(ctx context.Context, batch *pageproof.Batch) ([]pageproof.Correction, error) {
	if batch == nil || len(batch.Items) == 0 {
		return nil, nil
	}

	payload, err := batch.Encode()
	if err != nil {
		return nil, err
	}

	result, err := c.client.Models.GenerateContent(ctx, c.model,
		[]*genai.Content{{
			Parts: []*genai.Part{{Text: string(payload)}},
		}},
		BuildConfig(),
	)
	if err != nil {
		return nil, pageproof.Errorf(pageproof.ECORRECTION, "gemini: %v", err)
	}
	if result == nil {
		return nil, pageproof.Errorf(pageproof.ECORRECTION, "gemini returned nil result")
	}

	return ParseCorrections(result.Text())
}

// BuildConfig returns the GenerateContentConfig for correction calls.
// Low temperature keeps rewrites conservative, and the JSON response type
// stops the model from wrapping the array in prose.
func BuildConfig() *genai.GenerateContentConfig {
	temp := float32(0.2)
	return &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: systemPrompt}},
		},
		Temperature:      &temp,
		ResponseMIMEType: "application/json",
	}
}
