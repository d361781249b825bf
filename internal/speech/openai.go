package speech

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultOpenAIVoice matches the voice the hosted app has always used
const DefaultOpenAIVoice = "nova"

// OpenAITTS synthesizes speech with the OpenAI audio API
type OpenAITTS struct {
	apiKey     string
	voice      string
	model      string
	baseURL    string
	httpClient *http.Client
}

func NewOpenAITTS(apiKey, voice string) *OpenAITTS {
	if voice == "" {
		voice = DefaultOpenAIVoice
	}
	return &OpenAITTS{
		apiKey:  apiKey,
		voice:   voice,
		model:   "tts-1",
		baseURL: "https://api.openai.com",
		httpClient: &http.Client{
			Timeout: 90 * time.Second,
		},
	}
}

type openAISpeechRequest struct {
	Model string `json:"model"`
	Input string `json:"input"`
	Voice string `json:"voice"`
}

// Synthesize returns MP3 audio for text
func (o *OpenAITTS) Synthesize(ctx context.Context, text string) ([]byte, error) {
	body, err := json.Marshal(openAISpeechRequest{Model: o.model, Input: text, Voice: o.voice})
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", o.baseURL+"/v1/audio/speech", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+o.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{Provider: "OpenAI", StatusCode: resp.StatusCode, Body: string(data)}
	}
	return data, nil
}
