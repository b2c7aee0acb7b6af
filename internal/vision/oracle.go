// Package vision implements the visual-inference element backend: it asks a
// Claude vision model what UI element sits under a point when no structured
// accessibility metadata is available.
package vision

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/asachs01/claudeDocugen/internal"
)

const systemPrompt = `You identify UI elements in screenshots. Given a screenshot and a pixel coordinate, describe the interactive element at that coordinate. Respond with JSON only, no prose:
{"name": "visible label or best description", "role": "button|link|text_field|checkbox|menu_item|image|unknown", "bounds": {"x": 0, "y": 0, "width": 0, "height": 0}, "confidence": 0.0}
Bounds are pixel coordinates of the element's bounding box. Confidence is your certainty in [0,1]. If nothing interactive is at the coordinate, describe the nearest enclosing region with low confidence.`

// Oracle answers element queries with a vision model. Calls are single-shot:
// the resolver owns timeout and fallback policy, so the oracle never retries
// on its own.
type Oracle struct {
	cfg    internal.VisionConfig
	client anthropic.Client
	cache  *Cache
}

// NewOracle builds an oracle from the vision configuration. The API key
// falls back to ANTHROPIC_API_KEY.
func NewOracle(cfg internal.VisionConfig) (*Oracle, error) {
	apiKey := cfg.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("ANTHROPIC_API_KEY")
	}
	if apiKey == "" {
		return nil, errors.New("no API key: set ANTHROPIC_API_KEY or vision.api_key")
	}
	return &Oracle{
		cfg:    cfg,
		client: anthropic.NewClient(option.WithAPIKey(apiKey)),
		cache:  NewCache(cfg.CacheSize),
	}, nil
}

// visionAnswer is the JSON shape the model is instructed to return.
type visionAnswer struct {
	Name       string        `json:"name"`
	Role       string        `json:"role"`
	Bounds     internal.Rect `json:"bounds"`
	Confidence float64       `json:"confidence"`
}

// DescribeElementAt asks the model what element is at p in the screenshot.
// Identical (screenshot, point) queries within a session are served from the
// cache without a second API call.
func (o *Oracle) DescribeElementAt(ctx context.Context, shot *internal.Screenshot, p internal.Point) (*internal.ElementDescriptor, error) {
	if shot == nil || shot.PNG == nil {
		return nil, errors.New("visual inference requires an encoded screenshot")
	}

	key := CacheKey(shot.PNG, p)
	if desc, ok := o.cache.Get(key); ok {
		return desc, nil
	}

	question := fmt.Sprintf("What element is at coordinate (%d, %d)? The image is %dx%d pixels.",
		p.X, p.Y, shot.Width, shot.Height)

	resp, err := o.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(o.cfg.Model),
		MaxTokens: int64(o.cfg.MaxTokens),
		System: []anthropic.TextBlockParam{
			{Text: systemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(
				anthropic.NewImageBlockBase64("image/png", base64.StdEncoding.EncodeToString(shot.PNG)),
				anthropic.NewTextBlock(question),
			),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("vision request: %w", err)
	}

	var text strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}

	answer, err := parseAnswer(text.String())
	if err != nil {
		return nil, err
	}

	desc := &internal.ElementDescriptor{
		Name:       answer.Name,
		Role:       answer.Role,
		Bounds:     answer.Bounds,
		Confidence: answer.Confidence,
	}
	o.cache.Put(key, desc)
	return desc, nil
}

// parseAnswer extracts the JSON object from a model reply, tolerating code
// fences around it.
func parseAnswer(text string) (*visionAnswer, error) {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimPrefix(text, "```")
		if i := strings.LastIndex(text, "```"); i >= 0 {
			text = text[:i]
		}
		text = strings.TrimSpace(text)
	}

	var answer visionAnswer
	if err := json.Unmarshal([]byte(text), &answer); err != nil {
		return nil, fmt.Errorf("unparseable vision reply: %w", err)
	}
	if answer.Role == "" {
		answer.Role = "unknown"
	}
	return &answer, nil
}

var _ internal.VisionOracle = (*Oracle)(nil)
