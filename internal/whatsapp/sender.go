package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Sender delivers follow-up messages through the WhatsApp Business Cloud API.
// Most BSPs proxy this same API, so overriding the base URL is enough to swap
// providers.
type Sender struct {
	apiKey        string
	phoneNumberID string
	baseURL       string
	client        *http.Client
}

// NewSender creates a Cloud API sender
// apiKey: Access Token from Meta Business Suite or BSP
// phoneNumberID: WhatsApp Business Phone Number ID
func NewSender(apiKey, phoneNumberID string) *Sender {
	return &Sender{
		apiKey:        apiKey,
		phoneNumberID: phoneNumberID,
		baseURL:       "https://graph.facebook.com/v18.0",
		client:        &http.Client{Timeout: 30 * time.Second},
	}
}

// SetBaseURL allows overriding the API base URL (for BSP proxies)
func (s *Sender) SetBaseURL(url string) {
	s.baseURL = url
}

// SendFollowUp sends a text message to the visitor's phone. Text messages
// only work within the 24-hour session window; outside it the provider
// rejects the send and the caller sees the error.
func (s *Sender) SendFollowUp(ctx context.Context, phone, visitorName, message string) error {
	payload := map[string]interface{}{
		"messaging_product": "whatsapp",
		"recipient_type":    "individual",
		"to":                formatPhoneNumber(phone),
		"type":              "text",
		"text": map[string]string{
			"preview_url": "false",
			"body":        message,
		},
	}

	return s.sendRequest(ctx, payload)
}

// SendTemplate sends a pre-approved template message, which works outside the
// session window. Params fill the template body placeholders in order.
func (s *Sender) SendTemplate(ctx context.Context, phone, templateName string, params []string) error {
	components := []map[string]interface{}{}

	if len(params) > 0 {
		bodyParams := make([]map[string]string, len(params))
		for i, param := range params {
			bodyParams[i] = map[string]string{"type": "text", "text": param}
		}
		components = append(components, map[string]interface{}{
			"type":       "body",
			"parameters": bodyParams,
		})
	}

	payload := map[string]interface{}{
		"messaging_product": "whatsapp",
		"recipient_type":    "individual",
		"to":                formatPhoneNumber(phone),
		"type":              "template",
		"template": map[string]interface{}{
			"name": templateName,
			"language": map[string]string{
				"code": "pt_BR",
			},
			"components": components,
		},
	}

	return s.sendRequest(ctx, payload)
}

func (s *Sender) sendRequest(ctx context.Context, payload map[string]interface{}) error {
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/%s/messages", s.baseURL, s.phoneNumberID)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		var errResp map[string]interface{}
		if json.Unmarshal(body, &errResp) == nil {
			if errObj, ok := errResp["error"].(map[string]interface{}); ok {
				if msg, ok := errObj["message"].(string); ok {
					return fmt.Errorf("whatsapp API error: %s", msg)
				}
			}
		}
		return fmt.Errorf("whatsapp API error (status %d): %s", resp.StatusCode, string(body))
	}

	return nil
}

// formatPhoneNumber strips formatting and prefixes the Brazilian country code
// when the number looks like a bare local number.
func formatPhoneNumber(phone string) string {
	cleaned := ""
	for _, c := range phone {
		if c >= '0' && c <= '9' {
			cleaned += string(c)
		}
	}

	// 10 or 11 digits: DDD + local number without the country code
	if len(cleaned) == 10 || len(cleaned) == 11 {
		return "55" + cleaned
	}
	return cleaned
}
