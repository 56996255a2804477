package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/dengeterapi/clinic-server-go/internal/config"
	"github.com/dengeterapi/clinic-server-go/internal/model"
)

// WhatsAppClient sends plain text messages through the provider's HTTP API.
// One call per message, no retry, no delivery tracking.
type WhatsAppClient struct {
	apiURL    string
	token     string
	defaultTo string
	client    *http.Client
}

func NewWhatsAppClient(apiURL, token, defaultTo string) *WhatsAppClient {
	return &WhatsAppClient{
		apiURL:    apiURL,
		token:     token,
		defaultTo: defaultTo,
		client: &http.Client{
			Timeout: config.ProviderTimeout,
		},
	}
}

// Send posts one message. An empty recipient falls back to the configured
// clinic number; missing provider credentials produce a descriptive failure
// without making any call.
func (c *WhatsAppClient) Send(ctx context.Context, to, message string) Result {
	if c.apiURL == "" || c.token == "" {
		return failed("WhatsApp provider is not configured")
	}

	if to == "" {
		to = c.defaultTo
	}
	if to == "" {
		return failed("no recipient number")
	}

	payload := map[string]any{
		"to":   to,
		"type": "text",
		"text": map[string]string{"body": message},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return failed("marshal payload")
	}

	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(body))
	if err != nil {
		return failed("create request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.client.Do(req)
	elapsed := time.Since(start)

	if err != nil {
		log.Error().Err(err).Dur("elapsed", elapsed).Msg("whatsapp send error")
		return failed("provider request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		log.Error().Int("status", resp.StatusCode).Dur("elapsed", elapsed).Msg("whatsapp send failed")
		return failed(fmt.Sprintf("provider returned status %d", resp.StatusCode))
	}

	log.Info().Int("status", resp.StatusCode).Dur("elapsed", elapsed).Msg("whatsapp message sent")
	return ok()
}

// SendContactNotification pings the clinic number about a new submission.
func (c *WhatsAppClient) SendContactNotification(ctx context.Context, sub *model.ContactSubmission) Result {
	message := fmt.Sprintf("Yeni iletişim formu mesajı: %s (%s)", sub.Name, sub.Email)
	return c.Send(ctx, "", message)
}

// SendBookingReminder is a message-template wrapper over Send.
func (c *WhatsAppClient) SendBookingReminder(ctx context.Context, booking *model.Booking) Result {
	message := fmt.Sprintf(
		"Sayın %s, %s tarihindeki randevunuzu hatırlatırız. Görüşmek üzere.",
		booking.Name,
		booking.ScheduledAt.Format("02.01.2006 15:04"),
	)
	return c.Send(ctx, booking.Phone, message)
}
