package notifications

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	config "github.com/dlGuiri/Dental-Lens/configs"
)

type BrevoService struct {
	APIKey      string
	SenderEmail string
	SenderName  string
}

var EmailClient *BrevoService

type brevoPayload struct {
	Sender      map[string]string   `json:"sender"`
	To          []map[string]string `json:"to"`
	Subject     string              `json:"subject"`
	HTMLContent string              `json:"htmlContent"`
}

func InitEmailService() {
	apiKey := config.Config("BREVO_API_KEY")
	senderEmail := config.Config("EMAIL_SENDER")
	senderName := config.Config("EMAIL_SENDER_NAME")

	if apiKey == "" || senderEmail == "" || senderName == "" {
		log.Println("⚠️ Email service not configured. Missing API Key, Sender Email, or Sender Name.")
		EmailClient = nil
		return
	}

	EmailClient = &BrevoService{
		APIKey:      apiKey,
		SenderEmail: senderEmail,
		SenderName:  senderName,
	}
	log.Println("✅ Email service initialized successfully.")
}

func (s *BrevoService) send(toEmail, toName, subject, htmlContent string) error {
	url := "https://api.brevo.com/v3/smtp/email"

	if toEmail == "" || !strings.Contains(toEmail, "@") {
		return fmt.Errorf("invalid recipient email: %s", toEmail)
	}

	payload := brevoPayload{
		Sender: map[string]string{
			"name":  s.SenderName,
			"email": s.SenderEmail,
		},
		To: []map[string]string{
			{"email": toEmail, "name": toName},
		},
		Subject:     subject,
		HTMLContent: htmlContent,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("accept", "application/json")
	req.Header.Set("api-key", s.APIKey)
	req.Header.Set("content-type", "application/json")

	client := &http.Client{Timeout: 15 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("brevo returned %d: %s", resp.StatusCode, respBody)
	}
	return nil
}

// SendEmail delivers a transactional email. Failures are logged, never
// surfaced to the request path.
func SendEmail(toName, toEmail, subject, htmlContent string) {
	if EmailClient == nil {
		log.Printf("Email service not configured, skipping email to %s", toEmail)
		return
	}

	if err := EmailClient.send(toEmail, toName, subject, htmlContent); err != nil {
		log.Printf("🔥 Failed to send email to %s: %v", toEmail, err)
		return
	}
	log.Printf("✅ Email sent to %s: %s", toEmail, subject)
}
