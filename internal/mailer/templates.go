package mailer

import (
	"fmt"
	"strings"

	"github.com/osteele/liquid"
)

// Email bodies follow the production templates: a plain notification for
// the business inbox and a styled confirmation for the submitter.
const notificationTemplate = `
<h1>New Contact Form Submission</h1>
<p><strong>Name:</strong> {{ name }}</p>
<p><strong>Email:</strong> {{ email }}</p>
<p><strong>Phone:</strong> {{ phone }}</p>
<p><strong>Message:</strong></p>
<p>{{ message }}</p>
`

const confirmationTemplate = `
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h1 style="color: #333;">Thank You, {{ name }}!</h1>
  <p>We've received your message and appreciate you reaching out to us.</p>
  <p>Our team will review your inquiry and get back to you as soon as possible, typically within 24-48 hours.</p>
  <hr style="border: none; border-top: 1px solid #eee; margin: 20px 0;" />
  <h3 style="color: #666;">Your Message:</h3>
  <p style="background: #f9f9f9; padding: 15px; border-radius: 5px;">{{ message }}</p>
  <hr style="border: none; border-top: 1px solid #eee; margin: 20px 0;" />
  <p style="color: #888; font-size: 14px;">
    If you have any urgent questions, feel free to call us at {{ contact_phone }} or message us on WhatsApp at {{ whatsapp }}.
  </p>
  <p style="color: #333;">Best regards,<br/>The {{ business_name }} Team</p>
</div>
`

// htmlEscaper covers the five characters that matter inside an HTML email
// body. The replacement order keeps & first so entities are not re-escaped.
var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#039;",
)

// EscapeHTML neutralizes user content destined for an HTML email body.
func EscapeHTML(s string) string {
	return htmlEscaper.Replace(s)
}

// SubmissionData carries the raw (unescaped) fields for rendering. The
// renderer escapes everything; callers must not pre-escape.
type SubmissionData struct {
	Name    string
	Email   string
	Phone   string
	Message string
}

// Renderer turns submission data into the two outbound email bodies using
// Liquid templates parsed once at construction.
type Renderer struct {
	notification *liquid.Template
	confirmation *liquid.Template

	businessName string
	contactPhone string
	whatsapp     string
}

// NewRenderer parses the email templates. The fixed contact channels appear
// in every confirmation email.
func NewRenderer(businessName, contactPhone, whatsapp string) (*Renderer, error) {
	engine := liquid.NewEngine()

	notif, err := engine.ParseString(notificationTemplate)
	if err != nil {
		return nil, fmt.Errorf("parse notification template: %w", err)
	}
	conf, err := engine.ParseString(confirmationTemplate)
	if err != nil {
		return nil, fmt.Errorf("parse confirmation template: %w", err)
	}

	return &Renderer{
		notification: notif,
		confirmation: conf,
		businessName: businessName,
		contactPhone: contactPhone,
		whatsapp:     whatsapp,
	}, nil
}

// safeMessage substitutes the placeholder the original form used for an
// empty optional message.
func safeMessage(message string) string {
	if strings.TrimSpace(message) == "" {
		return "No message provided"
	}
	return EscapeHTML(message)
}

// Notification renders the business-notification email. The subject carries
// the escaped submitter name.
func (r *Renderer) Notification(d SubmissionData) (subject, html string, err error) {
	safeName := EscapeHTML(d.Name)
	out, err := r.notification.RenderString(map[string]interface{}{
		"name":    safeName,
		"email":   EscapeHTML(d.Email),
		"phone":   EscapeHTML(d.Phone),
		"message": safeMessage(d.Message),
	})
	if err != nil {
		return "", "", fmt.Errorf("render notification: %w", err)
	}
	return fmt.Sprintf("New Contact Form Submission from %s", safeName), out, nil
}

// Confirmation renders the submitter-facing thank-you email.
func (r *Renderer) Confirmation(d SubmissionData) (subject, html string, err error) {
	out, err := r.confirmation.RenderString(map[string]interface{}{
		"name":          EscapeHTML(d.Name),
		"message":       safeMessage(d.Message),
		"business_name": r.businessName,
		"contact_phone": r.contactPhone,
		"whatsapp":      r.whatsapp,
	})
	if err != nil {
		return "", "", fmt.Errorf("render confirmation: %w", err)
	}
	return "Thank you for contacting us!", out, nil
}
