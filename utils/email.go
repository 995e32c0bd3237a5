// utils/email.go
package utils

import (
	"fmt"
	"os"
	"strings"

	"github.com/keighl/postmark"

	"freshmart/models"
)

// EmailService handles sending emails using Postmark
type EmailService struct {
	client *postmark.Client
}

// NewEmailService initializes and returns a new EmailService instance
func NewEmailService() *EmailService {
	apiToken := os.Getenv("POSTMARK_API_TOKEN")
	if apiToken == "" {
		panic("POSTMARK_API_TOKEN is not set in environment variables")
	}
	client := postmark.NewClient(apiToken, "")
	return &EmailService{
		client: client,
	}
}

// SendEmail sends a basic email to the specified recipient
func (es *EmailService) SendEmail(toEmail, subject, htmlContent string) error {
	_, err := es.client.SendEmail(postmark.Email{
		From:     os.Getenv("EMAIL_SENDER"),
		To:       toEmail,
		Subject:  subject,
		HtmlBody: htmlContent,
		TextBody: htmlContent,
	})

	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}

// SendOrderConfirmationEmail sends an order confirmation email to the customer
func (es *EmailService) SendOrderConfirmationEmail(toEmail string, order models.Order) error {
	subject := fmt.Sprintf("Order Confirmed - %s", order.OrderNumber)
	htmlContent := fmt.Sprintf(
		"<strong>Dear Customer,</strong><br><br>Thank you for your purchase! Your order <strong>%s</strong> has been confirmed.<br><br>Total Amount: <strong>₹%.2f</strong><br>Payment Method: <strong>%s</strong><br><br>Thank you for shopping with FreshMart!",
		order.OrderNumber,
		order.Total,
		strings.ToUpper(order.PaymentMethod),
	)

	return es.SendEmail(toEmail, subject, htmlContent)
}

// SendOrderStatusEmail notifies the customer of an order status change
func (es *EmailService) SendOrderStatusEmail(toEmail string, order models.Order) error {
	subject := fmt.Sprintf("Order Update - %s", order.OrderNumber)
	htmlContent := fmt.Sprintf(
		"<strong>Dear Customer,</strong><br><br>Your order <strong>%s</strong> is now <strong>%s</strong>.<br><br>Thank you for shopping with FreshMart!",
		order.OrderNumber,
		strings.ReplaceAll(string(order.Status), "_", " "),
	)

	return es.SendEmail(toEmail, subject, htmlContent)
}
