package mailer

import (
	"fmt"
	"os"

	"gopkg.in/gomail.v2"
)

type SessionSummary struct {
	FullName     string
	Role         string
	Questions    int
	AverageScore float64
	AnalysisURL  string
}

type IEmailService interface {
	SendSessionSummary(toEmail string, summary SessionSummary) error
}

type emailService struct {
	dialer      *gomail.Dialer
	senderEmail string
	frontendURL string
}

func NewEmailService(host string, port int, username, password, senderEmail string) IEmailService {
	d := gomail.NewDialer(host, port, username, password)

	frontendURL := os.Getenv("FRONTEND_URL")

	return &emailService{
		dialer:      d,
		senderEmail: senderEmail,
		frontendURL: frontendURL,
	}
}

func (s *emailService) SendSessionSummary(toEmail string, summary SessionSummary) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.senderEmail)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", fmt.Sprintf("Your %s interview practice summary", summary.Role))

	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Nice work, %s!</h2>
			<p>You completed a practice interview for the role of <b>%s</b>.</p>
			<p>Questions answered: <b>%d</b></p>
			<p>Average score: <b>%.2f</b></p>
			<p><a href="%s" style="background-color: #007BFF; color: white; padding: 10px 20px; text-decoration: none; border-radius: 5px; display: inline-block;">View full analysis</a></p>
			<p>Keep practicing and good luck with the real thing.</p>
		</div>
	`, summary.FullName, summary.Role, summary.Questions, summary.AverageScore, summary.AnalysisURL)

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		fmt.Printf("[MAILER ERROR] Failed to send summary to %s: %v\n", toEmail, err)
		return err
	}

	fmt.Printf("[MAILER] Session summary sent to %s\n", toEmail)
	return nil
}
