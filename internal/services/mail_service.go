package services

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"net/textproto"

	"gopkg.in/gomail.v2"
)

// MailErrorKind classifies a delivery failure by its SMTP cause
type MailErrorKind int

const (
	MailErrorOther MailErrorKind = iota
	MailErrorConnection
	MailErrorAuth
	MailErrorRecipientRejected
)

// MailError wraps a delivery failure with its classification. Delivery
// failures never roll back the provider-side invoice they relate to.
type MailError struct {
	Kind MailErrorKind
	Err  error
}

// Error implements the error interface
func (e *MailError) Error() string {
	return fmt.Sprintf("mail delivery failed: %v", e.Err)
}

// Unwrap returns the underlying error
func (e *MailError) Unwrap() error {
	return e.Err
}

// Message returns the user-facing description for the failure kind
func (e *MailError) Message() string {
	switch e.Kind {
	case MailErrorConnection:
		return "Failed to connect to email server"
	case MailErrorAuth:
		return "Email authentication failed"
	case MailErrorRecipientRejected:
		return "Email address not found or rejected"
	default:
		return "Failed to send email"
	}
}

// MailSender abstracts the SMTP dial-and-send step so tests can stub it
type MailSender interface {
	DialAndSend(m ...*gomail.Message) error
}

// MailService emails invoice PDFs to customers
type MailService interface {
	SendInvoicePDF(to, customerName, title string, pdf []byte) error
}

type mailService struct {
	sender MailSender
	from   string
}

// NewMailService creates a MailService over an SMTP relay
func NewMailService(host string, port int, user, password, from string) MailService {
	return &mailService{
		sender: gomail.NewDialer(host, port, user, password),
		from:   from,
	}
}

// NewMailServiceWithSender creates a MailService with a custom sender
func NewMailServiceWithSender(sender MailSender, from string) MailService {
	return &mailService{
		sender: sender,
		from:   from,
	}
}

// SendInvoicePDF sends the invoice email with the PDF attached
func (s *mailService) SendInvoicePDF(to, customerName, title string, pdf []byte) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", fmt.Sprintf("Your Invoice for %s", title))
	m.SetBody("text/plain", fmt.Sprintf(
		"Dear %s,\n\nPlease find attached your invoice for %s.\n\nThank you for your business!",
		customerName, title,
	))
	if len(pdf) > 0 {
		m.Attach("invoice.pdf", gomail.SetCopyFunc(func(w io.Writer) error {
			_, err := io.Copy(w, bytes.NewReader(pdf))
			return err
		}))
	}

	if err := s.sender.DialAndSend(m); err != nil {
		mailErr := classifyMailError(err)
		log.Printf("MailService.SendInvoicePDF: %v (kind=%d)", mailErr.Err, mailErr.Kind)
		return mailErr
	}

	log.Printf("MailService.SendInvoicePDF: sent invoice %q to %s", title, to)
	return nil
}

// classifyMailError maps an SMTP failure onto the taxonomy: connection
// errors, authentication rejections (5.3x), and recipient rejections (550)
func classifyMailError(err error) *MailError {
	var protoErr *textproto.Error
	if errors.As(err, &protoErr) {
		switch {
		case protoErr.Code == 550:
			return &MailError{Kind: MailErrorRecipientRejected, Err: err}
		case protoErr.Code >= 530 && protoErr.Code <= 538:
			return &MailError{Kind: MailErrorAuth, Err: err}
		}
		return &MailError{Kind: MailErrorOther, Err: err}
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return &MailError{Kind: MailErrorConnection, Err: err}
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return &MailError{Kind: MailErrorConnection, Err: err}
	}

	return &MailError{Kind: MailErrorOther, Err: err}
}
