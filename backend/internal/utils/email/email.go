package email

import (
	"context"
	"crypto/rand"
	"crypto/tls"
	"encoding/hex"
	"fmt"
	"mime"
	"net"
	"net/smtp"
	"strings"
	"time"

	"github.com/clientspot/clientspot/shared/config"
	"github.com/clientspot/clientspot/shared/logger"
)

const defaultTimeout = 10 * time.Second

// Sender delivers plain-text notifications over SMTP.
type Sender struct {
	config config.Email
	auth   smtp.Auth
	now    func() time.Time
}

func New(cfg config.Email) *Sender {
	return &Sender{
		config: cfg,
		auth:   smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.SMTPServer),
		now:    time.Now,
	}
}

func (e *Sender) Send(ctx context.Context, recipientEmail, subject, body string) error {
	ctx, cancel := context.WithTimeout(ctx, e.timeout())
	defer cancel()

	msg := e.buildMessage(recipientEmail, subject, body)
	address := fmt.Sprintf("%s:%d", e.config.SMTPServer, e.config.SMTPPort)

	// Port 465 = implicit TLS, otherwise STARTTLS
	if e.config.SMTPPort == 465 {
		return e.sendImplicitTLS(ctx, address, recipientEmail, msg)
	}
	return e.sendSTARTTLS(ctx, address, recipientEmail, msg)
}

func (e *Sender) timeout() time.Duration {
	if e.config.Timeout <= 0 {
		return defaultTimeout
	}
	return e.config.Timeout
}

func (e *Sender) sendImplicitTLS(ctx context.Context, address, recipientEmail string, msg []byte) error {
	dialer := &tls.Dialer{Config: &tls.Config{ServerName: e.config.SMTPServer}}
	conn, err := dialer.DialContext(ctx, "tcp", address)
	if err != nil {
		logger.Log.Error("failed to connect to SMTP server (implicit TLS)", "address", address, "error", err)
		return err
	}
	defer conn.Close()
	setDeadline(ctx, conn)

	client, err := smtp.NewClient(conn, e.config.SMTPServer)
	if err != nil {
		logger.Log.Error("failed to create SMTP client", "error", err)
		return err
	}
	defer client.Close()

	return e.sendViaClient(client, recipientEmail, msg)
}

func (e *Sender) sendSTARTTLS(ctx context.Context, address, recipientEmail string, msg []byte) error {
	var dialer net.Dialer
	conn, err := dialer.DialContext(ctx, "tcp", address)
	if err != nil {
		logger.Log.Error("failed to connect to SMTP server", "address", address, "error", err)
		return err
	}
	defer conn.Close()
	setDeadline(ctx, conn)

	client, err := smtp.NewClient(conn, e.config.SMTPServer)
	if err != nil {
		logger.Log.Error("failed to create SMTP client", "error", err)
		return err
	}
	defer client.Close()

	if err = client.StartTLS(&tls.Config{ServerName: e.config.SMTPServer}); err != nil {
		logger.Log.Error("failed to start TLS", "error", err)
		return err
	}

	return e.sendViaClient(client, recipientEmail, msg)
}

func setDeadline(ctx context.Context, conn net.Conn) {
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}
}

func (e *Sender) sendViaClient(client *smtp.Client, recipientEmail string, msg []byte) error {
	if err := client.Auth(e.auth); err != nil {
		logger.Log.Error("SMTP authentication failed", "error", err)
		return err
	}
	if err := client.Mail(e.config.Username); err != nil {
		logger.Log.Error("failed to set sender", "error", err)
		return err
	}
	if err := client.Rcpt(recipientEmail); err != nil {
		logger.Log.Error("failed to set recipient", "recipient", recipientEmail, "error", err)
		return err
	}

	w, err := client.Data()
	if err != nil {
		logger.Log.Error("failed to get data writer", "error", err)
		return err
	}
	if _, err = w.Write(msg); err != nil {
		logger.Log.Error("failed to write message", "error", err)
		return err
	}
	if err = w.Close(); err != nil {
		logger.Log.Error("failed to close data writer", "error", err)
		return err
	}

	return client.Quit()
}

func (e *Sender) messageID() string {
	domain := "localhost"
	if at := strings.LastIndexByte(e.config.Username, '@'); at >= 0 && at < len(e.config.Username)-1 {
		domain = e.config.Username[at+1:]
	}
	b := make([]byte, 8)
	_, _ = rand.Read(b)
	return fmt.Sprintf("<%d.%s@%s>", e.now().UnixNano(), hex.EncodeToString(b), domain)
}

func (e *Sender) buildMessage(recipient, subject, body string) []byte {
	encodedSubject := mime.QEncoding.Encode("utf-8", subject)
	encodedSenderName := mime.QEncoding.Encode("utf-8", e.config.SenderName)

	return fmt.Appendf(nil,
		"Message-ID: %s\r\n"+
			"Date: %s\r\n"+
			"To: %s\r\n"+
			"From: %s <%s>\r\n"+
			"Subject: %s\r\n"+
			"MIME-Version: 1.0\r\n"+
			"Content-Type: text/plain; charset=\"utf-8\"\r\n"+
			"\r\n"+
			"%s",
		e.messageID(), e.now().Format(time.RFC1123Z), recipient, encodedSenderName, e.config.Username, encodedSubject, body,
	)
}

// LogSender writes notifications to the log instead of delivering them.
// Selected with email.driver: log for local development.
type LogSender struct{}

func (LogSender) Send(ctx context.Context, recipientEmail, subject, body string) error {
	logger.Log.Info("email not delivered (log driver)", "to", recipientEmail, "subject", subject, "body", body)
	return nil
}
