package mail

import (
	"bytes"
	"context"
	"errors"
	"net"
	"net/textproto"
	"strconv"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gomail "gopkg.in/mail.v2"

	"github.com/pixelvide/postcli/pkg/config"
)

func TestFactory(t *testing.T) {
	complete := config.MailConfig{
		Address:  "me@example.com",
		Password: "secret",
		Server:   "smtp.example.com",
		Port:     "587",
	}

	tests := []struct {
		name      string
		config    config.MailConfig
		wantType  interface{}
		expectErr bool
	}{
		{
			name:     "smtp",
			config:   withMailer(complete, "smtp"),
			wantType: &SMTPMailer{},
		},
		{
			name:     "log",
			config:   config.MailConfig{Mailer: "log"},
			wantType: &LogMailer{},
		},
		{
			name:      "smtp without credentials",
			config:    config.MailConfig{Mailer: "smtp"},
			expectErr: true,
		},
		{
			name:      "invalid",
			config:    withMailer(complete, "invalid"),
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewMailer(tt.config)
			if tt.expectErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.IsType(t, tt.wantType, got)
			}
		})
	}
}

func withMailer(cfg config.MailConfig, mailer string) config.MailConfig {
	cfg.Mailer = mailer
	return cfg
}

func TestLogMailer_Send(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)
	ctx := logger.WithContext(context.Background())

	mailer := NewLogMailer("test@example.com")
	require.NoError(t, mailer.Verify(ctx))

	err := mailer.Send(ctx, &Message{
		FromName: "Test Sender",
		To:       "recipient@example.com",
		Subject:  "Test Subject",
		Body:     "Test Body",
	})
	assert.NoError(t, err)

	output := buf.String()
	assert.Contains(t, output, "Sending email")
	assert.Contains(t, output, "Test Sender <test@example.com>")
	assert.Contains(t, output, "recipient@example.com")
	assert.Contains(t, output, "Test Subject")
	assert.Contains(t, output, "Test Body")
}

func TestSMTPMailer_Build(t *testing.T) {
	m := NewSMTPMailer(config.SMTPConfig{Address: "me@example.com", Server: "smtp.example.com", Port: 587})

	msg := m.build(&Message{
		FromName: "Ada",
		To:       "to@example.com",
		Subject:  "Hello",
		Body:     "Body text",
	})

	from := msg.GetHeader("From")
	require.Len(t, from, 1)
	assert.Contains(t, from[0], "Ada")
	assert.Contains(t, from[0], "<me@example.com>")
	assert.Equal(t, []string{"to@example.com"}, msg.GetHeader("To"))
	assert.Equal(t, []string{"Hello"}, msg.GetHeader("Subject"))

	var out bytes.Buffer
	_, err := msg.WriteTo(&out)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "text/plain")
	assert.Contains(t, out.String(), "Body text")

	plain := m.build(&Message{To: "to@example.com"})
	assert.Equal(t, []string{"me@example.com"}, plain.GetHeader("From"))
}

func TestSMTPMailer_VerifyUnreachable(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := ln.Addr().(*net.TCPAddr).Port
	require.NoError(t, ln.Close())

	m := NewSMTPMailer(config.SMTPConfig{
		Address:  "me@example.com",
		Password: "secret",
		Server:   "127.0.0.1",
		Port:     port,
	})

	err = m.Verify(context.Background())
	require.Error(t, err)

	var transportErr *TransportError
	assert.ErrorAs(t, err, &transportErr)
	assert.False(t, IsAuth(err))
	assert.Contains(t, err.Error(), strconv.Itoa(port))
}

func TestSMTPMailer_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	m := NewSMTPMailer(config.SMTPConfig{Server: "127.0.0.1", Port: 1})
	assert.ErrorIs(t, m.Send(ctx, &Message{To: "a@b.c"}), context.Canceled)
	assert.ErrorIs(t, m.Verify(ctx), context.Canceled)
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		info ErrorInfo
		want Kind
	}{
		{"535 credentials", ErrorInfo{Code: 535, Message: "5.7.8 Username and Password not accepted"}, KindAuth},
		{"534 app password", ErrorInfo{Code: 534, Message: "5.7.9 Application-specific password required"}, KindAuth},
		{"530 must issue starttls", ErrorInfo{Code: 530, Message: "5.7.0 Must issue a STARTTLS command first"}, KindAuth},
		{"message mentions auth", ErrorInfo{Message: "smtp: server doesn't support AUTH"}, KindAuth},
		{"author false positive", ErrorInfo{Code: 550, Message: "message rejected: author header missing"}, KindAuth},
		{"mailbox unavailable", ErrorInfo{Code: 550, Message: "5.1.1 mailbox unavailable"}, KindTransport},
		{"network", ErrorInfo{Message: "dial tcp: connection refused"}, KindTransport},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.info))
		})
	}
}

func TestWrap(t *testing.T) {
	assert.NoError(t, Wrap(nil))

	protoErr := &textproto.Error{Code: 535, Msg: "5.7.8 Username and Password not accepted"}
	err := Wrap(protoErr)
	var authErr *AuthError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, 535, authErr.Info.Code)
	assert.Equal(t, protoErr.Error(), err.Error())
	assert.ErrorIs(t, err, protoErr)
	assert.Same(t, err, Wrap(err))

	cause := &textproto.Error{Code: 550, Msg: "5.1.1 mailbox unavailable"}
	err = Wrap(&gomail.SendError{Index: 0, Cause: cause})
	var transportErr *TransportError
	require.ErrorAs(t, err, &transportErr)
	assert.Equal(t, 550, transportErr.Info.Code)
	assert.Equal(t, "550 5.1.1 mailbox unavailable", err.Error())

	err = Wrap(errors.New("i/o timeout"))
	require.ErrorAs(t, err, &transportErr)
	assert.Equal(t, 0, transportErr.Info.Code)
	assert.Equal(t, "transport", KindTransport.String())
	assert.Equal(t, "auth", KindAuth.String())
}
