package mailer

import (
	"bytes"
	"errors"
	"testing"

	"cora-leaf-be/internal/entity"
	"cora-leaf-be/internal/pkg/logger"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"
)

type captureSender struct {
	sent []*gomail.Message
	err  error
}

func (c *captureSender) DialAndSend(m ...*gomail.Message) error {
	if c.err != nil {
		return c.err
	}
	c.sent = append(c.sent, m...)
	return nil
}

func TestEmailService_Deliver(t *testing.T) {
	capture := &captureSender{}
	svc := &emailService{dialer: capture, senderEmail: "leaf@cora.test", senderName: "CORA Leaf", logger: logger.NewNopLogger()}

	record := entity.EmailRecord{
		Id:                    uuid.New(),
		RecipientCustomer:     "Amazon",
		RecipientEmailAddress: "buyer@amazon.test",
		Subject:               "Renewal <draft>",
	}
	require.NoError(t, svc.Deliver(record))
	require.Len(t, capture.sent, 1)

	msg := capture.sent[0]
	assert.Equal(t, []string{"buyer@amazon.test"}, msg.GetHeader("To"))
	assert.Equal(t, []string{"Renewal <draft>"}, msg.GetHeader("Subject"))

	var buf bytes.Buffer
	_, err := msg.WriteTo(&buf)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Renewal &lt;draft&gt;")
}

func TestEmailService_DeliverFailure(t *testing.T) {
	svc := &emailService{dialer: &captureSender{err: errors.New("connection refused")}, logger: logger.NewNopLogger()}

	err := svc.Deliver(entity.EmailRecord{RecipientEmailAddress: "x@y.test", Subject: "s"})
	assert.EqualError(t, err, "connection refused")
}

func TestSimulatedService(t *testing.T) {
	assert.NoError(t, NewSimulatedEmailService(logger.NewNopLogger()).Deliver(entity.EmailRecord{}))
}
