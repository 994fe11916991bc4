package queue

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/myroutine-backend/internal/config"
)

type recordingDeliverer struct {
	got []EmailMessage
	err error
}

func (r *recordingDeliverer) Deliver(msg EmailMessage) error {
	r.got = append(r.got, msg)
	return r.err
}

func TestHandleMessage(t *testing.T) {
	d := &recordingDeliverer{}
	body, err := json.Marshal(EmailMessage{To: "ana@example.com", Subject: "Reset", HTMLBody: "<a>link</a>"})
	require.NoError(t, err)

	require.NoError(t, handleMessage(body, d))
	require.Len(t, d.got, 1)
	assert.Equal(t, "ana@example.com", d.got[0].To)
}

func TestHandleMessageRejectsBadPayloads(t *testing.T) {
	d := &recordingDeliverer{}

	require.Error(t, handleMessage([]byte("{not json"), d))
	require.Error(t, handleMessage([]byte(`{"subject":"no recipient"}`), d))
	assert.Empty(t, d.got)

	d.err = errors.New("smtp down")
	err := handleMessage([]byte(`{"to":"bo@example.com"}`), d)
	require.ErrorIs(t, err, d.err)
}

func TestMailerCompose(t *testing.T) {
	m := NewMailer(config.SMTPConfig{Host: "smtp.example.com", Port: 587, From: "noreply@example.com"})

	msg := m.compose(EmailMessage{To: "ana@example.com", Subject: "Reset your password", HTMLBody: "<p>hi</p>"})
	assert.Equal(t, []string{"noreply@example.com"}, msg.GetHeader("From"))
	assert.Equal(t, []string{"ana@example.com"}, msg.GetHeader("To"))
	assert.Equal(t, []string{"Reset your password"}, msg.GetHeader("Subject"))
}
