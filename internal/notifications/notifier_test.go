package notifications

import (
	"context"
	"fmt"
	"testing"

	"aegisaccounts/backend/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

// MockNotifier captura os envios para inspeção nos testes.
type MockNotifier struct {
	Sent []MockEmail
	Err  error
}

type MockEmail struct {
	To       string
	Subject  string
	BodyHTML string
	BodyText string
}

func (m *MockNotifier) Send(ctx context.Context, to, subject, bodyHTML, bodyText string) error {
	if m.Err != nil {
		return m.Err
	}
	m.Sent = append(m.Sent, MockEmail{To: to, Subject: subject, BodyHTML: bodyHTML, BodyText: bodyText})
	return nil
}

func withMockNotifier(t *testing.T) *MockNotifier {
	mockNotifier := &MockNotifier{}
	previous := DefaultEmailNotifier
	DefaultEmailNotifier = mockNotifier
	t.Cleanup(func() { DefaultEmailNotifier = previous })
	return mockNotifier
}

func TestSendEmailNotification_SimulatedWhenUnconfigured(t *testing.T) {
	previous := DefaultEmailNotifier
	DefaultEmailNotifier = nil
	t.Cleanup(func() { DefaultEmailNotifier = previous })

	err := SendEmailNotification(context.Background(), "alice@example.com", "Subject", "<p>hi</p>", "hi")
	assert.NoError(t, err, "unconfigured notifier must simulate, not fail")
}

func TestSendVerificationEmail_LinkFormat(t *testing.T) {
	mockNotifier := withMockNotifier(t)

	user := &models.User{ID: uuid.New(), Email: "alice@example.com", Name: "Alice"}
	token := &models.VerificationToken{Token: "tok-verify", UserID: user.ID}

	SendVerificationEmail(context.Background(), user, token)

	assert.Len(t, mockNotifier.Sent, 1)
	sent := mockNotifier.Sent[0]
	assert.Equal(t, "alice@example.com", sent.To)
	assert.Equal(t, "Registration Confirmation", sent.Subject)
	assert.Contains(t, sent.BodyText, "/auth/confirm?token=tok-verify")
	assert.Contains(t, sent.BodyHTML, "/auth/confirm?token=tok-verify")
}

func TestSendPasswordResetEmail_LinkFormat(t *testing.T) {
	mockNotifier := withMockNotifier(t)

	user := &models.User{ID: uuid.New(), Email: "alice@example.com", Name: "Alice"}
	token := &models.PasswordResetToken{Token: "tok-reset", UserID: user.ID}

	SendPasswordResetEmail(context.Background(), user, token)

	assert.Len(t, mockNotifier.Sent, 1)
	sent := mockNotifier.Sent[0]
	assert.Equal(t, "alice@example.com", sent.To)
	assert.Equal(t, "Password Reset Request", sent.Subject)

	// O link carrega o par id+token.
	expectedQuery := fmt.Sprintf("/auth/reset-password?id=%s&token=tok-reset", user.ID.String())
	assert.Contains(t, sent.BodyText, expectedQuery)
	assert.Contains(t, sent.BodyHTML, expectedQuery)
}

func TestSendVerificationEmail_NotifierFailureIsSwallowed(t *testing.T) {
	mockNotifier := withMockNotifier(t)
	mockNotifier.Err = fmt.Errorf("smtp down")

	user := &models.User{ID: uuid.New(), Email: "alice@example.com"}
	token := &models.VerificationToken{Token: "tok-verify", UserID: user.ID}

	// O despacho apenas loga a falha; o fluxo de registro não depende dele.
	SendVerificationEmail(context.Background(), user, token)
	assert.Empty(t, mockNotifier.Sent)
}
