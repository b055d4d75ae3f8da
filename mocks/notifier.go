package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/pharmelior/deviation-backend/models"
)

type Notifier struct {
	mock.Mock
}

func (n *Notifier) Notify(ctx context.Context, userId models.UserId, title, message string,
	severity models.NotificationSeverity, caseId *string,
) error {
	args := n.Called(ctx, userId, title, message, severity, caseId)
	return args.Error(0)
}
