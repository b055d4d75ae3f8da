package repositories

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/cockroachdb/errors"
	"github.com/google/uuid"

	"github.com/pharmelior/deviation-backend/models"
	"github.com/pharmelior/deviation-backend/utils"
)

const TABLE_NOTIFICATIONS = "notifications"

// NotificationRepository persists notifications and, when a webhook endpoint
// is configured, forwards them to it. Delivery is best-effort throughout: the
// workflow transition that triggered the notification never depends on it.
type NotificationRepository struct {
	executorGetter ExecutorGetter
	webhookUrl     string
	httpClient     *http.Client
}

func NewNotificationRepository(executorGetter ExecutorGetter, webhookUrl string) *NotificationRepository {
	return &NotificationRepository{
		executorGetter: executorGetter,
		webhookUrl:     webhookUrl,
		httpClient:     &http.Client{Timeout: 5 * time.Second},
	}
}

func (repo *NotificationRepository) Notify(ctx context.Context, userId models.UserId,
	title, message string, severity models.NotificationSeverity, caseId *string,
) error {
	notification := models.Notification{
		Id:       uuid.NewString(),
		UserId:   userId,
		Title:    title,
		Message:  message,
		Severity: severity,
		CaseId:   caseId,
	}

	query := NewQueryBuilder().
		Insert(TABLE_NOTIFICATIONS).
		Columns("id", "user_id", "title", "message", "severity", "case_id").
		Values(
			notification.Id,
			string(notification.UserId),
			notification.Title,
			notification.Message,
			string(notification.Severity),
			notification.CaseId,
		)

	if _, err := ExecBuilder(ctx, repo.executorGetter.GetExecutor(), query); err != nil {
		return errors.Wrap(err, "failed to store notification")
	}

	if repo.webhookUrl != "" {
		repo.forwardToWebhook(ctx, notification)
	}
	return nil
}

func (repo *NotificationRepository) forwardToWebhook(ctx context.Context, notification models.Notification) {
	logger := utils.LoggerFromContext(ctx)

	payload, err := json.Marshal(map[string]any{
		"id":       notification.Id,
		"user_id":  string(notification.UserId),
		"title":    notification.Title,
		"message":  notification.Message,
		"severity": string(notification.Severity),
		"case_id":  notification.CaseId,
	})
	if err != nil {
		logger.WarnContext(ctx, "could not serialize notification webhook payload", "error", err)
		return
	}

	err = retry.Do(
		func() error {
			req, err := http.NewRequestWithContext(ctx, http.MethodPost,
				repo.webhookUrl, bytes.NewReader(payload))
			if err != nil {
				return retry.Unrecoverable(err)
			}
			req.Header.Set("Content-Type", "application/json")

			resp, err := repo.httpClient.Do(req)
			if err != nil {
				return err
			}
			defer resp.Body.Close()
			if resp.StatusCode >= 400 {
				return errors.Newf("notification webhook returned status %d", resp.StatusCode)
			}
			return nil
		},
		retry.Attempts(3),
		retry.Delay(200*time.Millisecond),
		retry.Context(ctx),
	)
	if err != nil {
		logger.WarnContext(ctx, "notification webhook delivery failed",
			"notification_id", notification.Id,
			"error", err)
	}
}
