// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package messaging

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/go-viper/mapstructure/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"github.com/linuxfoundation/lfx-v2-zoom-proxy-service/internal/domain"
	"github.com/linuxfoundation/lfx-v2-zoom-proxy-service/internal/domain/models"
	"github.com/linuxfoundation/lfx-v2-zoom-proxy-service/internal/logging"
	"github.com/linuxfoundation/lfx-v2-zoom-proxy-service/pkg/constants"
)

// INatsConn is the subset of *nats.Conn used by the [MessageBuilder].
type INatsConn interface {
	IsConnected() bool
	Publish(subj string, data []byte) error
}

// MessageBuilder builds lifecycle event messages and sends them to the NATS server.
type MessageBuilder struct {
	NatsConn INatsConn
}

// Ensure MessageBuilder implements domain.EventPublisher
var _ domain.EventPublisher = (*MessageBuilder)(nil)

// NewMessageBuilder creates a new MessageBuilder.
func NewMessageBuilder(natsConn INatsConn) *MessageBuilder {
	return &MessageBuilder{
		NatsConn: natsConn,
	}
}

// IsConnected reports whether the NATS connection is up.
func (m *MessageBuilder) IsConnected() bool {
	return m.NatsConn != nil && m.NatsConn.IsConnected()
}

// publish sends the message to the NATS server.
func (m *MessageBuilder) publish(ctx context.Context, subject string, data []byte) error {
	err := m.NatsConn.Publish(subject, data)
	if err != nil {
		slog.ErrorContext(ctx, "error sending message to NATS", logging.ErrKey, err, "subject", subject)
		return err
	}
	slog.DebugContext(ctx, "sent message to NATS", "subject", subject)
	return nil
}

// headers carries the request identity and the trace context along with the event.
func (m *MessageBuilder) headers(ctx context.Context) map[string]string {
	headers := map[string]string{
		"source": constants.ServiceName,
	}
	if requestID, ok := ctx.Value(constants.RequestIDContextID).(string); ok && requestID != "" {
		headers[constants.RequestIDHeader] = requestID
	}
	if principal, ok := ctx.Value(constants.PrincipalContextID).(string); ok && principal != "" {
		headers[constants.XOnBehalfOfHeader] = principal
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.MapCarrier(headers))
	return headers
}

// sendEventMessage wraps data in an [models.EventMessage] and publishes it.
// Struct payloads are sent as a generic JSON object so consumers do not depend on our types.
func (m *MessageBuilder) sendEventMessage(ctx context.Context, subject string, action models.MessageAction, data any) error {
	var payload any
	switch v := data.(type) {
	case string:
		payload = v
	default:
		dataBytes, err := json.Marshal(data)
		if err != nil {
			slog.ErrorContext(ctx, "error marshalling data into JSON", logging.ErrKey, err, "subject", subject)
			return err
		}

		var jsonData any
		if err := json.Unmarshal(dataBytes, &jsonData); err != nil {
			slog.ErrorContext(ctx, "error unmarshalling data into JSON", logging.ErrKey, err, "subject", subject)
			return err
		}

		if _, ok := jsonData.(map[string]any); !ok {
			payload = jsonData
			break
		}

		object := map[string]any{}
		config := mapstructure.DecoderConfig{
			TagName: "json",
			Result:  &object,
		}
		decoder, err := mapstructure.NewDecoder(&config)
		if err != nil {
			slog.ErrorContext(ctx, "error creating decoder", logging.ErrKey, err, "subject", subject)
			return err
		}
		if err := decoder.Decode(jsonData); err != nil {
			slog.ErrorContext(ctx, "error decoding data", logging.ErrKey, err, "subject", subject)
			return err
		}
		payload = object
	}

	message := models.EventMessage{
		Action:  action,
		Headers: m.headers(ctx),
		Data:    payload,
	}

	messageBytes, err := json.Marshal(message)
	if err != nil {
		slog.ErrorContext(ctx, "error marshalling message into JSON", logging.ErrKey, err, "subject", subject)
		return err
	}

	slog.DebugContext(ctx, "constructed event message",
		"subject", subject,
		"action", action,
	)

	return m.publish(ctx, subject, messageBytes)
}

// PublishMeetingCreated announces a newly mirrored meeting.
func (m *MessageBuilder) PublishMeetingCreated(ctx context.Context, meeting *models.MeetingRecord) error {
	return m.sendEventMessage(ctx, models.MeetingCreatedSubject, models.ActionCreated, meeting)
}

// PublishMeetingUpdated announces a meeting whose mirror was rewritten after an update.
func (m *MessageBuilder) PublishMeetingUpdated(ctx context.Context, meeting *models.MeetingRecord) error {
	return m.sendEventMessage(ctx, models.MeetingUpdatedSubject, models.ActionUpdated, meeting)
}

// PublishRecordingToggled announces a confirmed recording mode change.
func (m *MessageBuilder) PublishRecordingToggled(ctx context.Context, event models.RecordingToggledEvent) error {
	return m.sendEventMessage(ctx, models.MeetingRecordingToggledSubject, models.ActionRecordingToggled, event)
}

// PublishOccurrenceDeleted announces a deleted occurrence.
func (m *MessageBuilder) PublishOccurrenceDeleted(ctx context.Context, event models.OccurrenceDeletedEvent) error {
	return m.sendEventMessage(ctx, models.MeetingOccurrenceDeletedSubject, models.ActionOccurrenceDelete, event)
}

// PublishMeetingDeleted announces a soft deleted meeting record. The data is the record id.
func (m *MessageBuilder) PublishMeetingDeleted(ctx context.Context, meetingRecordID string) error {
	return m.sendEventMessage(ctx, models.MeetingDeletedSubject, models.ActionDeleted, meetingRecordID)
}

// PublishRecordingDeleted announces deleted cloud recordings.
func (m *MessageBuilder) PublishRecordingDeleted(ctx context.Context, event models.RecordingDeletedEvent) error {
	return m.sendEventMessage(ctx, models.RecordingDeletedSubject, models.ActionDeleted, event)
}
