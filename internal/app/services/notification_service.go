package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/courseregistry/internal/pkg/metrics"
	"github.com/yigit/courseregistry/internal/pkg/websocket"
)

// NoticePublisher fans a notice out to every API instance
type NoticePublisher interface {
	Publish(ctx context.Context, studentIDs []int64, notice websocket.Notice) error
}

// NoticeDeliverer pushes a notice to sockets connected to this instance
type NoticeDeliverer interface {
	Notify(studentIDs []int64, notice websocket.Notice)
	ConnectedCount(studentID int64) int
}

// NotificationService tells subscribers that a seat came free
type NotificationService interface {
	AnnounceSeats(ctx context.Context, releases []SeatRelease)
}

type notificationServiceImpl struct {
	hub       NoticeDeliverer
	publisher NoticePublisher
	metrics   *metrics.Metrics
	logger    zerolog.Logger
	now       func() time.Time
}

// NewNotificationService creates a NotificationService. publisher may be nil,
// in which case notices only reach sockets held by this process.
func NewNotificationService(
	hub NoticeDeliverer,
	publisher NoticePublisher,
	m *metrics.Metrics,
	logger zerolog.Logger,
) NotificationService {
	return &notificationServiceImpl{
		hub:       hub,
		publisher: publisher,
		metrics:   m,
		logger:    logger,
		now:       time.Now,
	}
}

// AnnounceSeats logs and delivers one notice per released seat that had subscribers
func (s *notificationServiceImpl) AnnounceSeats(ctx context.Context, releases []SeatRelease) {
	for _, r := range releases {
		s.metrics.ObserveSeatReleased(1)
		if len(r.Subscribers) == 0 {
			continue
		}

		s.logger.Info().
			Int64("courseID", r.CourseID).
			Int("subscribers", len(r.Subscribers)).
			Msgf("Notifying %d subscriber(s) that a seat is now available for %s.", len(r.Subscribers), r.CourseName)

		notice := websocket.Notice{
			Type:       websocket.NoticeSeatAvailable,
			CourseID:   r.CourseID,
			CourseName: r.CourseName,
			Timestamp:  s.now(),
		}
		s.deliver(ctx, r.Subscribers, notice)
		s.metrics.ObserveNotices(len(r.Subscribers))
	}
}

func (s *notificationServiceImpl) deliver(ctx context.Context, studentIDs []int64, notice websocket.Notice) {
	if s.publisher != nil {
		err := s.publisher.Publish(ctx, studentIDs, notice)
		if err == nil {
			return
		}
		s.logger.Warn().Err(err).Int64("courseID", notice.CourseID).Msg("Failed to publish seat notice, delivering locally")
	}
	if s.hub == nil {
		return
	}
	online := 0
	for _, id := range studentIDs {
		if s.hub.ConnectedCount(id) > 0 {
			online++
		}
	}
	s.logger.Debug().
		Int64("courseID", notice.CourseID).
		Int("subscribers", len(studentIDs)).
		Int("online", online).
		Msg("Delivering seat notice to local sockets")
	s.hub.Notify(studentIDs, notice)
}
