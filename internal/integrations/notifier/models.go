package notifier

import "time"

// Типы событий, публикуемых сервисом
const (
	EventVisitBooked      = "visit.booked"
	EventVisitApproved    = "visit.approved"
	EventVisitRejected    = "visit.rejected"
	EventVisitAttendance  = "visit.attendance"
	EventVisitRescheduled = "visit.rescheduled"
)

// Event сообщение для диспетчера уведомлений
// Доставка (email, push) - забота потребителя очереди, не этого сервиса
type Event struct {
	EventID     string                 `json:"event_id"`
	EventType   string                 `json:"event_type"`
	RecipientID int64                  `json:"recipient_id"`
	Payload     map[string]interface{} `json:"payload"`
	OccurredAt  time.Time              `json:"occurred_at"`
}
