package domain

import (
	"time"

	"github.com/estatehub/EstateHub-VisitService/pkg/types"
)

// Slot represents a bookable half-hour viewing interval for one property on one date
type Slot struct {
	ID         int64
	PropertyID int64
	VisitDate  time.Time // date-only, время обнулено
	StartTime  types.TimeString
	EndTime    types.TimeString
	CreatedBy  int64

	// Слот находится ровно в одном из трёх состояний:
	// открыт (booked=false, expired=false), забронирован или истёк
	Booked  bool
	Expired bool

	// VisitRequestID обратная ссылка на заявку, забронировавшую слот
	VisitRequestID *int64

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsOpen returns true if the slot can still be booked
func (s *Slot) IsOpen() bool {
	return !s.Booked && !s.Expired
}

// EndInstant returns the moment the slot's window closes
func (s *Slot) EndInstant() (time.Time, error) {
	return s.EndTime.OnDate(s.VisitDate)
}

// SlotKey natural key of a slot: at most one slot exists per key
type SlotKey struct {
	PropertyID int64
	VisitDate  time.Time
	StartTime  types.TimeString
}

// BlackoutDate represents a date on which a property accepts no slot bookings
type BlackoutDate struct {
	ID         int64
	PropertyID int64
	Date       time.Time // date-only
	CreatedBy  int64
	CreatedAt  time.Time
}
