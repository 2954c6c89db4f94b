package domain

// Slot scheduling constants
const (
	// SlotDurationMinutes длительность одного слота просмотра
	SlotDurationMinutes = 30

	// HorizonDays глубина горизонта бронирования: слоты и брони
	// допустимы только в окне [сегодня, сегодня + HorizonDays]
	HorizonDays = 30

	// SameDayNoticeMinutes минимальный запас времени до начала слота
	// при создании слота на сегодняшнюю дату
	SameDayNoticeMinutes = 10
)

// Business validation constants
const (
	MaxNoteLength     = 500
	MaxTimesPerCreate = 48 // слоты по 30 минут, больше суток не бывает
)

// Time format constants
const (
	TimeFormat     = "15:04"            // HH:MM
	DateFormat     = "2006-01-02"       // YYYY-MM-DD
	DateTimeFormat = "2006-01-02T15:04" // YYYY-MM-DDTHH:MM
)

// Причины пропуска слота при пакетном создании
const (
	SkipReasonDuplicate   = "duplicate"
	SkipReasonTooSoon     = "too_soon"
	SkipReasonInvalidTime = "invalid_time"
)
