package models

const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
	StatusCompleted = "completed"
)

const (
	ModeHourly   = "hourly"
	ModeFullDay  = "full_day"
	ModeMultiDay = "multi_day"
)

const (
	RoleStaff  = "staff"
	RoleVendor = "vendor"
)

const (
	// FullDayStart время начала для бронирований на весь день
	FullDayStart = "00:00"

	// FullDayEnd время окончания для бронирований на весь день
	FullDayEnd = "23:59"

	// DefaultSnapshotTTL время жизни снапшота бронирований в кэше (секунды)
	DefaultSnapshotTTL = 2 * 60

	// DefaultExportRangeMonthsBefore/After окно экспорта расписания
	DefaultExportRangeMonthsBefore = 1
	DefaultExportRangeMonthsAfter  = 2

	// WorkerQueueSize размер очереди воркера экспорта
	WorkerQueueSize = 100
)

// ActiveStatuses are the booking statuses that occupy a subject for
// conflict detection. Cancelled bookings never conflict.
var ActiveStatuses = []string{StatusPending, StatusConfirmed, StatusCompleted}
