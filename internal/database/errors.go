package database

import "errors"

var (
	// ErrConflict означает, что запрошенные даты уже заняты
	ErrConflict = errors.New("subject is already booked for the requested dates")

	// ErrPastDate дата бронирования в прошлом
	ErrPastDate = errors.New("booking date is in the past")

	// ErrDateTooFar дата бронирования слишком далеко в будущем
	ErrDateTooFar = errors.New("booking date is too far in the future")

	// ErrConcurrentModification версия записи изменилась
	ErrConcurrentModification = errors.New("booking was modified concurrently")

	// ErrNotFound запись не найдена
	ErrNotFound = errors.New("record not found")
)
