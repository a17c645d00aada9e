package services

import "errors"

var (
	ErrNotFound            = errors.New("record not found")
	ErrEmptyContent        = errors.New("message content is empty")
	ErrInvalidParticipants = errors.New("a conversation needs at least two distinct participants")
	ErrNotParticipant      = errors.New("user is not a participant of this conversation")
	ErrSlotTaken           = errors.New("the dentist already has an appointment in this time window")
	ErrInvalidTimeRange    = errors.New("appointment end time must be after start time")
	ErrInvalidStatus       = errors.New("unknown appointment status")
)
