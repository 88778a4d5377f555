package domain

import "errors"

// Draft errors. Turn and transition violations are user-correctable and are
// surfaced as structured rejections, never as crashes.
var (
	ErrTurnViolation            = errors.New("it is not this manager's turn")
	ErrSlotAlreadyFilled        = errors.New("slot has already been picked")
	ErrInvalidTransition        = errors.New("invalid draft state transition")
	ErrInsufficientPlayers      = errors.New("not enough available players to fill the remaining slots")
	ErrManagerAssignmentMissing = errors.New("draft order has unassigned positions")
	ErrPlayerTaken              = errors.New("player has already been drafted")
	ErrDraftComplete            = errors.New("draft is already complete")
)

// Configuration and lookup errors.
var (
	ErrInvalidConfiguration = errors.New("invalid league configuration")
	ErrInvalidRole          = errors.New("invalid player role")
	ErrLeagueNotFound       = errors.New("league not found")
	ErrManagerNotFound      = errors.New("manager not found")
	ErrPlayerNotFound       = errors.New("player not found")
	ErrLeagueFull           = errors.New("league already has its full manager count")
)
