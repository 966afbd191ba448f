package errors

import "errors"

var (
	ErrUnauthorized       = errors.New("caller is not authorized")
	ErrPaused             = errors.New("verification is paused")
	ErrUnknownClaim       = errors.New("no voting round exists for claim")
	ErrRoundAlreadyExists = errors.New("voting round already exists for claim")
	ErrAlreadyVoted       = errors.New("guardian already voted on claim")
	ErrNotStaked          = errors.New("guardian has no eligible stake")
	ErrVotingClosed       = errors.New("voting round is closed")
	ErrInvalidVote        = errors.New("vote cannot be accepted")
	ErrInsufficientStake  = errors.New("stake amount is insufficient")
	ErrInvalidAmount      = errors.New("amount must be greater than zero")
	ErrInvalidInput       = errors.New("invalid input")
	ErrVoteNotFound       = errors.New("vote not found")
	ErrIntegrationFailure = errors.New("external collaborator call failed")
)
