package steem

import (
	"errors"
)

var (
	ErrNotFound   = errors.New("referenced content or account not found on chain")
	ErrBadRef     = errors.New("invalid author/permlink reference")
	ErrRPCFailure = errors.New("ledger node RPC failure")
)
