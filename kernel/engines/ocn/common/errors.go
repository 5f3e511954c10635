package common

import (
	"github.com/pkg/errors"
)

// 错误类型，调用方通过errors.Is判断
var (
	ErrUnauthorized            = errors.New("unauthorized")
	ErrAlreadyRegistered       = errors.New("already registered")
	ErrPartyNotFound           = errors.New("party not found")
	ErrInvalidArgument         = errors.New("invalid argument")
	ErrSignatureRecoveryFailed = errors.New("signature recovery failed")
)

const (
	StatusSuccess                 = 200
	StatusInvalidArgument         = 400
	StatusSignatureRecoveryFailed = 401
	StatusUnauthorized            = 403
	StatusPartyNotFound           = 404
	StatusAlreadyRegistered       = 409
	StatusInternalError           = 500
)

// StatusOf 把错误类型映射为合约返回码
func StatusOf(err error) int {
	switch {
	case err == nil:
		return StatusSuccess
	case errors.Is(err, ErrInvalidArgument):
		return StatusInvalidArgument
	case errors.Is(err, ErrSignatureRecoveryFailed):
		return StatusSignatureRecoveryFailed
	case errors.Is(err, ErrUnauthorized):
		return StatusUnauthorized
	case errors.Is(err, ErrPartyNotFound):
		return StatusPartyNotFound
	case errors.Is(err, ErrAlreadyRegistered):
		return StatusAlreadyRegistered
	default:
		return StatusInternalError
	}
}

// InvalidArgf wrap ErrInvalidArgument with a message
func InvalidArgf(format string, args ...interface{}) error {
	return errors.Wrapf(ErrInvalidArgument, format, args...)
}
