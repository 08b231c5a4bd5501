package apperrors

import (
	"errors"
	"fmt"
)

// Kind 錯誤分類，讓呼叫端可以區分「輸入錯誤」、「狀態衝突」與「系統故障」
type Kind int

const (
	KindInfrastructure Kind = iota
	KindValidation
	KindNotFound
	KindConflict
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	default:
		return "infrastructure"
	}
}

// Error 帶有分類的 sentinel error，以指標比較，可直接配合 errors.Is 使用
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func newError(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

// 輸入錯誤：在寫入任何資料之前就會擋下
var (
	ErrInvalidInput    = newError(KindValidation, "invalid input")
	ErrInvalidQuantity = newError(KindValidation, "invalid quantity")
	ErrMissingContact  = newError(KindValidation, "phone or email is required")
	ErrInvalidScore    = newError(KindValidation, "scores must not be negative")
	ErrInvalidPoints   = newError(KindValidation, "player points must not be negative")
)

var (
	ErrEventNotFound    = newError(KindNotFound, "event not found")
	ErrMatchNotFound    = newError(KindNotFound, "match not found")
	ErrSeatNotFound     = newError(KindNotFound, "seat not found")
	ErrCustomerNotFound = newError(KindNotFound, "customer not found")
	ErrSaleNotFound     = newError(KindNotFound, "sale record not found")
	ErrTeamNotFound     = newError(KindNotFound, "team not found")
	ErrPlayerNotFound   = newError(KindNotFound, "player not found")
)

// 狀態衝突：在持有鎖時發現，交易會 rollback
var (
	ErrEventClosed           = newError(KindConflict, "event is closed for sale")
	ErrInvalidMatch          = newError(KindConflict, "match does not belong to event or is not scheduled")
	ErrSeatAlreadySold       = newError(KindConflict, "seat already sold for this event")
	ErrAlreadyRefunded       = newError(KindConflict, "sale already refunded")
	ErrMatchAlreadyCompleted = newError(KindConflict, "match already completed")
	ErrIncompleteRoster      = newError(KindConflict, "match must have exactly two teams")
	ErrMissingSide           = newError(KindConflict, "match is missing a home or away team")
)

var (
	ErrInfrastructure      = newError(KindInfrastructure, "infrastructure failure")
	ErrLockTimeout         = newError(KindInfrastructure, "lock wait timeout")
	ErrInternalServerError = newError(KindInfrastructure, "internal server error")
)

// InfraError 包裝底層（連線、儲存）錯誤，errors.Is(err, ErrInfrastructure) 為 true，且保留原始錯誤
type InfraError struct {
	Op  string
	Err error
}

func (e *InfraError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *InfraError) Unwrap() []error {
	return []error{ErrInfrastructure, e.Err}
}

// Infra 把 err 包成 infrastructure 錯誤；本套件的 app error 原樣回傳
func Infra(op string, err error) error {
	if err == nil {
		return nil
	}
	var appErr *Error
	if errors.As(err, &appErr) {
		return err
	}
	return &InfraError{Op: op, Err: err}
}

// KindOf 回傳錯誤分類；非本套件的錯誤一律視為 infrastructure
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInfrastructure
}
