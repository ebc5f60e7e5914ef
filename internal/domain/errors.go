package domain

import "errors"

// Kind classifies a domain failure so transports can map it without
// string matching.
type Kind int

const (
	KindInvalidArgument Kind = iota + 1
	KindIllegalState
	KindNotFound
)

func (k Kind) String() string {
	switch k {
	case KindInvalidArgument:
		return "invalid_argument"
	case KindIllegalState:
		return "illegal_state"
	case KindNotFound:
		return "not_found"
	default:
		return "unknown"
	}
}

// Error is a domain failure with a fixed message. Sentinels below are
// compared by identity; the kind sentinels match any Error of that kind.
type Error struct {
	Kind Kind
	Msg  string
}

func (e *Error) Error() string {
	return e.Msg
}

func (e *Error) Is(target error) bool {
	switch target {
	case ErrInvalidArgument:
		return e.Kind == KindInvalidArgument
	case ErrIllegalState:
		return e.Kind == KindIllegalState
	case ErrNotFound:
		return e.Kind == KindNotFound
	}
	return false
}

func invalidArgument(msg string) *Error { return &Error{Kind: KindInvalidArgument, Msg: msg} }
func illegalState(msg string) *Error    { return &Error{Kind: KindIllegalState, Msg: msg} }
func notFound(msg string) *Error        { return &Error{Kind: KindNotFound, Msg: msg} }

var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrIllegalState    = errors.New("illegal state")
	ErrNotFound        = errors.New("not found")
)

// Invalid argument.
var (
	ErrFlightIDRequired      = invalidArgument("flight id cannot be empty")
	ErrReservationIDRequired = invalidArgument("reservation id cannot be empty")
	ErrPaymentIDRequired     = invalidArgument("payment id cannot be empty")
	ErrTravelerRequired      = invalidArgument("traveler cannot be empty")
	ErrTravelerIDRequired    = invalidArgument("traveler id cannot be empty")
	ErrEmailRequired         = invalidArgument("traveler email cannot be empty")
	ErrFirstNameRequired     = invalidArgument("first name cannot be empty")
	ErrLastNameRequired      = invalidArgument("last name cannot be empty")
	ErrInvalidAge            = invalidArgument("age must be between 0 and 150")
	ErrSeatsNotPositive      = invalidArgument("number of seats must be positive")
	ErrInvalidTotalSeats     = invalidArgument("total seats must be positive")
	ErrNegativePrice         = invalidArgument("price cannot be negative")
	ErrInvalidAvailable      = invalidArgument("available seats must be between 0 and total seats")
	ErrInvalidSchedule       = invalidArgument("arrival cannot be before departure")
	ErrFlightMismatch        = invalidArgument("flight does not belong to reservation")
	ErrFlightExists          = invalidArgument("flight already exists")
	ErrAmountNotPositive     = invalidArgument("amount must be positive")
	ErrInvalidCardNumber     = invalidArgument("invalid card number")
	ErrInvalidCVV            = invalidArgument("invalid CVV")
	ErrInvalidExpiry         = invalidArgument("invalid expiry date")
	ErrSourceRequired        = invalidArgument("source city cannot be empty")
	ErrDestinationRequired   = invalidArgument("destination city cannot be empty")
	ErrTravelDateRequired    = invalidArgument("travel date cannot be empty")
	ErrSameSourceDestination = invalidArgument("source and destination cannot be same")
	ErrNegativePriceBound    = invalidArgument("price bound cannot be negative")
	ErrInvertedPriceRange    = invalidArgument("min price cannot be greater than max price")
	ErrRequiredSeatsNegative = invalidArgument("required seats cannot be negative")
)

// Illegal state.
var (
	ErrNoAvailableSeats        = illegalState("no available seats on this flight")
	ErrReleaseExceedsReserved  = illegalState("cannot release more seats than reserved")
	ErrReservationConfirmed    = illegalState("cannot modify confirmed reservation")
	ErrReservationCancelled    = illegalState("cannot modify cancelled reservation")
	ErrNoTravelers             = illegalState("cannot confirm reservation without travelers")
	ErrOnlyConfirmedCancelable = illegalState("only confirmed reservations can be cancelled")
	ErrOnlyPendingDiscardable  = illegalState("only pending reservations can be discarded")
	ErrRefundNotAllowed        = illegalState("cannot refund unsuccessful payment")
	ErrPaymentNotSettled       = illegalState("payment is not successful")
	ErrPaymentForeign          = illegalState("payment belongs to another reservation")
	ErrPaymentNotPending       = illegalState("payment is already settled")
)

// Not found.
var (
	ErrFlightNotFound      = notFound("flight not found")
	ErrReservationNotFound = notFound("reservation not found")
	ErrPaymentNotFound     = notFound("payment not found")
)

// KindOf reports the domain kind of err, or 0 when err is not a domain error.
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return 0
}
