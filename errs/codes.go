package errs

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an error that did not originate in the rules engine.
	CodeUnknown Code = "UNKNOWN"

	// Obligation errors
	CodeIllegalAction  Code = "ILLEGAL_ACTION"
	CodeSkipNotAllowed Code = "SKIP_NOT_ALLOWED"
	CodeKindRequired   Code = "KIND_REQUIRED"
	CodeKindDuplicate  Code = "KIND_DUPLICATE"
	CodeKindUnknown    Code = "KIND_UNKNOWN"

	// Trail errors
	CodeRouteNotReachable Code = "ROUTE_NOT_REACHABLE"
	CodeUnknownLocation   Code = "UNKNOWN_LOCATION"

	// Track errors
	CodeSpaceOccupied     Code = "SPACE_OCCUPIED"
	CodeSpaceNotReachable Code = "SPACE_NOT_REACHABLE"
	CodeUnknownSpace      Code = "UNKNOWN_SPACE"
	CodeInvalidWindow     Code = "INVALID_WINDOW"
	CodeAlreadyDelivered  Code = "ALREADY_DELIVERED"

	// Market errors
	CodeNotEnoughResource Code = "NOT_ENOUGH_RESOURCE"
	CodeInsufficientFunds Code = "INSUFFICIENT_FUNDS"
	CodeInvalidSelection  Code = "INVALID_SELECTION"
	CodeCardNotAvailable  Code = "CARD_NOT_AVAILABLE"

	// Turn errors
	CodeNotYourTurn   Code = "NOT_YOUR_TURN"
	CodeInvalidMove   Code = "INVALID_MOVE"
	CodeInvalidConfig Code = "INVALID_CONFIG"
)

// Sentinels for errors.Is comparisons; matching is by code only.
var (
	ErrIllegalAction     = New(CodeIllegalAction, "illegal action")
	ErrSkipNotAllowed    = New(CodeSkipNotAllowed, "skip not allowed")
	ErrKindRequired      = New(CodeKindRequired, "action kind is required")
	ErrKindDuplicate     = New(CodeKindDuplicate, "action kind already registered")
	ErrKindUnknown       = New(CodeKindUnknown, "action kind is not registered")
	ErrRouteNotReachable = New(CodeRouteNotReachable, "route not reachable")
	ErrUnknownLocation   = New(CodeUnknownLocation, "unknown location")
	ErrSpaceOccupied     = New(CodeSpaceOccupied, "space occupied")
	ErrSpaceNotReachable = New(CodeSpaceNotReachable, "space not reachable")
	ErrUnknownSpace      = New(CodeUnknownSpace, "unknown space")
	ErrInvalidWindow     = New(CodeInvalidWindow, "invalid step window")
	ErrAlreadyDelivered  = New(CodeAlreadyDelivered, "already delivered to city")
	ErrNotEnoughResource = New(CodeNotEnoughResource, "not enough resource")
	ErrInsufficientFunds = New(CodeInsufficientFunds, "insufficient funds")
	ErrInvalidSelection  = New(CodeInvalidSelection, "invalid selection")
	ErrCardNotAvailable  = New(CodeCardNotAvailable, "card not available")
	ErrNotYourTurn       = New(CodeNotYourTurn, "not your turn")
	ErrInvalidMove       = New(CodeInvalidMove, "invalid move")
	ErrInvalidConfig     = New(CodeInvalidConfig, "invalid config")
)
