package errorx

type Code int

// Unknown is returned whenever an internal failure (usually a store error)
// must not leak its detail to the client.
var Unknown = Error{Code: 100000, Message: "Request failed"}

const (
	BadRequest       Code = 100001
	BadResponse      Code = 100002
	PermissionDenied Code = 100003
	NotFound         Code = 100004
	Unauthenticated  Code = 100005
	AlreadyExists    Code = 100006
	Internal         Code = 100007
	Unavailable      Code = 100008
)
