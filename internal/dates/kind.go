package dates

// Kind identifies which lifecycle event a date belongs to.
type Kind string

const (
	Received        Kind = "received"
	RevisedReceived Kind = "revised"
	Accepted        Kind = "accepted"
	AvailableOnline Kind = "availableOnline"
	Published       Kind = "published"
	Other           Kind = "other"
)

// MatchPriority is the order in which a reference date is compared against
// extracted dates. Earlier kinds win.
var MatchPriority = []Kind{Received, RevisedReceived, Accepted, Published, AvailableOnline, Other}
