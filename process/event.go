package process

// ID identifies an event's kind. The width matches the spec's 8-bit
// default; widening to uint16/uint32 is a one-line change to this
// declaration, mirroring the "event-id-type width" configuration option.
type ID uint8

// Reserved event ids. Application ids must start above EventTimeout.
const (
	EventStart    ID = 0
	EventPoll     ID = 1
	EventContinue ID = 2
	EventTimeout  ID = 3
)

// Event is a single delivery record: a (id, data, to, from) tuple. To nil
// means broadcast; From records the process that was current when
// Post/PostSync was called, or nil when called from outside any process
// and for the poll events Run synthesizes (the "process-event-from"
// configuration option, realized here as always-on rather than a second
// build mode).
type Event struct {
	ID   ID
	Data any
	To   *Process
	From *Process
}
