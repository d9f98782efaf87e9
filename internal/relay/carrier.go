package relay

type CarrierEventKind int

const (
	CarrierOther CarrierEventKind = iota
	CarrierStart
	CarrierMedia
	CarrierMark
	CarrierDTMF
	CarrierStop
)

// CarrierEvent is one decoded media-stream frame from the telephony carrier.
type CarrierEvent struct {
	Kind     CarrierEventKind
	Name     string
	StreamID string
	CallID   string
	Params   map[string]string
	Audio    []byte
	Mark     string
	Digit    string
}

// Carrier is the telephony-facing leg. Receive returns *MalformedEventError
// for frames that should be skipped; any other error ends the leg. Send
// methods must be safe to call from a goroutine other than the one calling
// Receive, and Close must unblock a pending Receive.
type Carrier interface {
	Receive() (CarrierEvent, error)
	SendAudio(frame []byte) error
	SendMark(name string) error
	Clear() error
	Close() error
}
