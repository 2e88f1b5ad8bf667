package protocol

const (
	// Protocol/transport validation.
	ErrProtoBadRequest = "E_PROTO_BAD_REQUEST"

	// Session layer.
	ErrBadRequest    = "E_BAD_REQUEST"
	ErrStale         = "E_STALE"
	ErrStoryComplete = "E_STORY_COMPLETE"
	ErrSessionLimit  = "E_SESSION_LIMIT"
	ErrInternal      = "E_INTERNAL"
)

var knownCodes = map[string]struct{}{
	ErrProtoBadRequest: {},
	ErrBadRequest:      {},
	ErrStale:           {},
	ErrStoryComplete:   {},
	ErrSessionLimit:    {},
	ErrInternal:        {},
}

func IsKnownCode(code string) bool {
	if code == "" {
		return true
	}
	_, ok := knownCodes[code]
	return ok
}
