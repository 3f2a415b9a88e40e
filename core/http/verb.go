package http

// Verb is a parsed request method.
type Verb uint8

// Recognized method tokens. Anything else parses as VerbUnknown; an
// unknown method is not a parse error, it just fails dispatch with 400.
const (
	VerbUnknown Verb = iota
	VerbGet
	VerbHead
	VerbPost
	VerbPut
	VerbDelete
	VerbConnect
	VerbOptions
	VerbTrace
	VerbPatch
)

var verbNames = [...]string{
	VerbUnknown: "UNKNOWN",
	VerbGet:     "GET",
	VerbHead:    "HEAD",
	VerbPost:    "POST",
	VerbPut:     "PUT",
	VerbDelete:  "DELETE",
	VerbConnect: "CONNECT",
	VerbOptions: "OPTIONS",
	VerbTrace:   "TRACE",
	VerbPatch:   "PATCH",
}

func (v Verb) String() string {
	if int(v) < len(verbNames) {
		return verbNames[v]
	}
	return "UNKNOWN"
}

// parseVerb maps a method token to its Verb. Method tokens are
// case-sensitive per RFC 7230, so this is an exact match.
func parseVerb(tok []byte) Verb {
	switch len(tok) {
	case 3:
		if string(tok) == "GET" {
			return VerbGet
		}
		if string(tok) == "PUT" {
			return VerbPut
		}
	case 4:
		if string(tok) == "HEAD" {
			return VerbHead
		}
		if string(tok) == "POST" {
			return VerbPost
		}
	case 5:
		if string(tok) == "PATCH" {
			return VerbPatch
		}
		if string(tok) == "TRACE" {
			return VerbTrace
		}
	case 6:
		if string(tok) == "DELETE" {
			return VerbDelete
		}
	case 7:
		if string(tok) == "CONNECT" {
			return VerbConnect
		}
		if string(tok) == "OPTIONS" {
			return VerbOptions
		}
	}
	return VerbUnknown
}
