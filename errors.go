package smacker

// Error represents a Smacker decoder error code.
//
// Errors returned by the decoder wrap one of these codes, usually together
// with the internal cause, so callers can test them with errors.Is.
type Error int

// Error codes.
const (
	ErrNone               Error = 0
	ErrFormat             Error = 1
	ErrDataTruncated      Error = 2
	ErrConsistency        Error = 3
	ErrUnsupportedFeature Error = 4
	ErrNilDecoder         Error = 5
	ErrNilBuffer          Error = 6
	ErrNotOpen            Error = 7
	ErrCorruptStream      Error = 8
	ErrInvalidTrack       Error = 9
)

var errMessages = [10]string{
	"No error",
	"Not a Smacker stream",
	"Stream data truncated",
	"Stream data inconsistent with its declared layout",
	"Unsupported stream feature",
	"Decoder is nil",
	"Input buffer is nil",
	"No stream open",
	"Stream failed earlier and cannot be decoded further",
	"Invalid audio track index",
}

// Error implements the error interface.
func (e Error) Error() string {
	if e >= 0 && int(e) < len(errMessages) {
		return errMessages[e]
	}
	return "unknown error"
}

// Fatal reports whether the code leaves the stream undecodable.
func (e Error) Fatal() bool {
	switch e {
	case ErrDataTruncated, ErrConsistency, ErrCorruptStream:
		return true
	}
	return false
}

// GetErrorMessage returns the message for an error code.
func GetErrorMessage(code Error) string {
	return code.Error()
}
