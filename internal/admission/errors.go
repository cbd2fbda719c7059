package admission

import "fmt"

// Kind classifies an admission rejection.
type Kind int

const (
	KindValidation Kind = iota
	KindVerification
	KindDuplicate
	KindNotFound
	KindCapacity
	KindPersistence
)

// User-facing rejection messages, Dutch locale. These are part of the public
// contract and must stay byte for byte as they are.
const (
	MsgRequiredFields     = "Naam, e-mail en workshopdatum zijn verplicht"
	MsgPhoneRequired      = "Telefoonnummer is verplicht"
	MsgInvalidEmail       = "Ongeldig e-mailadres"
	MsgVerificationFailed = "CAPTCHA verificatie mislukt. Probeer het opnieuw."
	MsgDuplicate          = "Je bent al ingeschreven voor deze workshopdatum"
	MsgSessionNotFound    = "Workshopdatum niet gevonden"
	MsgSessionFull        = "Deze workshopdatum is vol. Er zijn geen plaatsen meer beschikbaar."
)

// Error is a typed admission rejection. Message is safe to show to the caller;
// the wrapped cause, if any, is for server-side logs only.
type Error struct {
	Kind    Kind
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.cause }

var (
	ErrVerification    = &Error{Kind: KindVerification, Message: MsgVerificationFailed}
	ErrDuplicate       = &Error{Kind: KindDuplicate, Message: MsgDuplicate}
	ErrSessionNotFound = &Error{Kind: KindNotFound, Message: MsgSessionNotFound}
	ErrSessionFull     = &Error{Kind: KindCapacity, Message: MsgSessionFull}
)

func validationError(msg string) *Error {
	return &Error{Kind: KindValidation, Message: msg}
}

func persistenceError(cause error) *Error {
	return &Error{Kind: KindPersistence, Message: "admission aborted", cause: cause}
}
