package port

// Validator checks a request struct and reports the first rule it breaks.
type Validator interface {
	ValidateStruct(s any) error
	FirstMessage(err error) (field string, message string)
}
