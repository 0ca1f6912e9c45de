package error

import "net/http"

// ParseError is returned when a stored document is not valid YAML or does not
// have the expected shape.
type ParseError string

func (err ParseError) Error() string {
	return string(err)
}

func (err ParseError) ErrCode() string {
	return "PARSE_ERROR"
}

func (err ParseError) StatusCode() int {
	return http.StatusUnprocessableEntity
}
