package error

import "net/http"

type IOError string

func (err IOError) Error() string {
	return string(err)
}

func (err IOError) ErrCode() string {
	return "IO_ERROR"
}

func (err IOError) StatusCode() int {
	return http.StatusInternalServerError
}
