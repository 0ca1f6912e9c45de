package error

// GenericError is implemented by every typed error the REST and command
// layers know how to render.
type GenericError interface {
	Error() string
	ErrCode() string
	StatusCode() int
}
