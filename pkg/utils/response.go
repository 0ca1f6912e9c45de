package utils

// ResponseData is the JSON envelope returned by every REST handler.
// Status is carried for the handlers themselves and is not serialized.
type ResponseData struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Results any    `json:"results"`
}
