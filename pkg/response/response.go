package response

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Response is the envelope every endpoint answers with. Data may accompany an
// error when the operation partly happened, e.g. a sale recorded without its
// stock decrements.
type Response struct {
	Status     string      `json:"status"`
	StatusCode int         `json:"status_code"`
	Data       interface{} `json:"data,omitempty"`
	Meta       interface{} `json:"meta,omitempty"`
	Error      string      `json:"error,omitempty"`
}

func Success(statusCode int, data interface{}) Response {
	return Response{Status: StatusSuccess, StatusCode: statusCode, Data: data}
}

// Page is Success for a paged listing.
func Page(statusCode int, data, meta interface{}) Response {
	return Response{Status: StatusSuccess, StatusCode: statusCode, Data: data, Meta: meta}
}

func Error(statusCode int, err string) Response {
	return Response{Status: StatusError, StatusCode: statusCode, Error: err}
}

// Partial reports a failure that still produced a result the client needs.
func Partial(statusCode int, err string, data interface{}) Response {
	resp := Error(statusCode, err)
	resp.Data = data
	return resp
}
