package api

// General errors
var (
	ErrNil        = NewBusinessError(0, "Success")
	ErrValidation = NewBusinessError(1, "Invalid parameter")
	ErrInternal   = NewBusinessError(2, "Internal server error")
)

// BusinessError is the envelope of every API response, where code 0 stands for success and data
// holds either the result or details about the failure.
type BusinessError struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

func NewBusinessError(code int, message string) *BusinessError {
	return &BusinessError{code, message, nil}
}

func NewBusinessErrorWithData(code int, message string, data interface{}) *BusinessError {
	return &BusinessError{code, message, data}
}

func (err *BusinessError) Error() string {
	return err.Message
}

// Is reports whether target is a business error with the same code, whatever the data.
func (err *BusinessError) Is(target error) bool {
	be, ok := target.(*BusinessError)
	return ok && be.Code == err.Code
}

func (be *BusinessError) WithData(data interface{}) *BusinessError {
	return NewBusinessErrorWithData(be.Code, be.Message, data)
}
