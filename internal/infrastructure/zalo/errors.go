package zalo

import "fmt"

// Gateway error codes as returned by the Zalo OA API. CodeTransport is
// synthesized for network failures so callers classify every failure the
// same way.
const (
	CodeSuccess        = 0
	CodeTransport      = -1
	CodeQuotaExceeded  = -32
	CodeTemporary      = -201
	CodeNotFollowed    = -213
	CodeUserBlocked    = -214
	CodeAccountDeleted = -240
)

// GatewayError is a failed gateway call. Permanent errors mean the
// recipient can never receive the message (unfollowed, blocked, deleted
// account); everything else is worth retrying.
type GatewayError struct {
	Code    int
	Message string
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("zalo gateway error %d: %s", e.Code, e.Message)
}

// Permanent reports whether retrying the same recipient can ever succeed.
func (e *GatewayError) Permanent() bool {
	switch e.Code {
	case CodeNotFollowed, CodeUserBlocked, CodeAccountDeleted:
		return true
	}
	return false
}

// Retryable is the complement of Permanent. Quota, temporary upstream
// failures, transport errors and unrecognized codes all qualify.
func (e *GatewayError) Retryable() bool {
	return !e.Permanent()
}

func transportError(err error) *GatewayError {
	return &GatewayError{Code: CodeTransport, Message: err.Error()}
}
