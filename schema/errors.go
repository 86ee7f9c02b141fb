package schema

import (
	"context"
	"log/slog"

	"github.com/user/tasklist-go/apperror"
)

const internalMessage = "internal server error"

// Error is a GraphQL error carrying the taxonomy code in its extensions.
type Error struct {
	Message string
	Code    string
}

func (e *Error) Error() string {
	return e.Message
}

// Extensions is picked up by the GraphQL executor and rendered under
// "extensions" in the response.
func (e *Error) Extensions() map[string]interface{} {
	return map[string]interface{}{"code": e.Code}
}

// ToGraphQL maps a service error to the error a resolver returns. Internal
// faults are logged with their cause and replaced by a generic message.
func ToGraphQL(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}
	appErr := apperror.FromError(err)
	if appErr.Internal() {
		slog.ErrorContext(ctx, "request failed", "error", err)
		return &Error{Message: internalMessage, Code: appErr.Code()}
	}
	return &Error{Message: appErr.Message, Code: appErr.Code()}
}
