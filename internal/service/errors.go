package service

import (
	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Service failures are gRPC status errors; the HTTP layer maps the code.
var (
	ErrInvalidCredentials = status.Error(codes.Unauthenticated, "invalid credentials")
	ErrBadToken           = status.Error(codes.Unauthenticated, "invalid or expired token")
	ErrUserNotFound       = status.Error(codes.NotFound, "user not found")
	ErrNotFound           = status.Error(codes.NotFound, "appointment not found")
	ErrEmailTaken         = status.Error(codes.AlreadyExists, "email already registered")
	ErrSlotTaken          = status.Error(codes.AlreadyExists, "time slot already booked")
	ErrInternal           = status.Error(codes.Internal, "internal error")
)

// Violation is one field-level validation failure.
type Violation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func invalid(vs ...Violation) error {
	st := status.New(codes.InvalidArgument, "validation failed")
	br := &errdetails.BadRequest{}
	for _, v := range vs {
		br.FieldViolations = append(br.FieldViolations, &errdetails.BadRequest_FieldViolation{
			Field:       v.Field,
			Description: v.Message,
		})
	}
	if withDetails, err := st.WithDetails(br); err == nil {
		st = withDetails
	}
	return st.Err()
}

// Violations extracts the field violations carried by a validation error.
func Violations(err error) []Violation {
	st, ok := status.FromError(err)
	if !ok || st.Code() != codes.InvalidArgument {
		return nil
	}
	var out []Violation
	for _, d := range st.Details() {
		br, ok := d.(*errdetails.BadRequest)
		if !ok {
			continue
		}
		for _, fv := range br.GetFieldViolations() {
			out = append(out, Violation{Field: fv.GetField(), Message: fv.GetDescription()})
		}
	}
	return out
}
