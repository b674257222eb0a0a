package rpc

import (
	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ErrorInfo reason and metadata key for a failed verification delivery.
const (
	ReasonDeliveryFailed = "VERIFICATION_DELIVERY_FAILED"
	MetaAccountID        = "account_id"
)

// DeliveryFailedError is the UNAVAILABLE status returned when the
// verification message could not be handed off. A non-empty accountID names
// the account that was committed anyway.
func DeliveryFailedError(accountID string) error {
	info := &errdetails.ErrorInfo{Reason: ReasonDeliveryFailed, Domain: ServiceName}
	if accountID != "" {
		info.Metadata = map[string]string{MetaAccountID: accountID}
	}

	st, err := status.New(codes.Unavailable, MsgDeliveryFailed).WithDetails(info)
	if err != nil {
		return status.Error(codes.Unavailable, MsgDeliveryFailed)
	}
	return st.Err()
}

// DeliveryFailure reports whether err was built by DeliveryFailedError and
// returns the account id it carries, if any.
func DeliveryFailure(err error) (accountID string, ok bool) {
	st, isStatus := status.FromError(err)
	if !isStatus || st.Code() != codes.Unavailable {
		return "", false
	}
	for _, d := range st.Details() {
		if info, match := d.(*errdetails.ErrorInfo); match && info.GetReason() == ReasonDeliveryFailed {
			return info.GetMetadata()[MetaAccountID], true
		}
	}
	return "", false
}
