package aws

import (
	"errors"
	"net"
	"slices"

	"github.com/aws/smithy-go"

	"github.com/imamik/hpcgate/internal/metadata"
)

// notFoundCodes are EC2 error codes meaning the referenced resource does not
// exist or cannot be addressed. They become findings, not aborts.
var notFoundCodes = []string{
	"InvalidInstanceType",
	"InvalidSubnetID.NotFound",
	"InvalidSubnetID.Malformed",
	"InvalidAMIID.NotFound",
	"InvalidAMIID.Malformed",
	"InvalidAMIID.Unavailable",
	"InvalidGroup.NotFound",
	"InvalidGroupId.Malformed",
	"InvalidCapacityReservationId.NotFound",
	"InvalidCapacityReservationId.Malformed",
	"NoSuchKey",
	"NoSuchBucket",
	"NotFound",
}

// transientCodes are throttling and availability errors worth retrying.
var transientCodes = []string{
	"Throttling",
	"ThrottlingException",
	"RequestLimitExceeded",
	"RequestThrottled",
	"SlowDown",
	"ServiceUnavailable",
	"Unavailable",
	"InternalError",
	"InternalFailure",
	"RequestTimeout",
}

// classify marks err for the metadata cache. Unrecognised errors, including
// authorization failures, are returned unmarked and abort the run.
func classify(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case isAPIErrorCode(err, notFoundCodes...):
		return metadata.NotFound(err)
	case isAPIErrorCode(err, transientCodes...):
		return metadata.Transient(err)
	case isTimeout(err):
		return metadata.Transient(err)
	default:
		return err
	}
}

// isAPIErrorCode checks if the error is a smithy API error with one of the given codes.
func isAPIErrorCode(err error, codes ...string) bool {
	if err == nil {
		return false
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return slices.Contains(codes, apiErr.ErrorCode())
	}
	return false
}

func isTimeout(err error) bool {
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// IsNotFound reports whether err is an AWS not-found error.
func IsNotFound(err error) bool {
	return isAPIErrorCode(err, notFoundCodes...)
}

// IsThrottled reports whether err is an AWS throttling or availability error.
func IsThrottled(err error) bool {
	return isAPIErrorCode(err, transientCodes...)
}
