package aws

import (
	"errors"
	"fmt"
	"testing"

	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"

	"github.com/imamik/hpcgate/internal/metadata"
)

type timeoutError struct{}

func (timeoutError) Error() string   { return "i/o timeout" }
func (timeoutError) Timeout() bool   { return true }
func (timeoutError) Temporary() bool { return true }

func TestClassify(t *testing.T) {
	t.Parallel()

	apiErr := func(code string) error {
		return fmt.Errorf("operation error EC2: %w", &smithy.GenericAPIError{Code: code, Message: "test"})
	}

	tests := []struct {
		name string
		err  error
		want metadata.ErrorClass
	}{
		{"nil", nil, metadata.ClassNone},
		{"unknown instance type", apiErr("InvalidInstanceType"), metadata.ClassNotFound},
		{"missing subnet", apiErr("InvalidSubnetID.NotFound"), metadata.ClassNotFound},
		{"missing ami", apiErr("InvalidAMIID.NotFound"), metadata.ClassNotFound},
		{"missing group", apiErr("InvalidGroup.NotFound"), metadata.ClassNotFound},
		{"missing reservation", apiErr("InvalidCapacityReservationId.NotFound"), metadata.ClassNotFound},
		{"throttled", apiErr("RequestLimitExceeded"), metadata.ClassTransient},
		{"throttling", apiErr("Throttling"), metadata.ClassTransient},
		{"unavailable", apiErr("ServiceUnavailable"), metadata.ClassTransient},
		{"network timeout", fmt.Errorf("send request: %w", timeoutError{}), metadata.ClassTransient},
		{"unauthorized", apiErr("UnauthorizedOperation"), metadata.ClassFatal},
		{"plain error", errors.New("boom"), metadata.ClassFatal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, metadata.Classify(classify(tt.err)))
		})
	}
}

func TestIsNotFoundAndThrottled(t *testing.T) {
	t.Parallel()

	assert.True(t, IsNotFound(&smithy.GenericAPIError{Code: "NoSuchKey"}))
	assert.False(t, IsNotFound(&smithy.GenericAPIError{Code: "AccessDenied"}))
	assert.False(t, IsNotFound(nil))
	assert.True(t, IsThrottled(&smithy.GenericAPIError{Code: "SlowDown"}))
	assert.False(t, IsThrottled(errors.New("SlowDown")))
}
