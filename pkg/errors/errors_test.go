package errors

import (
	"errors"
	"testing"

	"ordercore/domain/order"
	"ordercore/journal"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromDomainError_MapsOrderSentinels(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code ErrorCode
	}{
		{"cart empty", mustOrderErr(t, func() error {
			_, err := order.NewNonEmptyCart(nil)
			return err
		}), CodeCartEmpty},
		{"invalid postal code", mustOrderErr(t, func() error {
			_, err := order.NewPostalCode("not-a-code")
			return err
		}), CodeInvalidPostalCode},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			appErr := FromDomainError(tc.err)
			require.NotNil(t, appErr)
			assert.Equal(t, tc.code, appErr.Code)
		})
	}
}

func mustOrderErr(t *testing.T, fn func() error) error {
	t.Helper()
	err := fn()
	require.Error(t, err)
	return err
}

func TestFromDomainError_MapsJournalSentinels(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code ErrorCode
	}{
		{"write failure", journal.WriteFailure(1, errors.New("boom")), CodeJournalWrite},
		{"read failure", journal.ReadFailure(1, errors.New("boom")), CodeJournalRead},
		{"duplicate sequence", journal.DuplicateSequenceFailure(1, 2), CodeDuplicateSequence},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			appErr := FromDomainError(tc.err)
			require.NotNil(t, appErr)
			assert.Equal(t, tc.code, appErr.Code)
		})
	}
}

func TestFromDomainError_UnrecognizedErrorBecomesInternal(t *testing.T) {
	appErr := FromDomainError(errors.New("something unexpected"))
	require.NotNil(t, appErr)
	assert.Equal(t, CodeInternal, appErr.Code)
}

func TestFromDomainError_PassesThroughExistingAppError(t *testing.T) {
	original := BadRequest("already an app error")
	appErr := FromDomainError(original)
	assert.Same(t, original, appErr)
}

func TestFromDomainError_Nil(t *testing.T) {
	assert.Nil(t, FromDomainError(nil))
}

func TestIs(t *testing.T) {
	err := Validation("bad input")
	assert.True(t, Is(err, CodeValidation))
	assert.False(t, Is(err, CodeInternal))
	assert.False(t, Is(errors.New("plain"), CodeValidation))
}

func TestAsAppError_WrapsPlainError(t *testing.T) {
	appErr := AsAppError(errors.New("plain"))
	assert.Equal(t, CodeInternal, appErr.Code)
}
