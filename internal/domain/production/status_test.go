package production

import (
	"errors"
	"testing"

	"github.com/bewloop/quark-system/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatus_IsValid(t *testing.T) {
	for _, s := range append(Stages(), StatusCancelled) {
		assert.True(t, s.IsValid(), s)
	}
	assert.False(t, Status("packed").IsValid())
	assert.False(t, Status("").IsValid())
}

func TestParseStatus(t *testing.T) {
	assert.Equal(t, StatusQC, ParseStatus("QC"))
	assert.Equal(t, StatusQC, ParseStatus(" qc "))
	assert.Equal(t, StatusCancelled, ParseStatus("Cancelled"))
	assert.False(t, ParseStatus("Packed").IsValid())
}

func TestValidateTransition(t *testing.T) {
	tests := []struct {
		from    Status
		to      Status
		allowed bool
	}{
		// forward by one
		{StatusIntake, StatusCut, true},
		{StatusCut, StatusAssembled, true},
		{StatusAssembled, StatusSewn, true},
		{StatusSewn, StatusQC, true},
		{StatusQC, StatusShipped, true},
		// cancel from any open stage
		{StatusIntake, StatusCancelled, true},
		{StatusSewn, StatusCancelled, true},
		{StatusQC, StatusCancelled, true},
		// skips
		{StatusIntake, StatusAssembled, false},
		{StatusCut, StatusShipped, false},
		// repeats
		{StatusCut, StatusCut, false},
		{StatusIntake, StatusIntake, false},
		// backwards
		{StatusQC, StatusSewn, false},
		{StatusCut, StatusIntake, false},
		// terminal
		{StatusShipped, StatusCancelled, false},
		{StatusShipped, StatusShipped, false},
		{StatusCancelled, StatusCancelled, false},
		{StatusCancelled, StatusIntake, false},
		// unknown
		{StatusIntake, Status("packed"), false},
		{Status("packed"), StatusCut, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			err := ValidateTransition(tt.from, tt.to)
			if tt.allowed {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, shared.ErrInvalidTransition)

			var te *TransitionError
			require.True(t, errors.As(err, &te))
			assert.Equal(t, tt.from, te.From)
			assert.Equal(t, tt.to, te.To)
		})
	}
}

func TestStages_ReturnsCopy(t *testing.T) {
	s := Stages()
	s[0] = StatusShipped
	assert.Equal(t, StatusIntake, Stages()[0])
}
