package loan

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScore(t *testing.T) {
	t.Run("no history keeps the baseline", func(t *testing.T) {
		assert.Equal(t, 50, Score(nil, 3600000))
	})

	t.Run("history within the limit keeps the baseline", func(t *testing.T) {
		history := []Loan{
			{Amount: 1000000},
			{Amount: 2000000},
		}
		assert.Equal(t, 50, Score(history, 3600000))
	})

	t.Run("total principal equal to the limit keeps the baseline", func(t *testing.T) {
		history := []Loan{{Amount: 3600000}}
		assert.Equal(t, 50, Score(history, 3600000))
	})

	t.Run("total principal above the limit zeroes the score", func(t *testing.T) {
		history := []Loan{
			{Amount: 2000000},
			{Amount: 1700000},
		}
		assert.Equal(t, 0, Score(history, 3600000))
	})
}
