package course

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIncrement(t *testing.T) {
	tests := []struct {
		name string
		code string
		want Course
	}{
		{name: "empty code is regular", code: "", want: Course{Name: "Ma", Regular: 1}},
		{name: "none is regular", code: "none", want: Course{Name: "Ma", Regular: 1}},
		{name: "None is regular", code: "None", want: Course{Name: "Ma", Regular: 1}},
		{name: "irregular", code: "irregular", want: Course{Name: "Ma", Irregular: 1}},
		{name: "cancelled", code: "cancelled", want: Course{Name: "Ma", Cancelled: 1}},
		{name: "alternative", code: "alternative", want: Course{Name: "Ma", Alternative: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New("Ma")
			require.NoError(t, c.Increment(tt.code))
			assert.Equal(t, tt.want, *c)
		})
	}
}

func TestIncrementUnknownCode(t *testing.T) {
	c := New("Ma")
	err := c.Increment("unknown-code")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownStatus))

	var statusErr *UnknownStatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, "unknown-code", statusErr.Code)
	assert.Equal(t, "Ma", statusErr.Course)
	assert.Equal(t, Course{Name: "Ma"}, *c, "counters must stay untouched")
}

func TestMerge(t *testing.T) {
	a := Course{Name: "a", Regular: 1, Irregular: 2, Cancelled: 3, Alternative: 4}
	b := Course{Name: "b", Regular: 10, Irregular: 20, Cancelled: 30, Alternative: 40}
	c := Course{Name: "c", Regular: 5, Cancelled: 7}

	t.Run("associative", func(t *testing.T) {
		left := a.Merge(b.Merge(c))
		right := a.Merge(b).Merge(c)
		assert.Equal(t, left, right)
	})

	t.Run("commutative counters", func(t *testing.T) {
		ab := a.Merge(b)
		ba := b.Merge(a)
		ab.Name, ba.Name = "", ""
		assert.Equal(t, ab, ba)
	})

	t.Run("zero is identity", func(t *testing.T) {
		assert.Equal(t, a, a.Merge(Course{}))
	})

	t.Run("does not alias operands", func(t *testing.T) {
		before := a
		_ = a.Merge(b)
		assert.Equal(t, before, a)
	})
}

func TestPercentages(t *testing.T) {
	tests := []struct {
		name       string
		course     Course
		target     int
		unadjusted int
		adjusted   int
	}{
		{name: "zero target", course: Course{Irregular: 3, Alternative: 2}, target: 0, unadjusted: 0, adjusted: 0},
		{name: "cancelled with alternative", course: Course{Regular: 1, Cancelled: 1, Alternative: 1}, target: 2, unadjusted: 50, adjusted: 100},
		{name: "cancelled without alternative", course: Course{Regular: 1, Cancelled: 1}, target: 2, unadjusted: 50, adjusted: 50},
		{name: "irregular counts as delivered", course: Course{Regular: 2, Irregular: 1, Cancelled: 1}, target: 3, unadjusted: 100, adjusted: 100},
		{name: "adjusted above hundred", course: Course{Regular: 1, Cancelled: 1, Alternative: 2}, target: 2, unadjusted: 50, adjusted: 150},
		{name: "rounds half to even down", course: Course{Regular: 1, Cancelled: 199}, target: 200, unadjusted: 0, adjusted: 0},
		{name: "rounds half to even up", course: Course{Regular: 3, Cancelled: 197}, target: 200, unadjusted: 2, adjusted: 2},
		{name: "two thirds", course: Course{Regular: 2, Cancelled: 1}, target: 3, unadjusted: 67, adjusted: 67},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.target, tt.course.Target())
			assert.Equal(t, tt.unadjusted, tt.course.PercentUnadjusted())
			assert.Equal(t, tt.adjusted, tt.course.PercentAdjusted())
			assert.GreaterOrEqual(t, tt.course.PercentAdjusted(), tt.course.PercentUnadjusted())
		})
	}
}

func TestTotal(t *testing.T) {
	total := Total(
		Course{Name: "De", Regular: 3, Cancelled: 1},
		Course{Name: "Ma", Regular: 1, Irregular: 1, Cancelled: 2, Alternative: 1},
	)
	assert.Equal(t, Course{Name: TotalName, Regular: 4, Irregular: 1, Cancelled: 3, Alternative: 1}, total)
	assert.Equal(t, Course{Name: TotalName}, Total())
}
