package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestToInt(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want int
	}{
		{"Nil", nil, 0},
		{"Int", 7, 7},
		{"Float", float64(1234), 1234},
		{"String", "42", 42},
		{"FloatString", "1650.0", 1650},
		{"Garbage", "abc", 0},
		{"Bool", true, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ToInt(tt.in))
		})
	}
}

func TestToString(t *testing.T) {
	assert.Equal(t, "", ToString(nil))
	assert.Equal(t, "123", ToString(float64(123)))
	assert.Equal(t, "1.5", ToString(1.5))
	assert.Equal(t, "abc", ToString([]byte("abc")))
}

func TestToBool(t *testing.T) {
	assert.True(t, ToBool("TRUE"))
	assert.True(t, ToBool(float64(1)))
	assert.False(t, ToBool("no"))
	assert.Nil(t, ToBoolPtr(nil))
	assert.Equal(t, true, *ToBoolPtr("1"))
}

func TestToFloatPtr(t *testing.T) {
	assert.Nil(t, ToFloatPtr(nil))
	assert.Nil(t, ToFloatPtr("n/a"))
	assert.Equal(t, 1600.5, *ToFloatPtr("1600.5"))
	assert.Equal(t, float64(1700), *ToFloatPtr(1700))
}

func TestToTimePtr(t *testing.T) {
	want := time.Date(2020, 1, 2, 3, 4, 5, 0, time.UTC)

	assert.Nil(t, ToTimePtr(nil))
	assert.Nil(t, ToTimePtr(""))
	assert.Nil(t, ToTimePtr("yesterday"))
	assert.True(t, want.Equal(*ToTimePtr("2020-01-02T03:04:05Z")))
	assert.True(t, want.Equal(*ToTimePtr(float64(want.Unix()))))
	assert.True(t, want.Equal(*ToTimePtr("1577934245")))
}
