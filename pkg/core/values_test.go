package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestValuesEqual(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name string
		a    any
		b    any
		want bool
	}{
		{name: "both nil", a: nil, b: nil, want: true},
		{name: "nil vs value", a: nil, b: 0, want: false},
		{name: "equal strings", a: "x", b: "x", want: true},
		{name: "bytes vs string", a: []byte("x"), b: "x", want: true},
		{name: "int vs int64", a: 5, b: int64(5), want: true},
		{name: "int vs float", a: 5, b: 5.0, want: true},
		{name: "unequal numbers", a: 5, b: 6.0, want: false},
		{name: "number vs string", a: 5, b: "5", want: false},
		{name: "equal times", a: now, b: now.UTC(), want: true},
		{name: "unequal times", a: now, b: now.Add(time.Second), want: false},
		{name: "time vs string", a: now, b: now.String(), want: false},
		{name: "bools", a: true, b: true, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValuesEqual(tt.a, tt.b))
			assert.Equal(t, tt.want, ValuesEqual(tt.b, tt.a), "comparison must be symmetric")
		})
	}
}

func TestNormalizeValue(t *testing.T) {
	assert.Equal(t, "abc", NormalizeValue([]byte("abc")))
	assert.Equal(t, int64(3), NormalizeValue(int64(3)))
	assert.Nil(t, NormalizeValue(nil))
}

func TestFormatScalar(t *testing.T) {
	assert.Equal(t, "NULL", formatScalar(nil))
	assert.Equal(t, "7", formatScalar(7.0))
	assert.Equal(t, "1.5", formatScalar(1.5))
	assert.Equal(t, "abc", formatScalar([]byte("abc")))
}
