package entities

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAdventurer_AdjustedStamina(t *testing.T) {
	tests := []struct {
		name    string
		stamina int
		amount  int
		want    int
	}{
		{name: "recover", stamina: 40, amount: 25, want: 65},
		{name: "spend", stamina: 40, amount: -25, want: 15},
		{name: "floored at zero", stamina: 40, amount: -100, want: 0},
		{name: "lowest amount", stamina: 100, amount: math.MinInt, want: 0},
		{name: "largest amount saturates", stamina: 100, amount: math.MaxInt, want: math.MaxInt},
		{name: "already at the top", stamina: math.MaxInt, amount: 1, want: math.MaxInt},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := Adventurer{Stamina: tt.stamina}
			assert.Equal(t, tt.want, a.AdjustedStamina(tt.amount))
		})
	}
}

func TestStudent_CanLevelUp(t *testing.T) {
	assert.True(t, Student{Level: 2, Points: 200}.CanLevelUp())
	assert.False(t, Student{Level: 2, Points: 199}.CanLevelUp())
	assert.Equal(t, 300, Student{Level: 3}.PointsToLevelUp())
}
