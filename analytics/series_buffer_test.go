package analytics

import (
	"reflect"
	"testing"
)

func TestSeriesBuffer_BelowCapacity(t *testing.T) {
	sb := NewSeriesBuffer(4)
	sb.Add(1, 10)
	sb.Add(2, 20)

	values, periods := sb.Points()

	if !reflect.DeepEqual(values, []float64{10, 20}) || !reflect.DeepEqual(periods, []float64{1, 2}) {
		t.Errorf("got values %v periods %v", values, periods)
	}
	if sb.Len() != 2 {
		t.Errorf("Len() = %d, want 2", sb.Len())
	}
}

func TestSeriesBuffer_Wraps(t *testing.T) {
	sb := NewSeriesBuffer(3)
	for i := 1; i <= 5; i++ {
		sb.Add(float64(i), float64(i*10))
	}

	values, periods := sb.Points()

	if !reflect.DeepEqual(values, []float64{30, 40, 50}) {
		t.Errorf("values = %v, want oldest-first [30 40 50]", values)
	}
	if !reflect.DeepEqual(periods, []float64{3, 4, 5}) {
		t.Errorf("periods = %v", periods)
	}
}

func TestSeriesBuffer_PointsAreCopies(t *testing.T) {
	sb := NewSeriesBuffer(2)
	sb.Add(1, 1)

	values, _ := sb.Points()
	values[0] = 99

	if again, _ := sb.Points(); again[0] != 1 {
		t.Error("Points must not expose the internal buffer")
	}
}
