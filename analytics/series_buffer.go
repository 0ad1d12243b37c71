package analytics

// SeriesBuffer keeps the most recent points of one stat series. Once full,
// each Add overwrites the oldest point.
type SeriesBuffer struct {
	capacity int
	values   []float64
	periods  []float64
	index    int
	count    int
}

func NewSeriesBuffer(capacity int) *SeriesBuffer {
	if capacity < 1 {
		capacity = 1
	}
	return &SeriesBuffer{
		capacity: capacity,
		values:   make([]float64, capacity),
		periods:  make([]float64, capacity),
	}
}

func (sb *SeriesBuffer) Add(period, value float64) {
	sb.values[sb.index] = value
	sb.periods[sb.index] = period
	sb.index = (sb.index + 1) % sb.capacity

	if sb.count < sb.capacity {
		sb.count++
	}
}

func (sb *SeriesBuffer) Len() int {
	return sb.count
}

// Points returns copies of the retained values and periods, oldest first.
func (sb *SeriesBuffer) Points() (values, periods []float64) {
	values = make([]float64, 0, sb.count)
	periods = make([]float64, 0, sb.count)

	start := 0
	if sb.count == sb.capacity {
		start = sb.index
	}
	for i := 0; i < sb.count; i++ {
		pos := (start + i) % sb.capacity
		values = append(values, sb.values[pos])
		periods = append(periods, sb.periods[pos])
	}
	return values, periods
}
