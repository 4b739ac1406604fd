package sensor

// window is a fixed-size moving average over resistance samples. Rail
// readings occupy a slot so they age out like any other sample, but they
// are excluded from the mean.
type window struct {
	vals  []float64
	rail  []bool
	next  int
	count int
	rails int
	sum   float64
}

func newWindow(size int) *window {
	return &window{
		vals: make([]float64, size),
		rail: make([]bool, size),
	}
}

func (w *window) push(ohms float64, ok bool) {
	if w.count == len(w.vals) {
		if w.rail[w.next] {
			w.rails--
		} else {
			w.sum -= w.vals[w.next]
		}
	} else {
		w.count++
	}

	w.rail[w.next] = !ok
	if ok {
		w.vals[w.next] = ohms
		w.sum += ohms
	} else {
		w.vals[w.next] = 0
		w.rails++
	}
	w.next = (w.next + 1) % len(w.vals)
}

// mean returns the average of the valid samples. It reports false when the
// window is empty or mostly rail readings.
func (w *window) mean() (float64, bool) {
	valid := w.count - w.rails
	if valid == 0 || w.rails*2 > w.count {
		return 0, false
	}
	return w.sum / float64(valid), true
}
