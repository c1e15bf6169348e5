package harness

import (
	"fmt"
	"strings"
)

func assertTraceContains(r *Result, idx int, want string) {
	for _, line := range r.Trace {
		if strings.Contains(line, want) {
			return
		}
	}
	r.AddError(fmt.Sprintf("assertion %d: no trace line contains %q", idx, want))
}

func assertTraceAbsent(r *Result, idx int, forbidden string) {
	for _, line := range r.Trace {
		if strings.Contains(line, forbidden) {
			r.AddError(fmt.Sprintf("assertion %d: trace line %q contains forbidden %q", idx, line, forbidden))
			return
		}
	}
}

func assertTraceOrder(r *Result, idx int, wants []string) {
	pos := 0
	for _, want := range wants {
		found := false
		for ; pos < len(r.Trace); pos++ {
			if strings.Contains(r.Trace[pos], want) {
				found = true
				pos++
				break
			}
		}
		if !found {
			r.AddError(fmt.Sprintf("assertion %d: %q not found in order", idx, want))
			return
		}
	}
}

func assertTabOrder(r *Result, idx int, window uint64, want []uint64) {
	for _, w := range r.Windows {
		if w.ID != window {
			continue
		}
		if len(w.Tabs) != len(want) {
			r.AddError(fmt.Sprintf("assertion %d: window %d has tabs %v, want %v", idx, window, w.Tabs, want))
			return
		}
		for i := range want {
			if w.Tabs[i] != want[i] {
				r.AddError(fmt.Sprintf("assertion %d: window %d has tabs %v, want %v", idx, window, w.Tabs, want))
				return
			}
		}
		return
	}
	r.AddError(fmt.Sprintf("assertion %d: window %d not in result", idx, window))
}

func assertSelectedTab(r *Result, idx int, window, want uint64) {
	for _, w := range r.Windows {
		if w.ID != window {
			continue
		}
		if w.Selected != want {
			r.AddError(fmt.Sprintf("assertion %d: window %d selected tab %d, want %d", idx, window, w.Selected, want))
		}
		return
	}
	r.AddError(fmt.Sprintf("assertion %d: window %d not in result", idx, window))
}

func assertSessionOutcome(r *Result, idx int, want string) {
	prefix := "ended "
	for i := len(r.Sessions) - 1; i >= 0; i-- {
		line := r.Sessions[i]
		if !strings.HasPrefix(line, prefix) {
			continue
		}
		if strings.HasSuffix(line, "outcome="+want) {
			return
		}
		r.AddError(fmt.Sprintf("assertion %d: last session line %q, want outcome %q", idx, line, want))
		return
	}
	r.AddError(fmt.Sprintf("assertion %d: no session ended, want outcome %q", idx, want))
}
