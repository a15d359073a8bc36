package util

import "github.com/asecurityteam/rolling"

func CreateRollingWindow(size int) *rolling.PointPolicy {
	return rolling.NewPointPolicy(rolling.NewWindow(size))
}

// GetWindowAbsMax returns the largest absolute value in the window
func GetWindowAbsMax(window *rolling.PointPolicy) float64 {
	return window.Reduce(func(w rolling.Window) float64 {
		result := 0.0
		for _, bucket := range w {
			for _, p := range bucket {
				if p < 0 {
					p = -p
				}
				if p > result {
					result = p
				}
			}
		}
		return result
	})
}
