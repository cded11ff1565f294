package models

import "sort"

func sortByCreated(apps []*Application, newestFirst bool) {
	sort.SliceStable(apps, func(i, j int) bool {
		a, b := apps[i], apps[j]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			if newestFirst {
				return a.CreatedAt.After(b.CreatedAt)
			}
			return a.CreatedAt.Before(b.CreatedAt)
		}
		if newestFirst {
			return a.ID > b.ID
		}
		return a.ID < b.ID
	})
}

// SortNewestFirst orders applications by creation time, newest first.
func SortNewestFirst(apps []*Application) {
	sortByCreated(apps, true)
}
