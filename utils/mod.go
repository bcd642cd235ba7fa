package utils

// FindIndex returns the position of the first element equal to item, or -1.
func FindIndex[T comparable](items []T, item T) int {
	for i, v := range items {
		if v == item {
			return i
		}
	}
	return -1
}
