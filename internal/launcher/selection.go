package launcher

// Cursor movement over the result list. The cursor is always clamped to
// [0, n) and pinned to 0 when the list is empty.

func moveDown(i, n int) int {
	if i+1 >= n {
		return clampIndex(i, n)
	}
	return i + 1
}

func moveUp(i, n int) int {
	if i <= 0 {
		return 0
	}
	return clampIndex(i-1, n)
}

func clampIndex(i, n int) int {
	if n <= 0 || i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}
