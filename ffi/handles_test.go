package ffi

func liveBuses() int {
	n := 0
	busRegistry.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}
