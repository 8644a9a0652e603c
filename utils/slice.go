package utils

// Map applies mapper to every element of src.
func Map[T any, U any](src []T, mapper func(T) U) []U {
	dst := make([]U, 0, len(src))
	for _, item := range src {
		dst = append(dst, mapper(item))
	}
	return dst
}
