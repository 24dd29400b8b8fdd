package utils

// Second drops the first of two results, e.g. Second(path.Split(p)).
func Second[T any](_ any, t T) T { return t }

// Unpack2 returns the first two elements of s, zero values fill in missing ones.
func Unpack2[Slice ~[]T, T any](s Slice) (first, second T) {
	switch len(s) {
	case 0:
		return
	case 1:
		return s[0], second
	default:
		return s[0], s[1]
	}
}
