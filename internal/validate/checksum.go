package validate

// ValidThaiID reports whether a 13-digit Thai national ID or tax ID passes
// the official check digit: each of the first 12 digits is weighted by
// 13-index, summed, and (11 - sum mod 11) mod 10 must equal digit 13.
func ValidThaiID(id string) bool {
	if len(id) != 13 {
		return false
	}
	sum := 0
	for i := 0; i < 12; i++ {
		d := id[i]
		if d < '0' || d > '9' {
			return false
		}
		sum += int(d-'0') * (13 - i)
	}
	last := id[12]
	if last < '0' || last > '9' {
		return false
	}
	check := (11 - sum%11) % 10
	return check == int(last-'0')
}
