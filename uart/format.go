package uart

// maxDigits is the length of MaxUint64 in decimal.
const maxDigits = 20

// PutUint transmits n in decimal without leading zeros.
func (u *UART) PutUint(n uint64) {
	if n == 0 {
		u.PutByte('0')
		return
	}

	var buf [maxDigits]byte
	i := 0
	for n > 0 {
		buf[i] = '0' + byte(n%10)
		n /= 10
		i++
	}
	for i > 0 {
		i--
		u.PutByte(buf[i])
	}
}
