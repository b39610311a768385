package uart

// Write transmits p with the same newline handling as PutString. It always
// consumes all of p.
func (u *UART) Write(p []byte) (int, error) {
	for _, b := range p {
		if b == '\n' {
			u.PutByte('\r')
		}
		u.PutByte(b)
	}
	return len(p), nil
}

// WriteString is the io.StringWriter form of PutString.
func (u *UART) WriteString(s string) (int, error) {
	u.PutString(s)
	return len(s), nil
}

// WriteByte transmits b untranslated.
func (u *UART) WriteByte(b byte) error {
	u.PutByte(b)
	return nil
}
