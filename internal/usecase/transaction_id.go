package usecase

import "io"

const (
	TransactionIDAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	TransactionIDLength   = 6
)

// NewTransactionID draws TransactionIDLength independent symbols from
// TransactionIDAlphabet. Bytes at or above the largest multiple of the
// alphabet size are rejected so every symbol is equally likely.
func NewTransactionID(r io.Reader) (string, error) {
	n := len(TransactionIDAlphabet)
	limit := 256 - 256%n
	out := make([]byte, 0, TransactionIDLength)
	buf := make([]byte, 2*TransactionIDLength)
	for len(out) < TransactionIDLength {
		if _, err := io.ReadFull(r, buf); err != nil {
			return "", err
		}
		for _, b := range buf {
			if int(b) >= limit {
				continue
			}
			out = append(out, TransactionIDAlphabet[int(b)%n])
			if len(out) == TransactionIDLength {
				break
			}
		}
	}
	return string(out), nil
}

func IsTransactionID(s string) bool {
	if len(s) != TransactionIDLength {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < 'A' || c > 'Z') && (c < '0' || c > '9') {
			return false
		}
	}
	return true
}
