package utils

import (
	"crypto/rand"
	"math/big"
)

const referralCodeChars = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// ReferralCodeLength is the length of user referral codes.
const ReferralCodeLength = 8

// GenerateReferralCode returns a random 8-character uppercase alphanumeric
// code. Uniqueness is enforced by the caller against the accounts table.
func GenerateReferralCode() string {
	b := make([]byte, ReferralCodeLength)
	max := big.NewInt(int64(len(referralCodeChars)))
	for i := range b {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			// crypto/rand only fails if the OS entropy source is broken
			b[i] = referralCodeChars[0]
			continue
		}
		b[i] = referralCodeChars[n.Int64()]
	}
	return string(b)
}
