package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/workbenchflow/workbench-api/internal/constants"
)

// GenerateOtpCode returns a uniformly random numeric code of exactly
// OtpCodeLength digits. Leading zeros are allowed.
func GenerateOtpCode() (string, error) {
	max := big.NewInt(1)
	for i := 0; i < constants.OtpCodeLength; i++ {
		max.Mul(max, big.NewInt(10))
	}

	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", fmt.Errorf("failed to generate random code: %w", err)
	}

	return fmt.Sprintf("%0*d", constants.OtpCodeLength, n), nil
}
