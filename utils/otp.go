// utils/otp.go
package utils

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/redis/go-redis/v9"

	"freshmart/apperr"
)

const otpTTL = 5 * time.Minute

// OTPStore keeps one-time passwords in Redis with a five minute expiry.
type OTPStore struct {
	rdb *redis.Client
}

// NewOTPStore creates an OTPStore backed by rdb.
func NewOTPStore(rdb *redis.Client) *OTPStore {
	return &OTPStore{rdb: rdb}
}

// GenerateOTP returns a random six digit code.
func GenerateOTP() string {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		// crypto/rand failing means the process has bigger problems
		panic(err)
	}
	return fmt.Sprintf("%06d", n.Int64())
}

// Issue stores a fresh OTP for phone, replacing any outstanding one.
func (s *OTPStore) Issue(ctx context.Context, phone string) (string, error) {
	otp := GenerateOTP()
	if err := s.rdb.Set(ctx, "otp:"+phone, otp, otpTTL).Err(); err != nil {
		return "", apperr.Internal(err)
	}
	return otp, nil
}

// Verify checks the OTP for phone and consumes it on success. A wrong guess
// leaves the stored code in place until it expires.
func (s *OTPStore) Verify(ctx context.Context, phone, otp string) error {
	key := "otp:" + phone
	stored, err := s.rdb.Get(ctx, key).Result()
	if err == redis.Nil {
		return apperr.InvalidArgument("OTP expired or not found")
	}
	if err != nil {
		return apperr.Internal(err)
	}
	if stored != otp {
		return apperr.InvalidArgument("invalid OTP")
	}
	if err := s.rdb.Del(ctx, key).Err(); err != nil {
		return apperr.Internal(err)
	}
	return nil
}
