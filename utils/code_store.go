package utils

import (
	"context"
	"crypto/rand"
	"math/big"
	"sync"
	"time"
)

// in-memory fallback store for password-reset codes
type codeEntry struct {
	code      string
	expiresAt time.Time
}

var (
	codeStore   = map[string]codeEntry{}
	codeStoreMu sync.Mutex
)

// GenerateResetCode creates a numeric verification code with given length.
func GenerateResetCode(n int) string {
	if n <= 0 {
		n = 6
	}
	digits := make([]byte, n)
	for i := 0; i < n; i++ {
		v, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			v = big.NewInt(time.Now().UnixNano() % 10)
		}
		digits[i] = byte('0' + v.Int64())
	}
	return string(digits)
}

func resetKey(email string) string {
	return "auth:reset:" + email
}

// SaveResetCode stores a password-reset code for an email with TTL.
// Prefers Redis, falls back to memory.
func SaveResetCode(email, code string, ttl time.Duration) {
	if rc := GetRedis(); rc != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := rc.Set(ctx, resetKey(email), code, ttl).Err(); err == nil {
			return
		}
	}
	codeStoreMu.Lock()
	codeStore[email] = codeEntry{code: code, expiresAt: time.Now().Add(ttl)}
	codeStoreMu.Unlock()
}

// VerifyAndConsumeResetCode checks a code and consumes it when valid so a
// code can only be used once.
func VerifyAndConsumeResetCode(email, code string) bool {
	if rc := GetRedis(); rc != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if val, err := rc.GetDel(ctx, resetKey(email)).Result(); err == nil {
			return val == code
		}
		// on Redis errors fall through to the memory store
	}

	codeStoreMu.Lock()
	defer codeStoreMu.Unlock()
	entry, ok := codeStore[email]
	if !ok {
		return false
	}
	if time.Now().After(entry.expiresAt) {
		delete(codeStore, email)
		return false
	}
	if entry.code != code {
		return false
	}
	delete(codeStore, email)
	return true
}

// ResetCooldownTrySet sets a cooldown key for sending a reset email.
// Returns false while a previous send is still cooling down.
func ResetCooldownTrySet(email string, cooldown time.Duration) bool {
	if rc := GetRedis(); rc != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		ok, err := rc.SetNX(ctx, "auth:reset:cooldown:"+email, "1", cooldown).Result()
		if err == nil {
			return ok
		}
	}

	key := "cooldown:" + email
	codeStoreMu.Lock()
	defer codeStoreMu.Unlock()
	if entry, ok := codeStore[key]; ok && time.Now().Before(entry.expiresAt) {
		return false
	}
	codeStore[key] = codeEntry{code: "1", expiresAt: time.Now().Add(cooldown)}
	return true
}
