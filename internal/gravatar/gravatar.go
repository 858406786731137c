// Package gravatar derives deterministic avatar URLs from email addresses.
package gravatar

import (
	"crypto/md5"
	"fmt"
	"net/url"
	"strings"
)

const baseURL = "https://www.gravatar.com/avatar/"

// URL returns the gravatar image URL for the given email: 200px, PG rated,
// with the "mystery man" fallback for addresses without a gravatar.
func URL(email string) string {
	normalized := strings.ToLower(strings.TrimSpace(email))
	hash := md5.Sum([]byte(normalized))

	params := url.Values{}
	params.Set("s", "200")
	params.Set("r", "pg")
	params.Set("d", "mm")

	return fmt.Sprintf("%s%x?%s", baseURL, hash, params.Encode())
}
