package dice

import (
	"bytes"
	crypto "crypto/rand"
	"encoding/json"
	"fmt"
	"math"
	"math/big"
	"strings"
)

// CryptoInt64 is a convenience function that returns a cryptographically
// random int64 using the system's CSPRNG. If there is a problem generating
// enough entropy it returns a non-nil error.
//
// This function is handy for seeding math/rand-based Engines with uniform
// random values; it does not itself go through a Generator/Engine.
func CryptoInt64() (int64, error) {
	i, err := crypto.Int(crypto.Reader, big.NewInt(math.MaxInt64))
	if err != nil {
		return 0, err
	}
	return i.Int64(), nil
}

// quote returns the input string wrapped within quotation marks.
func quote(s string) string {
	return strings.Join([]string{"\"", s, "\""}, "")
}

// expression creates a math expression from an arbitrary set of interfaces,
// joining them with "+" and folding "+-" into "-" so negative contributions
// read naturally.
func expression(i ...interface{}) string {
	raw := strings.Trim(strings.Join(strings.Fields(fmt.Sprint(i...)), "+"), "[]")
	return strings.Replace(raw, "+-", "-", -1)
}

func jsonEncode(in interface{}) []byte {
	if in == nil {
		return nil
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	if err := enc.Encode(in); err != nil {
		return nil
	}
	return buf.Bytes()
}
