package recordstore

import (
	"math/big"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

const idSuffixLength = 11

// GenerateID returns an identifier that is unique with overwhelming probability.
// It joins the base36 encoded current time in nanoseconds with a random base36 suffix.
// There is no counter and no collision check.
func GenerateID() string {
	return generateIDAt(time.Now())
}

func generateIDAt(now time.Time) string {
	random := uuid.New()
	suffix := new(big.Int).SetBytes(random[:]).Text(36)

	if len(suffix) > idSuffixLength {
		suffix = suffix[len(suffix)-idSuffixLength:]
	} else {
		suffix = strings.Repeat("0", idSuffixLength-len(suffix)) + suffix
	}

	return strconv.FormatInt(now.UnixNano(), 36) + suffix
}
