package types

import (
	"fmt"
	"strings"
	"sync"

	"github.com/oklog/ulid/v2"
	"github.com/teris-io/shortid"
)

// GenerateUUID returns a k-sortable unique identifier
func GenerateUUID() string {
	return ulid.Make().String()
}

// GenerateUUIDWithPrefix returns a k-sortable unique identifier
// with a prefix ex inv_01HQ7ZB4M2T0P9XK3V6S8D1F5G
func GenerateUUIDWithPrefix(prefix string) string {
	if prefix == "" {
		return GenerateUUID()
	}
	return fmt.Sprintf("%s_%s", prefix, GenerateUUID())
}

var (
	sidGenerator *shortid.Shortid
	once         sync.Once
)

func initializeSID() {
	var err error
	sidGenerator, err = shortid.New(1, shortid.DefaultABC, 2342)
	if err != nil {
		panic("failed to initialize shortid generator: " + err.Error())
	}
}

// GenerateShortIDWithPrefix returns a short ID with a prefix.
// Total length is capped at 12 characters, e.g., `KDXYZ12A8Q`.
func GenerateShortIDWithPrefix(prefix string) string {
	once.Do(initializeSID)

	id, err := sidGenerator.Generate()
	if err != nil {
		return ""
	}
	id = strings.ReplaceAll(id, "-", "")
	id = strings.ReplaceAll(id, "_", "")

	availableLen := 12 - len(prefix)
	if availableLen <= 0 {
		return ""
	}

	if len(id) > availableLen {
		id = id[:availableLen]
	}

	return strings.ToUpper(fmt.Sprintf("%s%s", prefix, id))
}

const (
	// Prefixes for all domains and entities

	UUID_PREFIX_TUTOR              = "tut"
	UUID_PREFIX_BUSINESS_PROFILE   = "bp"
	UUID_PREFIX_STUDENT            = "stu"
	UUID_PREFIX_COURSE             = "crs"
	UUID_PREFIX_LESSON             = "les"
	UUID_PREFIX_INVOICE            = "inv"
	UUID_PREFIX_INVOICE_ITEM       = "invi"
	UUID_PREFIX_INVOICE_ADJUSTMENT = "inva"
	UUID_PREFIX_EXAM_RECORD        = "exr"
	UUID_PREFIX_EXAM_ATTACHMENT    = "exa"
	UUID_PREFIX_OFFICIAL_RESULT    = "exo"

	SHORT_ID_PREFIX_CUSTOMER = "KD"
)
