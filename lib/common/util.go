package common

import (
	"bytes"
	"encoding/json"
	"os"
	"strconv"

	"github.com/google/uuid"
)

func GenerateUUID() string {
	return uuid.New().String()
}

func GetENVValue(key, defaultValue string) (v string) {
	var found bool
	if v, found = os.LookupEnv(key); !found {
		return defaultValue
	}

	return
}

func MustUnmarshalJSON(data []byte, v interface{}) {
	if err := json.Unmarshal(data, v); err != nil {
		panic(err)
	}
}

func MustMarshalJSON(o interface{}) []byte {
	b, err := json.Marshal(o)
	if err != nil {
		panic(err)
	}

	return b
}

func JSONMarshalWithoutEscapeHTML(v interface{}) ([]byte, error) {
	buffer := &bytes.Buffer{}
	encoder := json.NewEncoder(buffer)
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(v); err != nil {
		return nil, err
	}

	return bytes.TrimRight(buffer.Bytes(), "\n"), nil
}

// PaddedUint64 formats `i` so the lexicographic order of keys follows the
// numeric order.
func PaddedUint64(i uint64) string {
	s := strconv.FormatUint(i, 10)
	return string(bytes.Repeat([]byte("0"), 20-len(s))) + s
}

func InStringArray(a []string, s string) (index int, found bool) {
	for index = range a {
		if a[index] == s {
			return index, true
		}
	}

	return -1, false
}
