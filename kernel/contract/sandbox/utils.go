package sandbox

import (
	"bytes"
	"fmt"
)

// BucketSeperator separator between bucket and raw key
const BucketSeperator = "/"

func makeRawKey(bucket string, key []byte) []byte {
	k := append([]byte(bucket), []byte(BucketSeperator)...)
	return append(k, key...)
}

func parseRawKey(rawKey []byte) (string, []byte, error) {
	idx := bytes.Index(rawKey, []byte(BucketSeperator))
	if idx < 0 {
		return "", nil, fmt.Errorf("parseRawKey failed, invalid raw key:%s", string(rawKey))
	}
	bucket := string(rawKey[:idx])
	key := rawKey[idx+1:]
	return bucket, key, nil
}

// MakeRawKey return the storage key of bucket/key
func MakeRawKey(bucket string, key []byte) []byte {
	return makeRawKey(bucket, key)
}

// ParseRawKey split a storage key into bucket and key
func ParseRawKey(rawKey []byte) (string, []byte, error) {
	return parseRawKey(rawKey)
}

func copyBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	c := make([]byte, len(b))
	copy(c, b)
	return c
}
