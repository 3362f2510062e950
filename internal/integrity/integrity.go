// Package integrity computes and verifies the SHA-256 commitments that bind a
// job's input and result to the purchaser-supplied identifier.
package integrity

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
)

// hashDelimiter joins the purchaser identifier and the canonical payload in
// the current commitment format. Commitments from older protocol versions
// were computed without it; input verification still accepts those.
const hashDelimiter = ";"

// HashInput returns the hex SHA-256 commitment for a JSON input payload.
// The payload is canonicalized first, so two JSON documents with the same
// keys and values hash identically regardless of construction order.
func HashInput(identifier string, input []byte) (string, error) {
	canonical, err := CanonicalizeJSON(input)
	if err != nil {
		return "", fmt.Errorf("canonicalize input: %w", err)
	}
	return hash(identifier + hashDelimiter + canonical), nil
}

// HashResult returns the hex SHA-256 commitment for a plain-string result
// payload. Result payloads are committed as-is, without JSON canonicalization.
func HashResult(identifier, result string) string {
	return hash(identifier + hashDelimiter + result)
}

// VerifyInput reports whether candidateHash commits to (identifier, input).
// Both the current and the deprecated no-delimiter formula are accepted.
// A missing hash, missing payload, or unparseable payload verifies as false.
func VerifyInput(identifier string, input []byte, candidateHash string) bool {
	if candidateHash == "" || len(input) == 0 {
		return false
	}
	canonical, err := CanonicalizeJSON(input)
	if err != nil {
		return false
	}
	if hash(identifier+hashDelimiter+canonical) == candidateHash {
		return true
	}
	return hash(identifier+canonical) == candidateHash
}

// VerifyResult reports whether candidateHash commits to (identifier, result).
// Unlike VerifyInput there is no deprecated variant.
func VerifyResult(identifier, result, candidateHash string) bool {
	if candidateHash == "" || result == "" {
		return false
	}
	return HashResult(identifier, result) == candidateHash
}

// CanonicalizeJSON re-serializes a JSON document with object keys sorted at
// every level, so the byte representation is independent of key order.
func CanonicalizeJSON(raw []byte) (string, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return "", err
	}
	if dec.More() {
		return "", fmt.Errorf("trailing data after JSON document")
	}

	var buf bytes.Buffer
	if err := writeCanonical(&buf, v); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func writeCanonical(buf *bytes.Buffer, v any) error {
	switch val := v.(type) {
	case map[string]any:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		buf.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			kb, err := json.Marshal(k)
			if err != nil {
				return err
			}
			buf.Write(kb)
			buf.WriteByte(':')
			if err := writeCanonical(buf, val[k]); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
		return nil
	case []any:
		buf.WriteByte('[')
		for i, item := range val {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeCanonical(buf, item); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
		return nil
	case json.Number:
		buf.WriteString(val.String())
		return nil
	default:
		b, err := json.Marshal(val)
		if err != nil {
			return err
		}
		buf.Write(b)
		return nil
	}
}

func hash(payload string) string {
	sum := sha256.Sum256([]byte(payload))
	return hex.EncodeToString(sum[:])
}
