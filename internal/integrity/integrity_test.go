package integrity

import (
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const identifier = "purchaser-7f3a"

func TestCanonicalizeJSON_KeyOrderIrrelevant(t *testing.T) {
	a := []byte(`{"b":1,"a":{"y":"2","x":[1,2,3]}}`)
	b := []byte(`{"a":{"x":[1,2,3],"y":"2"},"b":1}`)

	ca, err := CanonicalizeJSON(a)
	require.NoError(t, err)
	cb, err := CanonicalizeJSON(b)
	require.NoError(t, err)

	assert.Equal(t, ca, cb)
	assert.Equal(t, `{"a":{"x":[1,2,3],"y":"2"},"b":1}`, ca)
}

func TestCanonicalizeJSON_PreservesNumberText(t *testing.T) {
	c, err := CanonicalizeJSON([]byte(`{"n":10.50,"big":9007199254740993}`))
	require.NoError(t, err)
	assert.Equal(t, `{"big":9007199254740993,"n":10.50}`, c)
}

func TestHashInput_Deterministic(t *testing.T) {
	h1, err := HashInput(identifier, []byte(`{"prompt":"hello","depth":2}`))
	require.NoError(t, err)
	h2, err := HashInput(identifier, []byte(`{"depth":2,"prompt":"hello"}`))
	require.NoError(t, err)

	assert.Equal(t, h1, h2)
	assert.True(t, VerifyInput(identifier, []byte(`{"depth":2,"prompt":"hello"}`), h1))
}

func TestVerifyInput_DeprecatedVariantAccepted(t *testing.T) {
	input := []byte(`{"prompt":"hello"}`)
	canonical, err := CanonicalizeJSON(input)
	require.NoError(t, err)

	sum := sha256.Sum256([]byte(identifier + canonical)) // no delimiter
	deprecated := hex.EncodeToString(sum[:])

	assert.True(t, VerifyInput(identifier, input, deprecated))
}

func TestVerifyInput_Rejections(t *testing.T) {
	input := []byte(`{"prompt":"hello"}`)
	h, err := HashInput(identifier, input)
	require.NoError(t, err)

	assert.False(t, VerifyInput(identifier, input, ""), "missing hash")
	assert.False(t, VerifyInput(identifier, nil, h), "missing payload")
	assert.False(t, VerifyInput(identifier, []byte(`{"prompt":`), h), "malformed payload")
	assert.False(t, VerifyInput(identifier, []byte(`{} trailing`), h), "trailing data")
	assert.False(t, VerifyInput("other-purchaser", input, h), "wrong identifier")
	assert.False(t, VerifyInput(identifier, []byte(`{"prompt":"bye"}`), h), "wrong payload")
}

func TestVerifyResult(t *testing.T) {
	result := `{"answer":42}`
	h := HashResult(identifier, result)

	assert.True(t, VerifyResult(identifier, result, h))
	assert.False(t, VerifyResult(identifier, "", h))
	assert.False(t, VerifyResult(identifier, result, ""))
	assert.False(t, VerifyResult("other-purchaser", result, h))
}

// Result commitments have no deprecated variant: a no-delimiter hash must not
// verify.
func TestVerifyResult_DeprecatedVariantRejected(t *testing.T) {
	result := "final answer"
	sum := sha256.Sum256([]byte(identifier + result))
	deprecated := hex.EncodeToString(sum[:])

	assert.False(t, VerifyResult(identifier, result, deprecated))
}
