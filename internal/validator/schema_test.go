package validator

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, s string) interface{} {
	t.Helper()
	dec := json.NewDecoder(strings.NewReader(s))
	dec.UseNumber()
	var doc interface{}
	require.NoError(t, dec.Decode(&doc))
	return doc
}

func TestSchemaValidate(t *testing.T) {
	schema := MustSchema("widget", Fields{
		"name":  {Type: TypeString, Required: true},
		"count": {Type: TypeInteger, Required: true},
		"note":  {Type: TypeString},
	})

	t.Run("valid", func(t *testing.T) {
		err := schema.Validate(decode(t, `{"name": "bolt", "count": 3, "extra": true}`))
		assert.NoError(t, err)
	})

	t.Run("missing required", func(t *testing.T) {
		err := schema.Validate(decode(t, `{"count": 3}`))
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		require.Len(t, verr.Messages, 1)
		assert.Contains(t, verr.Messages[0], "name")
	})

	t.Run("each missing member reported separately", func(t *testing.T) {
		err := schema.Validate(decode(t, `{"note": "spare"}`))
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		require.Len(t, verr.Messages, 2)
		assert.Contains(t, verr.Messages[0], "'count'")
		assert.Contains(t, verr.Messages[1], "'name'")
	})

	t.Run("wrong types", func(t *testing.T) {
		err := schema.Validate(decode(t, `{"name": 7, "count": "3", "note": false}`))
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		require.Len(t, verr.Messages, 3)
		assert.True(t, strings.HasPrefix(verr.Messages[0], "count: "))
		assert.True(t, strings.HasPrefix(verr.Messages[1], "name: "))
		assert.True(t, strings.HasPrefix(verr.Messages[2], "note: "))
	})

	t.Run("fractional integer", func(t *testing.T) {
		err := schema.Validate(decode(t, `{"name": "bolt", "count": 2.5}`))
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		require.Len(t, verr.Messages, 1)
		assert.True(t, strings.HasPrefix(verr.Messages[0], "count: "))
	})

	t.Run("not an object", func(t *testing.T) {
		err := schema.Validate(decode(t, `[1, 2]`))
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.NotEmpty(t, verr.Messages)
		assert.Contains(t, err.Error(), "failed validation")
	})
}
