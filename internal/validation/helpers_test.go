package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRequireColumns(t *testing.T) {
	have := []string{"Division", "Claim Amount", "Claim No"}

	t.Run("all present", func(t *testing.T) {
		res := RequireColumns("compensation", have, []string{"Division", "Claim No"})
		assert.True(t, res.OK())
		assert.Equal(t, "", res.Describe())
	})

	t.Run("missing columns are reported in required order", func(t *testing.T) {
		res := RequireColumns("compensation", have, []string{"Division", "RO Id.", "No. of Days"})
		assert.False(t, res.OK())
		assert.Equal(t, []string{"RO Id.", "No. of Days"}, res.Missing)
		assert.Equal(t, "compensation missing columns: RO Id., No. of Days", res.Describe())
	})

	t.Run("no requirements", func(t *testing.T) {
		assert.True(t, RequireColumns("ledger", nil, nil).OK())
	})

	t.Run("nil result is ok", func(t *testing.T) {
		var res *Result
		assert.True(t, res.OK())
		assert.Equal(t, "", res.Describe())
	})
}

func TestAllowListed(t *testing.T) {
	have := []string{"Claim Amount", "Division", "Extra"}
	allowed := []string{"Division", "RO Id.", "Claim Amount"}

	present, missing := AllowListed(have, allowed)
	assert.Equal(t, []string{"Division", "Claim Amount"}, present, "present columns keep allow-list order")
	assert.Equal(t, []string{"RO Id."}, missing)

	t.Run("nothing allowed", func(t *testing.T) {
		present, missing := AllowListed(have, nil)
		assert.Nil(t, present)
		assert.Nil(t, missing)
	})
}
