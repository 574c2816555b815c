package invalidation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAccountMutation(t *testing.T) {
	set := AccountMutation("acc-1", "acc-2")
	assert.Equal(t, Set{"accounts", "account:acc-1", "account:acc-2"}, set)
	assert.Equal(t, "accounts, account:acc-1, account:acc-2", set.String())
}

func TestTransactionMutation_AlwaysStalesSummary(t *testing.T) {
	set := TransactionMutation([]string{"t1"}, []string{"acc-1"}, []string{"cat-1"})
	assert.True(t, set.Contains(QueryTransactions))
	assert.True(t, set.Contains(QuerySummary))
	assert.True(t, set.Contains("transaction:t1"))
	assert.True(t, set.Contains("account:acc-1"))
	assert.True(t, set.Contains("category:cat-1"))
	assert.False(t, set.Contains(QueryAccounts))
}

func TestTransactionMutation_NoReferences(t *testing.T) {
	set := TransactionMutation([]string{"t1"}, nil, nil)
	assert.Equal(t, Set{"transactions", "transaction:t1", "summary"}, set)
}
