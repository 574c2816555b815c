// Package invalidation encodes which cached client views become stale after
// each mutation. The API cannot push invalidations, so handlers advertise the
// affected query keys in a response header and clients refetch those views.
package invalidation

import "strings"

// Header carries the comma separated stale query keys on mutation responses.
const Header = "X-Invalidate"

const (
	QueryAccounts     = "accounts"
	QueryCategories   = "categories"
	QueryTransactions = "transactions"
	QuerySummary      = "summary"
)

// Set is an ordered list of stale query keys. List keys come first, then
// detail keys of the mutated rows, then any cross-resource keys.
type Set []string

func (s Set) String() string {
	return strings.Join(s, ", ")
}

func (s Set) Contains(key string) bool {
	for _, k := range s {
		if k == key {
			return true
		}
	}
	return false
}

// AccountMutation marks account list and detail views stale.
func AccountMutation(ids ...string) Set {
	set := Set{QueryAccounts}
	for _, id := range ids {
		set = append(set, "account:"+id)
	}
	return set
}

func CategoryMutation(ids ...string) Set {
	set := Set{QueryCategories}
	for _, id := range ids {
		set = append(set, "category:"+id)
	}
	return set
}

// TransactionMutation marks transaction views and the aggregate summary
// stale. When the mutation touched an account or category reference, the
// affected detail views are included as well.
func TransactionMutation(ids, accountIDs, categoryIDs []string) Set {
	set := Set{QueryTransactions}
	for _, id := range ids {
		set = append(set, "transaction:"+id)
	}
	set = append(set, QuerySummary)
	for _, id := range accountIDs {
		set = append(set, "account:"+id)
	}
	for _, id := range categoryIDs {
		set = append(set, "category:"+id)
	}
	return set
}
