package infrastructure

import (
	sq "github.com/Masterminds/squirrel"
)

// Postgres returns the statement builder used against the production database.
func Postgres() sq.StatementBuilderType {
	return sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
}

// SQLite returns a builder for the sqlite databases used in tests.
func SQLite() sq.StatementBuilderType {
	return sq.StatementBuilder.PlaceholderFormat(sq.Question)
}

// ownedBy is the ownership predicate. Every repository query and mutation in
// this package goes through it (or one of the derived combinators below), so
// the user_id filter is part of the statement's WHERE clause itself and cannot
// be skipped on a new resource type.
func ownedBy(table, userID string) sq.Eq {
	return sq.Eq{table + ".user_id": userID}
}

func ownedRow(table, userID, id string) sq.And {
	return sq.And{ownedBy(table, userID), sq.Eq{table + ".id": id}}
}

func ownedSet(table, userID string, ids []string) sq.And {
	return sq.And{ownedBy(table, userID), sq.Eq{table + ".id": ids}}
}
