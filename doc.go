// Package cryptofolio keeps a ledger of crypto trades imported from several
// exchanges and computes what they earned.
//
// The core functionalities include:
//   - Canonical trades: every exchange export is normalized into a [Trade]
//     made of an [Order], an [Exchange] reference, a [Date], an [Action] and
//     [Money] values with a fixed currency peg.
//   - Ledger: a deduplicating, append-only collection of trades queryable by
//     [Criteria]. The natural key of a trade is its exchange reference and its
//     order, so importing the same export twice is a no-op.
//   - Accounting: a stateless engine computing realized profit with strict
//     First-In-First-Out lot matching, holdings and fees on top of a [Store].
//
// Exchange specific normalization lives in the importer package, the price
// lookup used for conversion trades in the prices package and the SQL store in
// the sqlstore package. The `cfl` command line tool wires them together.
package cryptofolio
