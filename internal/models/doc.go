// Package models defines the core domain models for housesplit.
//
// # Ledger
//
// A Group owns Members, Expenses and Settlements. Expenses and Settlements
// are immutable once recorded; balances are never stored, they are derived
// from a GroupSnapshot by the calculator package.
//
//   - Group: a household or any recurring set of people sharing costs
//   - Member: a person inside one group, identified by an ID unique to that group
//   - Expense: money one member paid on behalf of others, with a Split rule
//   - Settlement: a real-world repayment between two members
//
// # Accounts
//
// User is a registered login. Users and Members are deliberately separate:
// a member does not need an account to appear on a shared ledger.
//
// # Design Principles
//
// 1. **Exact money**: every amount is a money.Amount in minor units
// 2. **Append-only**: no update or delete operations on ledger records
// 3. **Avoid circular references**: relationships are ID strings, not pointers
package models
