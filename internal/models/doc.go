// Package models defines the core domain entities for the expense tracker.
//
// # Entities
//
//   - User: account identified by a unique username and email
//   - Category: expense classification, unique by name
//   - Budget: per-user spending limit for one (category, month, year) cell
//   - Expense: a single spending record, personal or shared with a group
//   - Group: a fixed set of users who share expenses
//   - ExpenseSplit: one member's share of a shared expense
//   - Alert: budget warning configuration, global or per category
//
// # Design Principles
//
//  1. Amounts are money.Money minor units everywhere; no floats hold currency.
//  2. Relationships use ID strings instead of pointers, avoiding cycles.
//  3. Records are append-only: nothing is updated in place except budget and
//     alert upserts, which keeps balance computation auditable.
package models
