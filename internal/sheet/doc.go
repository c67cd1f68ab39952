// Package sheet provides the tabular backing-store boundary: a Table
// interface over A1-addressed string rows, a Google Sheets client, and an
// in-memory implementation for tests.
package sheet
