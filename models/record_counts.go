// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 MonBureau

package models

// RecordCounts holds the domain record counts collected from the live
// database for backup metadata. Fields are pointers so that a count that
// could not be collected (missing table, query failure) is distinguishable
// from a genuine zero.
type RecordCounts struct {
	Clients *int
	Cases   *int
	Items   *int
}
