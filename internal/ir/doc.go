// Package ir provides the program and snapshot types shared across qbridge.
//
// This package contains type definitions and canonical encoding only. All
// other internal packages import ir; ir imports nothing internal.
//
// Key design constraints:
//   - NO float types in canonical JSON - gate parameters travel as decimal strings
//   - Program statements are ordered; order is part of a program's identity
//   - All JSON tags use snake_case
package ir
