// Copyright (c) 2026 Vadali. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package migrations embeds the SQL migrations of the Postgres document store.
package migrations

import "embed"

// FS holds every *.sql migration in this directory.
//
//go:embed *.sql
var FS embed.FS
