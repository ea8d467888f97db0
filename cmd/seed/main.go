// Copyright (c) 2026 Vadali. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command seed loads fixture data into the configured document store.
//
// # Usage
//
//	seed apply                 # embedded fixture into STORE_DRIVER
//	seed apply --file data.json
//	seed validate --file data.json
package main

import (
	"os"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		failure("%v", err)
		os.Exit(1)
	}
}
