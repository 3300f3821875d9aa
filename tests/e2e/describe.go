// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package e2e

import (
	ginkgo "github.com/onsi/ginkgo/v2"
)

// DescribeAtomic annotates the tests that move funds through shared memory.
func DescribeAtomic(text string, args ...interface{}) bool {
	return ginkgo.Describe("[Atomic] "+text, args...)
}

// DescribeAPI annotates the tests of the chain APIs.
func DescribeAPI(text string, args ...interface{}) bool {
	return ginkgo.Describe("[API] "+text, args...)
}
