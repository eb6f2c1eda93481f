// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package wsrender

import "fmt"

func errOverlappingRects(i, j int) error {
	return fmt.Errorf("wsrender: region rects %d and %d overlap", i, j)
}

func errEmptyRect(i int) error {
	return fmt.Errorf("wsrender: region rect %d is empty", i)
}
