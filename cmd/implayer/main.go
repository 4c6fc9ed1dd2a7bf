/*
 * Copyright (c) 2025 Hardiyanto Y -Ebiet.
 * This software is part of the HDX (Hardix Audio) project.
 * This code is provided "as is", without warranty of any kind.
 */

package main

import (
	"implayer/internal/config"

	"github.com/samber/lo"
)

func main() {
	lo.Must0(config.Setup())
	Execute()
}
