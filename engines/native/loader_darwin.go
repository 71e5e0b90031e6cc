// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package native

const libSuffix = ".dylib"
