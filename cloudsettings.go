// Copyright 2020 Nick White.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

package linewidth

// This file contains the cloud account specific defaults; change this
// if you want to store results on your own site. Each can also be set
// in the configuration file.

const defaultAwsRegion = `eu-west-2`

// Storage bucket names
const (
	storageResults = "rescribelinewidth"
)
