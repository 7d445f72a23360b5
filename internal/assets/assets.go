// Package assets embeds the default reference data: the 7th CPC pay matrix and
// the dearness allowance archives of the 6th and 7th pay commissions.
package assets

import "embed"

const (
	PayScaleFile = "7th_CPC.csv"
)

// ArchiveFiles are the allowance archives in chronological order.
var ArchiveFiles = []string{"6th_CPC_DA.csv", "7th_CPC_DA.csv"}

//go:embed *.csv
var FS embed.FS
