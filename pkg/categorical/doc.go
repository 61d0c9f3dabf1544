// Package categorical converts raw spreadsheet text into controlled categorical
// values and remaps those values into coarser or renamed label sets.
//
// # Values
//
// A Value is one of three cases:
//
//	Label("Y")   a label drawn from a CategorySet
//	Absent()     missing because no raw input was supplied
//	Rejected()   missing because the raw input matched no label
//
// Both missing kinds print as NA, but Kind() keeps them apart so that a blank cell
// and a typo are never confused.
//
// # Parsing
//
//	col, rejections, err := categorical.ParseStrings(
//	    []string{"Y", "Y", "N", "n"},
//	    []string{"N", "Y"},
//	    categorical.ParseOptions{},
//	)
//	// col.Values   -> [Y Y N NA(rejected)]
//	// rejections   -> [{Position: 4, Text: "n"}]
//
// Unmatched values never fail a parse. Only structural mistakes such as a
// duplicated label return an error, and those errors are always *ConfigError.
//
// # Recoding
//
//	out, err := categorical.Recode(col, []categorical.Rule{
//	    categorical.Collapse("No", "N", "n"),
//	    categorical.Collapse("Yes", "Y"),
//	}, categorical.RecodeOptions{})
//
// The output level order follows the rule order, followed by any levels the rules
// did not mention (unless recoding is exhaustive).
//
// All functions are pure: inputs are never modified and outputs never share
// backing arrays with them, so columns may be processed concurrently.
package categorical
