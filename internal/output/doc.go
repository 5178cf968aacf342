// Package output persists extraction records as a JSON array.
//
// Write replaces the destination file, or in append mode merges new records
// after the elements already stored there. Existing elements are carried as
// raw JSON so fields this tool does not know about survive the rewrite. A
// sibling ".lock" file serialises concurrent writers and the array itself is
// swapped in atomically, so an interrupted run never leaves a truncated file.
package output
