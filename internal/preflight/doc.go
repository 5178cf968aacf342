// Package preflight provides readiness checks for the programs, files and
// services atlasmeta depends on.
//
// The doctor command runs RunAll and renders the results. The extract command
// uses CheckOutputPath before doing any network work so an unwritable
// destination fails fast instead of after a long batch. The inference service
// check is skipped with a failing result when no API key is configured.
package preflight
