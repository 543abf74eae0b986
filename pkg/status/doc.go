/*
Package status turns a reconciliation into per-file rows for the read-only
status report.

	+------------------------+
	| reconcile.Differences  |
	+-----------+------------+
	            |
	     FromDifferences
	            |
	+-----------+------------+
	|  []Entry (by name)     |
	+-----+------------+-----+
	      |            |
	 FormatEntry   Count/FormatCounts

🎯 Purpose:
- Give every full name exactly one status
- Sort rows by name for stable output
- Summarize the counts in one line

📝 Symbols:

	+  remote-only   present remotely, missing locally
	?  local-only    present locally, missing remotely
	⟳  changed       content differs
	=  unchanged     content matches
*/
package status
