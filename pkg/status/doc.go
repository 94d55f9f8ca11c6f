/*
Package status owns file access and per-file outcome tracking for pagepatch.

	+---------------+
	|    Manager    |
	+-------+-------+
	        |
	+-------+-------+
	|               |
	FileManager   StatusReporter
	(read/write)  (outcomes)

🎯 Purpose:
- Reads and overwrites target files relative to a base directory
- Expands doublestar globs into concrete file lists
- Records what each step did to each file

⚡ Key Responsibilities:
- Overwrite in place through a temp file + rename, keeping permissions
- No backups are kept
- Outcome bookkeeping in the order files were processed

🔍 Example:

	mgr := status.New("site")

	content, err := mgr.ReadFile(ctx, "index.html")

	mgr.TrackFile(ctx, status.FileInfo{
		Path:    "index.html",
		Step:    "insert-debug-loader",
		Outcome: status.OutcomePatched,
	})

	counts := mgr.Summary(ctx)
*/
package status
