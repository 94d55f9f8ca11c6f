/*
Package operation applies literal text patches to files on disk.

	+-------------+
	|   Runner    |
	| (Plan order)|
	+------+------+
	       |
	+------+------+
	| TextPatcher |
	| (Per file)  |
	+------+------+
	       |
	+------+------+
	|   status    |
	| (File I/O)  |
	+-------------+

🎯 Purpose:
- Reads each target once, checks the precondition, writes at most once
- Expands doublestar globs into target files
- Applies the missing-file policy of each step

🔄 Flow:
1. Runner walks the plan steps in order
2. Apply expands a step's file list
3. TextPatcher reads, patches and writes each file through status.FileManager
4. The first error stops the run, files already patched stay patched

⚡ Rules:
- A missing needle or marker is a failure and nothing is written
- A missing file is skipped or fails, depending on the step
- Dry runs stage writes in memory so later steps see earlier ones
- Check never writes, so it reads files concurrently

🔍 Example:

	patcher, err := operation.New(operation.Options{Files: status.New("site")})
	if err != nil {
		return err
	}
	info, err := patcher.InsertBeforeLastMarker(ctx, "about.html", `<script src="x.js"></script>`, "</body>")
*/
package operation
