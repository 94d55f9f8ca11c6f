/*
Package config loads pagepatch plan files.

	            +-------------+
	            |    Plan     |
	            |  (Steps)    |
	            +------+------+
	                   |
	      +------------+------------+
	      |            |            |
	+-----+----+ +-----+----+ +-----+----+
	|   HCL    | |   YAML   | |   JSON   |
	|  Parser  | |  Parser  | |  Parser  |
	+----------+ +----------+ +----------+

🎯 Purpose:
- Describes ordered patch steps in a file
- Picks a parser by file extension
- Rejects unknown fields, unknown kinds and invalid patches before anything runs

🔄 Flow:
1. Reads the plan file
2. Decodes it with the registered parser for its extension
3. Validates every step
4. Resolves base_dir against the plan's directory

🔍 Example:

	base_dir = "site"

	step "insert-debug" {
	  kind    = "insert_before_marker"
	  files   = ["*.html"]
	  payload = "<script src=\"debug.js\"></script>"
	  marker  = body_close
	}

	plan, err := config.Load(ctx, ".pagepatch.hcl")
	if err != nil {
		return err
	}
*/
package config
