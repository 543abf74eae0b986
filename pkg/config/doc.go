/*
Package config manages the persisted sync aliases and resolves the options for
one run.

	            +-------------+
	            |    Store    |
	            |  (aliases)  |
	            +------+------+
	                   |
	   +--------+------+-----+--------+
	   |        |            |        |
	+--+---+ +--+---+    +---+--+ +---+--+
	| JSON | | YAML |    | HCL  | | TOML |
	+------+ +------+    +------+ +------+

🎯 Purpose:
- Load and save the alias store in the format matching its extension
- Merge command line values, a saved alias and the default target org
- Normalize files_to_sync entries and local directory paths

🔄 Flow:
 1. LoadStore reads the store (a missing file is an empty store)
 2. Merge picks each value from overrides, then the alias, then defaults
 3. Every missing required field is reported in one MissingFieldsError
 4. The local directory is expanded (~) and made absolute

⚡ Precedence:

	--flag / METASYNC_* env  >  alias config  >  default_target_org

🔍 Example:

	store, err := config.LoadStore(ctx, path)
	if err != nil {
		return err
	}

	opts, err := config.Merge(store, config.Overrides{ConfigAlias: "dw"})
	if err != nil {
		var missing *config.MissingFieldsError
		if errors.As(err, &missing) {
			// tell the user every field at once
		}
		return err
	}

HCL stores can reference the environment:

	config "dw" {
	  local_dir = "${env.HOME}/src/main/dw"
	}
*/
package config
