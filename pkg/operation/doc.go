/*
Package operation drives one metasync run against a local directory and a
remote record set.

	+-----------------+      +------------------+
	| remote.Source   |      | local directory  |
	| (sf data query) |      | (go-billy)       |
	+--------+--------+      +--------+---------+
	         |                        |
	         v                        v
	  RemoteWorkspace           LocalWorkspace
	         \                      /
	          +-- workspace.Pair --+
	                   |
	            reconcile.Gather
	                   |
	     +-------------+--------------+
	     |             |              |
	 remote-only    changed      local-only
	  (prompt)  (diff + prompt)  (reported)
	     |             |
	     +------+------+
	            v
	     local writes (locked)

🔄 Phases:
 1. idle → workspaces_initializing: build the local workspace, check
    preconditions, fetch records, build the remote workspace
 2. → reconciled: classify and report; nothing to do ends the run here
 3. → awaiting_remote_only_selection: pull the chosen missing files
 4. → awaiting_changed_selection: show diffs, overwrite the chosen files
 5. → applied → done: print the summary

Empty buckets skip their phase. A cancelled prompt moves straight to done
and the run returns a Summary with Cancelled set.

🔍 Example:

	op, err := operation.New(operation.Options{
		Sync:     *syncOpts,
		Source:   salesforce.New(salesforce.Options{}),
		Prompter: prompt.NewTerminalPrompter(),
	})
	if err != nil {
		return err
	}
	summary, err := op.Sync(ctx)
*/
package operation
